package service

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/amirulafiq/water-bill-extraction/client"
	"github.com/amirulafiq/water-bill-extraction/dto"
	"github.com/amirulafiq/water-bill-extraction/utils"
)

// offsetSensitiveKeys are the fields printed below the address block;
// they shift with it when the address is shorter or longer than the
// 6-line baseline the templates were authored against.
var offsetSensitiveKeys = map[string]bool{
	"No. Meter":             true,
	"Bilangan Hari - Start": true,
	"Bilangan Hari - End":   true,
	"Baki Terdahulu":        true,
	"Bil Semasa":            true,
	"Jumlah Perlu Dibayar":  true,
	"Penggunaan (m3)":       true,
}

// numericCleanKeys get currency/junk stripping right after OCR.
var numericCleanKeys = map[string]bool{
	"Bil Semasa":           true,
	"Jumlah Perlu Dibayar": true,
	"Baki Terdahulu":       true,
	"Cagaran":              true,
	"Penggunaan (m3)":      true,
}

// TemplateExtractor crops every templated field out of the raster,
// OCRs each crop, and derives the billing period. A per-field failure
// yields an empty value, never an aborted extraction.
type TemplateExtractor struct {
	ws      *Workspace
	engines client.EngineFactory
}

func NewTemplateExtractor(ws *Workspace, engines client.EngineFactory) *TemplateExtractor {
	return &TemplateExtractor{ws: ws, engines: engines}
}

func (e *TemplateExtractor) Extract(ctx context.Context, raster *Raster, tpl dto.Template, fileName string, region dto.Region, jobID string) (*dto.ExtractionResult, error) {
	engine, err := e.engines()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire OCR engine: %w", err)
	}
	defer engine.Close()

	scaleX, scaleY := designScale(raster.Image.Bounds())

	cropsDir := filepath.Join(e.ws.CropsDir, jobID)
	if err := os.MkdirAll(cropsDir, 0o755); err != nil {
		log.Printf("Failed to create crops dir %s: %v", cropsDir, err)
		cropsDir = ""
	}

	res := &dto.ExtractionResult{
		FileName: fileName,
		Region:   region,
		Fields:   make(map[string]string, len(tpl)),
	}

	if box, ok := tpl[dto.AddressField]; ok {
		res.Address = e.extractAddress(engine, raster, box, scaleX, scaleY, cropsDir)
	}
	res.AddressLines = utils.CountAddressLines(res.Address)
	res.OffsetY = ComputeOffset(res.AddressLines)
	log.Printf("Address lines: %d, vertical offset: %dpx", res.AddressLines, res.OffsetY)

	var overlayRects []image.Rectangle
	for key, box := range tpl {
		if key == dto.AddressField {
			continue
		}

		offset := 0
		if offsetSensitiveKeys[key] {
			offset = res.OffsetY
		}
		rect := scaledRect(box, offset, scaleX, scaleY)
		overlayRects = append(overlayRects, rect)

		crop, err := cropImage(raster.Image, rect)
		if err != nil {
			log.Printf("Crop failed for field %q: %v", key, err)
			res.Fields[key] = ""
			continue
		}
		e.saveFieldCrop(cropsDir, key, crop)

		text, err := engine.Recognize(crop)
		if err != nil {
			log.Printf("OCR failed for field %q: %v", key, err)
			res.Fields[key] = ""
			continue
		}

		text = strings.TrimSpace(text)
		if numericCleanKeys[key] {
			text = utils.CleanNumeric(text)
		}
		res.Fields[key] = text
		log.Printf("Field %q: %s", key, text)
	}

	e.renderOverlay(raster, overlayRects)
	derivePeriod(res)

	return res, nil
}

func (e *TemplateExtractor) extractAddress(engine client.OCREngine, raster *Raster, box dto.Rect, scaleX, scaleY float64, cropsDir string) string {
	// The address block is never offset: it is the reference the offset
	// is measured from.
	crop, err := cropImage(raster.Image, scaledRect(box, 0, scaleX, scaleY))
	if err != nil {
		log.Printf("Address crop failed: %v", err)
		return ""
	}
	e.saveFieldCrop(cropsDir, dto.AddressField, crop)

	text, err := engine.Recognize(crop)
	if err != nil {
		log.Printf("Address OCR failed: %v", err)
		return ""
	}
	return utils.CleanAddress(strings.TrimSpace(text))
}

func (e *TemplateExtractor) saveFieldCrop(cropsDir, key string, crop image.Image) {
	if cropsDir == "" {
		return
	}
	name := strings.ReplaceAll(key, " ", "_") + ".png"
	if err := savePNG(filepath.Join(cropsDir, name), crop); err != nil {
		log.Printf("Failed to save crop for %q: %v", key, err)
	}
}

// renderOverlay saves the raster with every extracted rectangle outlined
// for human audit. Failure here never fails the extraction.
func (e *TemplateExtractor) renderOverlay(raster *Raster, rects []image.Rectangle) {
	if raster.Path == "" {
		return
	}

	bounds := raster.Image.Bounds()
	overlay := image.NewRGBA(bounds)
	draw.Draw(overlay, bounds, raster.Image, bounds.Min, draw.Src)

	red := color.RGBA{R: 255, A: 255}
	for _, r := range rects {
		drawRectOutline(overlay, r, red, 3)
	}

	overlayPath := strings.TrimSuffix(raster.Path, ".png") + "_overlay.png"
	if err := savePNG(overlayPath, overlay); err != nil {
		log.Printf("Failed to save debug overlay %s: %v", overlayPath, err)
		return
	}
	log.Printf("Saved debug overlay %s", overlayPath)
}

// ComputeOffset converts the address line count into the vertical shift
// (design-space pixels) applied to the fields below the address block.
// The 6-line baseline maps to zero.
func ComputeOffset(addressLines int) int {
	return -(6 - addressLines) * 50
}

// derivePeriod builds the billing period from the two boundary date
// fields and replaces them with the combined pair. The end-marker field
// is read as the period start and vice versa; both template authoring
// and the duplicated legacy extractors disagree on this pairing, so it
// is kept as-is rather than silently flipped.
func derivePeriod(res *dto.ExtractionResult) {
	start := utils.NormalizeBillDate(res.Fields["Bilangan Hari - End"])
	end := utils.NormalizeBillDate(res.Fields["Bilangan Hari - Start"])

	if start != "" && end != "" {
		res.TempohBil = start + " - " + end
		res.BilanganHari = utils.DayCountBetween(start, end)
	}

	delete(res.Fields, "Bilangan Hari - Start")
	delete(res.Fields, "Bilangan Hari - End")
}

// designScale returns the per-axis factors mapping design coordinates
// onto the actual raster.
func designScale(bounds image.Rectangle) (scaleX, scaleY float64) {
	return float64(bounds.Dx()) / dto.DesignWidth, float64(bounds.Dy()) / dto.DesignHeight
}

// scaledRect maps a template rectangle (plus vertical offset) from
// design space onto the raster.
func scaledRect(box dto.Rect, offsetY int, scaleX, scaleY float64) image.Rectangle {
	left := int(math.Round(float64(box.X) * scaleX))
	top := int(math.Round(float64(box.Y+offsetY) * scaleY))
	width := int(math.Round(float64(box.W) * scaleX))
	height := int(math.Round(float64(box.H) * scaleY))
	return image.Rect(left, top, left+width, top+height)
}

func cropImage(img image.Image, r image.Rectangle) (image.Image, error) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return nil, fmt.Errorf("crop region outside image bounds")
	}

	type subImager interface {
		SubImage(r image.Rectangle) image.Image
	}
	if si, ok := img.(subImager); ok {
		return si.SubImage(r), nil
	}

	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), img, r.Min, draw.Src)
	return out, nil
}

func drawRectOutline(dst *image.RGBA, r image.Rectangle, col color.RGBA, thickness int) {
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	for t := 0; t < thickness; t++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			dst.SetRGBA(x, clampY(r.Min.Y+t, r), col)
			dst.SetRGBA(x, clampY(r.Max.Y-1-t, r), col)
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			dst.SetRGBA(clampX(r.Min.X+t, r), y, col)
			dst.SetRGBA(clampX(r.Max.X-1-t, r), y, col)
		}
	}
}

func clampY(y int, r image.Rectangle) int {
	if y < r.Min.Y {
		return r.Min.Y
	}
	if y >= r.Max.Y {
		return r.Max.Y - 1
	}
	return y
}

func clampX(x int, r image.Rectangle) int {
	if x < r.Min.X {
		return r.Min.X
	}
	if x >= r.Max.X {
		return r.Max.X - 1
	}
	return x
}
