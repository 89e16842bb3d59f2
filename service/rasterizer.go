package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	xdraw "golang.org/x/image/draw"

	"github.com/amirulafiq/water-bill-extraction/dto"
)

// Raster is the canonical page image for one document: resampled to the
// design resolution, with the debug PNG saved alongside.
type Raster struct {
	Image image.Image
	Path  string
}

// Rasterizer renders the representative page of a PDF and normalizes it
// to the design resolution.
type Rasterizer interface {
	Rasterize(ctx context.Context, pdfPath, baseName string) (*Raster, error)
}

// PopplerRasterizer shells out to pdftoppm for page rendering, falling
// back to pdfcpu embedded-image extraction when poppler is unavailable
// (scanned bills are usually a single full-page image object).
type PopplerRasterizer struct {
	dpi int
	ws  *Workspace
}

func NewPopplerRasterizer(dpi int, ws *Workspace) *PopplerRasterizer {
	return &PopplerRasterizer{dpi: dpi, ws: ws}
}

func (r *PopplerRasterizer) Rasterize(ctx context.Context, pdfPath, baseName string) (*Raster, error) {
	img, err := r.renderPage(ctx, pdfPath, baseName)
	if err != nil {
		log.Printf("pdftoppm render failed for %s, trying embedded image extraction: %v", pdfPath, err)
		img, err = extractLargestImage(pdfPath)
		if err != nil {
			return nil, &dto.RasterizationError{Path: pdfPath, Err: err}
		}
	}

	resized := resizeToDesign(img)

	finalPath := filepath.Join(r.ws.DebugDir, baseName+".png")
	if err := savePNG(finalPath, resized); err != nil {
		log.Printf("Failed to save debug raster %s: %v", finalPath, err)
		finalPath = ""
	}

	return &Raster{Image: resized, Path: finalPath}, nil
}

func (r *PopplerRasterizer) renderPage(ctx context.Context, pdfPath, baseName string) (image.Image, error) {
	outPrefix := filepath.Join(r.ws.DebugDir, baseName+"_raw")
	rawPath := outPrefix + ".png"

	cmd := exec.CommandContext(ctx, "pdftoppm",
		"-r", strconv.Itoa(r.dpi), "-singlefile", "-png", pdfPath, outPrefix)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %v, stderr: %s", err, stderr.String())
	}
	defer os.Remove(rawPath)

	f, err := os.Open(rawPath)
	if err != nil {
		return nil, fmt.Errorf("pdftoppm produced no output: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode rendered page: %w", err)
	}
	return img, nil
}

// extractLargestImage pulls embedded images out of the PDF and returns
// the biggest one, assuming it is the scanned page.
func extractLargestImage(pdfPath string) (image.Image, error) {
	tempDir, err := os.MkdirTemp("", "pdf_images")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractImagesFile(pdfPath, tempDir, nil, conf); err != nil {
		return nil, fmt.Errorf("failed to extract images: %w", err)
	}

	files, err := os.ReadDir(tempDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read temp dir: %w", err)
	}

	var largest image.Image
	var largestArea int
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		imgFile, err := os.Open(filepath.Join(tempDir, file.Name()))
		if err != nil {
			continue
		}
		img, _, err := image.Decode(imgFile)
		imgFile.Close()
		if err != nil {
			continue
		}
		area := img.Bounds().Dx() * img.Bounds().Dy()
		if area > largestArea {
			largest = img
			largestArea = area
		}
	}

	if largest == nil {
		return nil, fmt.Errorf("no page image found in %s", pdfPath)
	}
	return largest, nil
}

// resizeToDesign resamples to 2481x3509 ignoring aspect ratio, so
// template geometry scales uniformly per axis.
func resizeToDesign(src image.Image) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, dto.DesignWidth, dto.DesignHeight))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
