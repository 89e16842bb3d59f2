package service

import (
	"context"
	"image"
	"log"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/amirulafiq/water-bill-extraction/client"
	"github.com/amirulafiq/water-bill-extraction/dto"
)

// minEmbeddedTextLen is the threshold below which the embedded text
// layer is considered unusable and classification falls through to OCR.
const minEmbeddedTextLen = 100

// headerCropMaxHeight caps the header strip OCR'd in the last
// classification tier.
const headerCropMaxHeight = 400

// regionRule matches one issuer's signature vocabulary. Rules are
// evaluated in order and the first match wins: "saj" is a substring of
// several unrelated phrases, so Johor must stay last.
type regionRule struct {
	region     dto.Region
	patterns   []*regexp.Regexp
	substrings []string
}

var regionRules = []regionRule{
	{region: dto.RegionSelangor, patterns: compilePatterns(`air\s*selangor`)},
	{region: dto.RegionMelaka, patterns: compilePatterns(`syarikat\s*air\s*melaka`, `\bsamb\b`)},
	{region: dto.RegionNegeriSembilan, patterns: compilePatterns(`syarikat\s*air\s*negeri\s*sembilan`, `\bsains\b`)},
	{region: dto.RegionKedah, patterns: compilePatterns(`syarikat\s*air\s*darul\s*aman`, `\bsada\b`)},
	{region: dto.RegionJohor, substrings: []string{
		"ranhill saj", "ranhill sdn", "saj sdn", "ranhill", "saj", "johor", "darul ta'zim",
	}},
}

// johorHeaderMarkers is the narrower signature set for the header-crop
// tier; Ranhill bills have inconsistent full-text signatures.
var johorHeaderMarkers = []string{"ranhill", "saj", "johor", "darul ta'zim"}

func compilePatterns(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// RegionDetector classifies a bill into its issuing utility using three
// tiers: embedded PDF text, full-page OCR, then a Johor header-crop OCR.
type RegionDetector struct {
	pdf     PDFProcessor
	engines client.EngineFactory
	ws      *Workspace
}

func NewRegionDetector(pdf PDFProcessor, engines client.EngineFactory, ws *Workspace) *RegionDetector {
	return &RegionDetector{pdf: pdf, engines: engines, ws: ws}
}

// Detect classifies the document. RegionUnknown with a nil error means
// no tier matched; the caller decides how to surface that.
func (d *RegionDetector) Detect(ctx context.Context, pdfData []byte, raster *Raster, baseName string) (dto.Region, error) {
	text, err := d.pdf.ExtractText(pdfData)
	if err != nil {
		log.Printf("Embedded text extraction failed for %s: %v", baseName, err)
		text = ""
	}

	if len(strings.TrimSpace(text)) < minEmbeddedTextLen {
		log.Printf("Embedded text too short for %s, running full-page OCR", baseName)
		ocrText, ocrErr := d.recognizeImage(raster.Image)
		if ocrErr != nil {
			log.Printf("Full-page OCR failed for %s: %v", baseName, ocrErr)
		} else {
			text = ocrText
		}
	}

	if region := detectRegionFromText(text); region != dto.RegionUnknown {
		return region, nil
	}

	log.Printf("Text scan found no region for %s, checking header crop for Johor", baseName)
	if d.headerLooksJohor(raster, baseName) {
		return dto.RegionJohor, nil
	}

	return dto.RegionUnknown, nil
}

// detectRegionFromText applies the ordered signature rules to the
// normalized (lower-cased, whitespace-collapsed) text.
func detectRegionFromText(text string) dto.Region {
	t := strings.ToLower(text)
	t = strings.Join(strings.Fields(t), " ")

	for _, rule := range regionRules {
		for _, p := range rule.patterns {
			if p.MatchString(t) {
				return rule.region
			}
		}
		for _, s := range rule.substrings {
			if strings.Contains(t, s) {
				return rule.region
			}
		}
	}
	return dto.RegionUnknown
}

// headerLooksJohor crops the top of the page (capped at 400px, at most
// 25% of the height) and checks the narrow Johor signature set.
func (d *RegionDetector) headerLooksJohor(raster *Raster, baseName string) bool {
	bounds := raster.Image.Bounds()
	cropHeight := bounds.Dy() / 4
	if cropHeight > headerCropMaxHeight {
		cropHeight = headerCropMaxHeight
	}

	header, err := cropImage(raster.Image, image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Min.Y+cropHeight))
	if err != nil {
		log.Printf("Header crop failed for %s: %v", baseName, err)
		return false
	}

	headerPath := filepath.Join(d.ws.DebugDir, baseName+"_header.png")
	if err := savePNG(headerPath, header); err != nil {
		log.Printf("Failed to save header crop %s: %v", headerPath, err)
	}

	text, err := d.recognizeImage(header)
	if err != nil {
		log.Printf("Header OCR failed for %s: %v", baseName, err)
		return false
	}

	lower := strings.ToLower(text)
	for _, marker := range johorHeaderMarkers {
		if strings.Contains(lower, marker) {
			log.Printf("Header OCR detected Ranhill signature for %s", baseName)
			return true
		}
	}
	return false
}

func (d *RegionDetector) recognizeImage(img image.Image) (string, error) {
	engine, err := d.engines()
	if err != nil {
		return "", err
	}
	defer engine.Close()
	return engine.Recognize(img)
}
