package service

import (
	"log"
	"strings"

	"github.com/amirulafiq/water-bill-extraction/client"
	"github.com/amirulafiq/water-bill-extraction/dto"
)

// selangorSampleBox covers the account-number header where the Lama
// (old) account marker appears on the dual-account layout. Design
// coordinates, like every template rectangle.
var selangorSampleBox = dto.Rect{X: 1600, Y: 250, W: 800, H: 250}

// resolveLayout refines Selangor into its single- or dual-account
// variant by OCR'ing the account header sample. Every other region maps
// to itself. Resolution never fails: an unreadable sample degrades to
// the single-account default.
func resolveLayout(region dto.Region, raster *Raster, engines client.EngineFactory, debugPath string) dto.Region {
	if region != dto.RegionSelangor {
		return region
	}

	engine, err := engines()
	if err != nil {
		log.Printf("Layout OCR engine unavailable, defaulting to %s: %v", region, err)
		return dto.RegionSelangor
	}
	defer engine.Close()

	scaleX, scaleY := designScale(raster.Image.Bounds())
	sample, err := cropImage(raster.Image, scaledRect(selangorSampleBox, 0, scaleX, scaleY))
	if err != nil {
		log.Printf("Layout sample crop failed, defaulting to %s: %v", region, err)
		return dto.RegionSelangor
	}

	if debugPath != "" {
		if err := savePNG(debugPath, sample); err != nil {
			log.Printf("Failed to save layout sample %s: %v", debugPath, err)
		}
	}

	text, err := engine.Recognize(sample)
	if err != nil {
		log.Printf("Layout sample OCR failed, defaulting to %s: %v", region, err)
		return dto.RegionSelangor
	}

	lower := strings.ToLower(text)
	if strings.Contains(lower, "baharu") && strings.Contains(lower, "lama") {
		log.Println("Detected dual account layout (Baharu + Lama)")
		return dto.RegionSelangor2
	}
	return dto.RegionSelangor
}
