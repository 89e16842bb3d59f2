package utils

import (
	"github.com/amirulafiq/water-bill-extraction/dto"
)

// RegionParser normalizes the raw per-field OCR output of one region's
// bill layout into that region's field set (fed to Standardize).
type RegionParser interface {
	Parse(res *dto.ExtractionResult) map[string]string
}

var regionParsers = map[dto.Region]RegionParser{
	dto.RegionJohor:          johorParser{},
	dto.RegionKedah:          kedahParser{},
	dto.RegionNegeriSembilan: negeriSembilanParser{},
}

// ParserFor selects the normalizer chain for a region. Regions without a
// dedicated chain (Selangor, Selangor2, Melaka) get the pass-through
// parser: their template field names already line up with the
// standardization aliases.
func ParserFor(region dto.Region) RegionParser {
	if p, ok := regionParsers[region]; ok {
		return p
	}
	return defaultParser{}
}

type defaultParser struct{}

func (defaultParser) Parse(res *dto.ExtractionResult) map[string]string {
	out := make(map[string]string, len(res.Fields)+4)
	for k, v := range res.Fields {
		out[k] = v
	}
	out["File Name"] = res.FileName
	out["Region"] = string(res.Region)
	if res.TempohBil != "" {
		out["Tempoh Bil"] = res.TempohBil
	}
	if res.BilanganHari != "" {
		out["Bilangan Hari"] = res.BilanganHari
	}
	return out
}
