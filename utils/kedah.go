package utils

import (
	"regexp"
	"strings"

	"github.com/amirulafiq/water-bill-extraction/dto"
)

// kedahTotalsSection is the single SADA crop holding all three labelled
// "LABEL : RM <amount>" totals.
const kedahTotalsSection = "Jumlah Caj Semasa, Jumlah Tunggakan dan Jumlah Perlu Dibayar Section"

type kedahParser struct{}

func (kedahParser) Parse(res *dto.ExtractionResult) map[string]string {
	r := res.Fields
	section := r[kedahTotalsSection]

	out := map[string]string{
		"File Name":            res.FileName,
		"Region":               string(dto.RegionKedah),
		"Nombor Akaun":         r["No. Akaun"],
		"No. Invois":           r["No. Bil"],
		"Tarikh":               r["Tarikh"],
		"Tempoh Bil":           res.TempohBil,
		"Bilangan Hari":        res.BilanganHari,
		"Nombor Meter":         r["No. Meter"],
		"Penggunaan Semasa":    r["Penggunaan Semasa"],
		"Jumlah Caj Semasa":    kedahLabelledAmount(section, "JUMLAH CAJ SEMASA"),
		"Jumlah Tunggakan":     kedahLabelledAmount(section, "JUMLAH TUNGGAKAN"),
		"Jumlah Perlu Dibayar": kedahLabelledAmount(section, "JUMLAH PERLU DIBAYAR"),
	}

	if out["Cagaran"] = r["Cagaran"]; out["Cagaran"] == "" {
		out["Cagaran"] = "0.00"
	}
	return out
}

// kedahLabelledAmount extracts the RM amount following "LABEL :" in the
// totals section, defaulting to 0.00.
func kedahLabelledAmount(section, label string) string {
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label) + `\s*:\s*RM\s*([0-9]+(?:[.,][0-9]{1,2})?)`)
	if m := re.FindStringSubmatch(section); m != nil {
		return strings.ReplaceAll(m[1], ",", ".")
	}
	return "0.00"
}
