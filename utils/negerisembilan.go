package utils

import (
	"regexp"
	"strings"

	"github.com/amirulafiq/water-bill-extraction/dto"
)

var (
	n9DatePairRegex = regexp.MustCompile(`(\d{2})[\-/](\d{2})[\-/](\d{4}).*?(\d{2})[\-/](\d{2})[\-/](\d{4})`)
	n9NumberRegex   = regexp.MustCompile(`(\d+(?:[.,]\d+)?)`)
	n9AmountRegex   = regexp.MustCompile(`([0-9]+(?:[.,][0-9]{1,2})?)`)
)

type negeriSembilanParser struct{}

func (negeriSembilanParser) Parse(res *dto.ExtractionResult) map[string]string {
	r := res.Fields
	out := map[string]string{
		"File Name": res.FileName,
		"Region":    string(res.Region),
	}

	out["No. Akaun"] = r["No. Akaun"]
	out["No. Invois"] = r["No. Bil"]
	out["Tarikh"] = strings.TrimSpace(strings.ReplaceAll(r["Tarikh"], "-", "/"))

	// The SAINS layout prints both period boundaries in one block; here
	// the first date is the start, unlike the executor's pairing.
	out["Tempoh Bil"] = ""
	out["Bilangan Hari"] = ""
	if m := n9DatePairRegex.FindStringSubmatch(r["Bilangan Hari Section"]); m != nil {
		start := m[1] + "/" + m[2] + "/" + m[3]
		end := m[4] + "/" + m[5] + "/" + m[6]
		out["Tempoh Bil"] = start + " - " + end
		out["Bilangan Hari"] = DayCountBetween(start, end)
	}

	out["Penggunaan"] = "0"
	if m := n9NumberRegex.FindStringSubmatch(r["Penggunaan"]); m != nil {
		out["Penggunaan"] = strings.ReplaceAll(m[1], ",", ".")
	}

	out["Deposit"] = "0.00"
	if m := n9AmountRegex.FindStringSubmatch(r["Deposit"]); m != nil {
		out["Deposit"] = strings.ReplaceAll(m[1], ",", ".")
	}

	out["No. Meter"] = r["No. Meter"]
	out["Caj Semasa"] = valueOr(r["Caj Semasa"], "0.00")
	out["Tunggakan"] = valueOr(r["Tunggakan"], "0.00")
	out["Jumlah Perlu Dibayar"] = valueOr(r["Jumlah Perlu Dibayar"], "0.00")

	return out
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
