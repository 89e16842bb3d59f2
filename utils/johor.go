package utils

import (
	"regexp"
	"strings"

	"github.com/amirulafiq/water-bill-extraction/dto"
)

// Template field names on the Ranhill SAJ (Johor) layout. Several are
// composite text blocks that need regex disassembly rather than clean
// single-value crops.
const (
	johorTunggakanSection = "Tunggakan dan Tarikh Section"
	johorBilSection       = "Jumlah Bil Semasa Section"
	johorCajSection       = "Jumlah Caj Air Semasa Section"
	johorMeterSection     = "No Meter, Tarikh, Penggunaan(m3) Section"
)

var (
	johorAmountRegex = regexp.MustCompile(`(\d+(?:[.,]\d{1,2})?)`)
	// The arrears line may carry a date and a stamp/reference code
	// (e.g. "TUNGGAKAN 15/07/25 PVU3208/2506216 42.50") before the
	// amount; both optional tokens must be skipped.
	johorTunggakanRegex = regexp.MustCompile(`(?i)TUNGGAKAN(?:\s+\d{2}/\d{2}/\d{2,4})?(?:\s+[A-Z0-9/]+)?\s+([0-9]+(?:[.,][0-9]{1,2})?)`)
	johorTarikhRegex    = regexp.MustCompile(`(?i)JUMLAH\s+BIL\s+SEMASA\s+(\d{2})[/\-]?(\d{2})[/\-]?(\d{4})`)
	johorBilRegex       = regexp.MustCompile(`(?i)JUMLAH\s+BIL\s+SEMASA[^0-9]*([0-9]+(?:[.,][0-9]{1,2})?)`)
	johorCajRegex       = regexp.MustCompile(`(?i)JUMLAH\s+CAJ\s+AIR\s+SEMASA[^0-9]*([0-9]+(?:[.,][0-9]{1,2})?)`)
	johorMeterRegex     = regexp.MustCompile(`(?i)(SAJ[0-9A-Z\s]+)`)
	johorUsageRegex     = regexp.MustCompile(`(\d{1,4}\.\d{1,2})\s*$`)
	johorDateRegex      = regexp.MustCompile(`(\d{2}[/\-]\d{2}[/\-]\d{4})`)
)

type johorParser struct{}

func (johorParser) Parse(res *dto.ExtractionResult) map[string]string {
	r := res.Fields
	out := map[string]string{
		"File Name": res.FileName,
		"Region":    string(res.Region),
	}

	out["Deposit"] = "0.00"
	if m := johorAmountRegex.FindStringSubmatch(r["Deposit"]); m != nil {
		out["Deposit"] = strings.ReplaceAll(m[1], ",", ".")
	}

	out["Tunggakan"] = "0.00"
	if section := r[johorTunggakanSection]; section != "" {
		if m := johorTunggakanRegex.FindStringSubmatch(section); m != nil {
			out["Tunggakan"] = strings.ReplaceAll(m[1], ",", ".")
		}
		if m := johorTarikhRegex.FindStringSubmatch(section); m != nil {
			out["Tarikh"] = m[1] + "/" + m[2] + "/" + m[3]
		}
	}

	if section := r[johorBilSection]; section != "" {
		if m := johorBilRegex.FindStringSubmatch(section); m != nil {
			out["Jumlah Bil Semasa"] = strings.ReplaceAll(m[1], ",", ".")
		}
	}

	out["No. Bil"] = CleanIdentifier(r["No. Bil"])
	out["No. Akaun"] = CleanIdentifier(r["No. Akaun"])

	if section := r[johorMeterSection]; section != "" {
		if m := johorMeterRegex.FindStringSubmatch(section); m != nil {
			out["No. Meter"] = whitespaceRegex.ReplaceAllString(m[1], "")
		}

		// Usage is the trailing decimal on the same line as the meter
		// number, not the first number in the block.
		for _, line := range strings.Split(section, "\n") {
			if !strings.Contains(line, "SAJ") {
				continue
			}
			if m := johorUsageRegex.FindStringSubmatch(line); m != nil {
				out["Penggunaan (m3)"] = strings.ReplaceAll(m[1], ",", ".")
			}
			break
		}

		// First matched date is the period end, second the start.
		dates := johorDateRegex.FindAllString(section, -1)
		if len(dates) >= 2 {
			end := dates[0]
			start := dates[1]
			out["Tempoh Bil"] = start + " - " + end
			out["Bilangan Hari"] = DayCountBetween(NormalizeBillDate(start), NormalizeBillDate(end))
		}
	}

	if section := r[johorCajSection]; section != "" {
		if m := johorCajRegex.FindStringSubmatch(section); m != nil {
			out["Jumlah Caj Air Semasa"] = strings.ReplaceAll(m[1], ",", ".")
		}
	}
	if out["Jumlah Caj Air Semasa"] == "" {
		if out["Jumlah Bil Semasa"] != "" {
			out["Jumlah Caj Air Semasa"] = out["Jumlah Bil Semasa"]
		} else {
			out["Jumlah Caj Air Semasa"] = "0.00"
		}
	}

	return out
}
