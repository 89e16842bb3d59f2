package utils

import (
	"regexp"
	"strings"

	"github.com/amirulafiq/water-bill-extraction/dto"
)

var looseAmountJunkRegex = regexp.MustCompile(`[^\d.,\-]`)

// Standardize maps a region's heterogeneous field set onto the canonical
// record. Each canonical field probes an ordered list of source aliases
// (first non-empty wins); monetary fields default to "0.00", usage to
// "0", identifiers and dates to "". Total: never fails.
func Standardize(data map[string]string) dto.BillRecord {
	pick := func(keys ...string) string {
		for _, k := range keys {
			if v := data[k]; v != "" {
				return v
			}
		}
		return ""
	}

	cajSemasa := pick("Caj Semasa", "Jumlah Bil Semasa", "Jumlah Caj Semasa", "Jumlah Caj Air Semasa")
	if cajSemasa == "" {
		cajSemasa = looseAmount(data["Bil Semasa"])
	}

	return dto.BillRecord{
		FileName:           pick("File Name", "File_Name"),
		Region:             data["Region"],
		NoInvois:           pick("No. Invois", "No. Bil", "No_Invois", "No_Bil"),
		NoAkaun:            pick("No. Akaun", "Nombor Akaun", "Nombor_Akaun"),
		Tarikh:             strings.TrimSpace(strings.ReplaceAll(data["Tarikh"], "-", "/")),
		TempohBil:          pick("Tempoh Bil", "Tempoh_Bil"),
		BilanganHari:       pick("Bilangan Hari", "Bilangan_Hari"),
		NoMeter:            pick("No. Meter", "Nombor Meter", "Nombor_Meter"),
		Penggunaan:         valueOr(pick("Penggunaan", "Penggunaan (m3)", "Penggunaan Semasa"), "0"),
		CajSemasa:          cajSemasa,
		Tunggakan:          valueOr(pick("Tunggakan", "Jumlah Tunggakan"), "0.00"),
		JumlahPerluDibayar: valueOr(pick("Jumlah Perlu Dibayar", "Jumlah_Perlu_Dibayar"), "0.00"),
		Deposit:            valueOr(pick("Deposit", "Cagaran"), "0.00"),
	}
}

// looseAmount coerces a raw crop into a numeric string, defaulting to
// 0.00 when nothing usable is present.
func looseAmount(v string) string {
	if v == "" {
		return "0.00"
	}
	v = looseAmountJunkRegex.ReplaceAllString(v, "")
	return strings.Replace(v, ",", ".", 1)
}
