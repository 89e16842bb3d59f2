package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amirulafiq/water-bill-extraction/dto"
)

func TestParserForLookup(t *testing.T) {
	assert.IsType(t, johorParser{}, ParserFor(dto.RegionJohor))
	assert.IsType(t, kedahParser{}, ParserFor(dto.RegionKedah))
	assert.IsType(t, negeriSembilanParser{}, ParserFor(dto.RegionNegeriSembilan))
	assert.IsType(t, defaultParser{}, ParserFor(dto.RegionSelangor))
	assert.IsType(t, defaultParser{}, ParserFor(dto.RegionSelangor2))
	assert.IsType(t, defaultParser{}, ParserFor(dto.RegionMelaka))
}

func TestDefaultParserPassThrough(t *testing.T) {
	res := &dto.ExtractionResult{
		FileName:     "bill.pdf",
		Region:       dto.RegionSelangor,
		TempohBil:    "15/07/2025 - 15/06/2025",
		BilanganHari: "30",
		Fields: map[string]string{
			"No. Akaun": "88123456",
			"Tarikh":    "15/07/2025",
		},
	}

	out := defaultParser{}.Parse(res)

	assert.Equal(t, "bill.pdf", out["File Name"])
	assert.Equal(t, "Selangor", out["Region"])
	assert.Equal(t, "88123456", out["No. Akaun"])
	assert.Equal(t, "15/07/2025 - 15/06/2025", out["Tempoh Bil"])
	assert.Equal(t, "30", out["Bilangan Hari"])
}

func TestJohorParserTunggakanWithStamp(t *testing.T) {
	res := &dto.ExtractionResult{
		FileName: "johor.pdf",
		Region:   dto.RegionJohor,
		Fields: map[string]string{
			johorTunggakanSection: "TUNGGAKAN 15/07/25 PVU3208/2506216 42.50\nJUMLAH BIL SEMASA 15/07/2025",
		},
	}

	out := johorParser{}.Parse(res)

	// Amount follows the keyword, skipping the optional date and stamp
	// reference tokens.
	assert.Equal(t, "42.50", out["Tunggakan"])
	assert.Equal(t, "15/07/2025", out["Tarikh"])
}

func TestJohorParserTunggakanDefaults(t *testing.T) {
	res := &dto.ExtractionResult{Region: dto.RegionJohor, Fields: map[string]string{}}
	out := johorParser{}.Parse(res)

	assert.Equal(t, "0.00", out["Tunggakan"])
	assert.Equal(t, "0.00", out["Deposit"])
	assert.Equal(t, "0.00", out["Jumlah Caj Air Semasa"])
}

func TestJohorParserMeterSection(t *testing.T) {
	res := &dto.ExtractionResult{
		FileName: "johor.pdf",
		Region:   dto.RegionJohor,
		Fields: map[string]string{
			johorMeterSection: "15/07/2025 15/06/2025\nSAJ12345678 : 45.67",
			"Deposit":         "RM 50.00",
			"No. Akaun":       "88 12 3456",
			"No. Bil":         "INV 2025 001",
		},
	}

	out := johorParser{}.Parse(res)

	assert.Equal(t, "SAJ12345678", out["No. Meter"])
	assert.Equal(t, "45.67", out["Penggunaan (m3)"])
	// First date in the block is read as the period end, the second as
	// the start.
	assert.Equal(t, "15/06/2025 - 15/07/2025", out["Tempoh Bil"])
	assert.Equal(t, "30", out["Bilangan Hari"])
	assert.Equal(t, "50.00", out["Deposit"])
	assert.Equal(t, "88123456", out["No. Akaun"])
	assert.Equal(t, "INV2025001", out["No. Bil"])
}

func TestJohorParserCajFallsBackToBil(t *testing.T) {
	res := &dto.ExtractionResult{
		Region: dto.RegionJohor,
		Fields: map[string]string{
			johorBilSection: "JUMLAH BIL SEMASA RM 78,90",
		},
	}

	out := johorParser{}.Parse(res)

	assert.Equal(t, "78.90", out["Jumlah Bil Semasa"])
	assert.Equal(t, "78.90", out["Jumlah Caj Air Semasa"])
}

func TestKedahParserLabelledAmounts(t *testing.T) {
	res := &dto.ExtractionResult{
		FileName:     "kedah.pdf",
		Region:       dto.RegionKedah,
		TempohBil:    "01/06/2025 - 01/07/2025",
		BilanganHari: "30",
		Fields: map[string]string{
			kedahTotalsSection: "JUMLAH CAJ SEMASA : RM 23,45\nJUMLAH TUNGGAKAN : RM 0.00\nJUMLAH PERLU DIBAYAR : RM 23.45",
			"No. Akaun":        "0123456789",
			"No. Bil":          "K2025-07",
			"Tarikh":           "01/07/2025",
		},
	}

	out := kedahParser{}.Parse(res)

	assert.Equal(t, "Kedah", out["Region"])
	assert.Equal(t, "23.45", out["Jumlah Caj Semasa"])
	assert.Equal(t, "0.00", out["Jumlah Tunggakan"])
	assert.Equal(t, "23.45", out["Jumlah Perlu Dibayar"])
	assert.Equal(t, "0123456789", out["Nombor Akaun"])
	assert.Equal(t, "K2025-07", out["No. Invois"])
	assert.Equal(t, "01/06/2025 - 01/07/2025", out["Tempoh Bil"])
	assert.Equal(t, "30", out["Bilangan Hari"])
	assert.Equal(t, "0.00", out["Cagaran"])
}

func TestKedahParserMissingSection(t *testing.T) {
	res := &dto.ExtractionResult{Region: dto.RegionKedah, Fields: map[string]string{}}
	out := kedahParser{}.Parse(res)

	assert.Equal(t, "0.00", out["Jumlah Caj Semasa"])
	assert.Equal(t, "0.00", out["Jumlah Tunggakan"])
	assert.Equal(t, "0.00", out["Jumlah Perlu Dibayar"])
}

func TestNegeriSembilanParser(t *testing.T) {
	res := &dto.ExtractionResult{
		FileName: "n9.pdf",
		Region:   dto.RegionNegeriSembilan,
		Fields: map[string]string{
			"No. Akaun":             "556677",
			"No. Bil":               "NS-001",
			"Tarikh":                "09-08-2025",
			"Bilangan Hari Section": "15-06-2025 hingga 15-07-2025",
			"Penggunaan":            "23 m3",
			"Deposit":               "RM 170,00",
			"Caj Semasa":            "31.20",
		},
	}

	out := negeriSembilanParser{}.Parse(res)

	assert.Equal(t, "09/08/2025", out["Tarikh"])
	assert.Equal(t, "15/06/2025 - 15/07/2025", out["Tempoh Bil"])
	assert.Equal(t, "30", out["Bilangan Hari"])
	assert.Equal(t, "23", out["Penggunaan"])
	assert.Equal(t, "170.00", out["Deposit"])
	assert.Equal(t, "31.20", out["Caj Semasa"])
	assert.Equal(t, "0.00", out["Tunggakan"])
	assert.Equal(t, "0.00", out["Jumlah Perlu Dibayar"])
	assert.Equal(t, "NS-001", out["No. Invois"])
}
