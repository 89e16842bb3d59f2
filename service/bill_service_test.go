package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirulafiq/water-bill-extraction/dto"
)

// Long enough to trust the embedded text layer outright.
const selangorEmbeddedText = "Air Selangor Sdn Bhd penyata bil air untuk akaun pengguna. " +
	"Sila jelaskan bayaran sebelum tarikh akhir yang dinyatakan di bawah untuk mengelakkan pemotongan bekalan."

func writeTempPDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resit_jun.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 stub"), 0o644))
	return path
}

func TestExtractBillSelangorEndToEnd(t *testing.T) {
	ws := newTestWorkspace(t)

	tpl := `{"Address": {"x": 100, "y": 380, "w": 900, "h": 420}}`
	require.NoError(t, os.WriteFile(filepath.Join(ws.TemplatesDir, "Selangor.json"), []byte(tpl), 0o644))

	address := strings.Join([]string{
		"NO 12 JALAN MERU",
		"TAMAN BUKIT INDAH",
		"41050 KLANG",
		"SELANGOR DARUL EHSAN",
	}, "\n")

	// One Recognize for the layout sample, one for the address crop.
	svc := NewBillService(ws,
		&stubPDFProcessor{text: selangorEmbeddedText},
		&fakeRasterizer{raster: testRaster()},
		scriptedFactory("No. Akaun 812345678901", address),
	)

	record, err := svc.ExtractBill(context.Background(), writeTempPDF(t), "resit_jun.pdf")
	require.NoError(t, err)

	assert.Equal(t, "resit_jun.pdf", record.FileName)
	assert.Equal(t, "Selangor", record.Region)
	assert.Equal(t, "", record.TempohBil)
	assert.Equal(t, "", record.BilanganHari)
	assert.Equal(t, "0", record.Penggunaan)
	assert.Equal(t, "0.00", record.CajSemasa)
	assert.Equal(t, "0.00", record.Tunggakan)
	assert.Equal(t, "0.00", record.JumlahPerluDibayar)
	assert.Equal(t, "0.00", record.Deposit)

	// The standardized record is also persisted for audit.
	data, err := os.ReadFile(filepath.Join(ws.OutputDir, "resit_jun_Selangor.json"))
	require.NoError(t, err)
	var persisted dto.BillRecord
	require.NoError(t, json.Unmarshal(data, &persisted))
	assert.Equal(t, *record, persisted)
}

func TestExtractBillResolvesDualAccountLayout(t *testing.T) {
	ws := newTestWorkspace(t)

	svc := NewBillService(ws,
		&stubPDFProcessor{text: selangorEmbeddedText},
		&fakeRasterizer{raster: testRaster()},
		scriptedFactory("No. Akaun Baharu 8123456 No. Akaun Lama 7654321"),
	)

	record, err := svc.ExtractBill(context.Background(), writeTempPDF(t), "resit_jun.pdf")
	require.NoError(t, err)
	assert.Equal(t, "Selangor2", record.Region)

	// First sight of the variant seeds an empty template on disk.
	_, statErr := os.Stat(filepath.Join(ws.TemplatesDir, "Selangor2.json"))
	assert.NoError(t, statErr)
}

func TestExtractBillUnknownRegion(t *testing.T) {
	ws := newTestWorkspace(t)

	embedded := strings.Repeat("penyata bulanan tanpa sebarang penanda pengeluar yang dikenali ", 3)

	// The lone Recognize call is the Johor header-crop probe.
	svc := NewBillService(ws,
		&stubPDFProcessor{text: embedded},
		&fakeRasterizer{raster: testRaster()},
		scriptedFactory("tiada penanda"),
	)

	record, err := svc.ExtractBill(context.Background(), writeTempPDF(t), "resit_jun.pdf")
	assert.Nil(t, record)
	assert.True(t, errors.Is(err, dto.ErrUnknownRegion))
}

func TestExtractBillRasterizationFailure(t *testing.T) {
	ws := newTestWorkspace(t)

	rastErr := &dto.RasterizationError{Path: "resit_jun.pdf", Err: errors.New("pdftoppm not found")}
	svc := NewBillService(ws,
		&stubPDFProcessor{text: selangorEmbeddedText},
		&fakeRasterizer{err: rastErr},
		scriptedFactory(),
	)

	_, err := svc.ExtractBill(context.Background(), writeTempPDF(t), "resit_jun.pdf")
	var re *dto.RasterizationError
	assert.True(t, errors.As(err, &re))
}
