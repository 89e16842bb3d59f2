package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/amirulafiq/water-bill-extraction/client"
	"github.com/amirulafiq/water-bill-extraction/dto"
	"github.com/amirulafiq/water-bill-extraction/utils"
)

// BillService runs the full extraction pipeline for one document:
// rasterize, classify, resolve layout, extract templated fields,
// normalize per region, standardize. Stateless across documents, so
// independent instances (or calls) may run concurrently.
type BillService struct {
	ws         *Workspace
	rasterizer Rasterizer
	engines    client.EngineFactory
	detector   *RegionDetector
	templates  *TemplateRegistry
	extractor  *TemplateExtractor
}

func NewBillService(ws *Workspace, pdf PDFProcessor, rasterizer Rasterizer, engines client.EngineFactory) *BillService {
	return &BillService{
		ws:         ws,
		rasterizer: rasterizer,
		engines:    engines,
		detector:   NewRegionDetector(pdf, engines, ws),
		templates:  NewTemplateRegistry(ws.TemplatesDir),
		extractor:  NewTemplateExtractor(ws, engines),
	}
}

// ExtractBill processes a single uploaded bill and returns the
// standardized record. Only rasterization failure and an unknown region
// abort; every per-field problem degrades to a documented default so a
// partially legible bill still yields a best-effort record.
func (s *BillService) ExtractBill(ctx context.Context, pdfPath, originalName string) (*dto.BillRecord, error) {
	fileName := originalName
	if fileName == "" {
		fileName = filepath.Base(pdfPath)
	}
	baseName := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	jobID := uuid.NewString()

	log.Printf("[%s] Processing %s", jobID, fileName)

	pdfData, err := os.ReadFile(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	raster, err := s.rasterizer.Rasterize(ctx, pdfPath, baseName)
	if err != nil {
		return nil, err
	}

	region, err := s.detector.Detect(ctx, pdfData, raster, baseName)
	if err != nil {
		return nil, err
	}
	if region == dto.RegionUnknown {
		log.Printf("[%s] Unknown region, skipping %s", jobID, fileName)
		return nil, dto.ErrUnknownRegion
	}

	region = resolveLayout(region, raster, s.engines, filepath.Join(s.ws.DebugDir, baseName+"_layout.png"))
	log.Printf("[%s] Region resolved: %s", jobID, region)

	tpl, err := s.templates.Load(region)
	if err != nil {
		return nil, fmt.Errorf("failed to load template for %s: %w", region, err)
	}

	res, err := s.extractor.Extract(ctx, raster, tpl, fileName, region, jobID)
	if err != nil {
		return nil, err
	}

	fields := utils.ParserFor(region).Parse(res)
	for _, key := range []string{"No. Bil", "No. Akaun"} {
		if v, ok := fields[key]; ok && v != "" {
			fields[key] = utils.CleanIdentifier(v)
		}
	}

	record := utils.Standardize(fields)

	if err := s.writeRecord(&record, baseName, region); err != nil {
		log.Printf("[%s] Failed to persist record: %v", jobID, err)
	}

	log.Printf("[%s] Extraction complete for %s", jobID, fileName)
	return &record, nil
}

func (s *BillService) writeRecord(record *dto.BillRecord, baseName string, region dto.Region) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	outPath := filepath.Join(s.ws.OutputDir, fmt.Sprintf("%s_%s.json", baseName, region))
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return err
	}
	log.Printf("Standardized JSON saved to %s", outPath)
	return nil
}
