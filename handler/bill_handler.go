package handler

import (
	"context"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/amirulafiq/water-bill-extraction/dto"
)

// BillExtractor is the pipeline entry point the handler drives.
type BillExtractor interface {
	ExtractBill(ctx context.Context, pdfPath, originalName string) (*dto.BillRecord, error)
}

type BillHandler struct {
	bills BillExtractor
}

func NewBillHandler(bills BillExtractor) *BillHandler {
	return &BillHandler{bills: bills}
}

// ExtractBill handles POST /bills/extract: save the uploaded PDF to a
// temp file, run the pipeline, always delete the temp file, and return
// the standardized record.
func (h *BillHandler) ExtractBill(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "No file uploaded"})
		return
	}

	log.Printf("Received file: %s (%d bytes)", fileHeader.Filename, fileHeader.Size)

	tempPath, err := saveTempUpload(fileHeader)
	if err != nil {
		log.Printf("Failed to save upload %s: %v", fileHeader.Filename, err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to save uploaded file"})
		return
	}
	defer os.Remove(tempPath)

	record, err := h.bills.ExtractBill(c.Request.Context(), tempPath, fileHeader.Filename)
	if err != nil {
		h.sendError(c, err)
		return
	}
	if record == nil {
		h.sendError(c, dto.ErrNoOutput)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *BillHandler) sendError(c *gin.Context, err error) {
	log.Printf("Extraction error: %v", err)

	if errors.Is(err, dto.ErrUnknownRegion) {
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: dto.ErrUnknownRegion.Error()})
		return
	}

	var rerr *dto.RasterizationError
	if errors.As(err, &rerr) {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to rasterize document"})
		return
	}

	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
}

// saveTempUpload copies the uploaded file to a temp path the pipeline
// and external collaborators (pdftoppm) can read.
func saveTempUpload(fileHeader *multipart.FileHeader) (string, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	ext := filepath.Ext(fileHeader.Filename)
	tempFile, err := os.CreateTemp("", "bill-*"+ext)
	if err != nil {
		return "", err
	}
	defer tempFile.Close()

	if _, err := io.Copy(tempFile, src); err != nil {
		os.Remove(tempFile.Name())
		return "", err
	}
	return tempFile.Name(), nil
}
