package client

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
)

// OCREngine recognizes text in a raster image region. Implementations
// own a warm engine instance; Close releases it.
type OCREngine interface {
	Recognize(img image.Image) (string, error)
	Close() error
}

// EngineFactory acquires a fresh OCR engine. Each pipeline phase
// (classification, layout resolution, field extraction) acquires its own
// engine and must release it with Close, so engine lifetime is scoped to
// the phase regardless of exit path.
type EngineFactory func() (OCREngine, error)

// TesseractEngine wraps a gosseract client configured for one language.
type TesseractEngine struct {
	client *gosseract.Client
}

// NewTesseractEngine creates a warmed-up Tesseract engine.
func NewTesseractEngine(tessdataPrefix, language string) (*TesseractEngine, error) {
	c := gosseract.NewClient()

	if tessdataPrefix != "" {
		c.SetTessdataPrefix(tessdataPrefix)
	}
	if err := c.SetLanguage(language); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to set language: %w", err)
	}

	return &TesseractEngine{client: c}, nil
}

// TesseractFactory returns an EngineFactory bound to the given tessdata
// prefix and language.
func TesseractFactory(tessdataPrefix, language string) EngineFactory {
	return func() (OCREngine, error) {
		return NewTesseractEngine(tessdataPrefix, language)
	}
}

// Recognize runs OCR over the given image and returns the raw text.
func (e *TesseractEngine) Recognize(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	if err := e.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("failed to extract text: %w", err)
	}
	return text, nil
}

// Close releases the underlying Tesseract instance.
func (e *TesseractEngine) Close() error {
	return e.client.Close()
}
