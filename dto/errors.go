package dto

import (
	"errors"
	"fmt"
)

// Custom errors
var (
	// ErrUnknownRegion means no issuer matched after all three
	// classification tiers. Terminal for the document, not retried.
	ErrUnknownRegion = errors.New("Unknown region")

	// ErrNoOutput means the pipeline finished without producing a record.
	ErrNoOutput = errors.New("No output generated")
)

// RasterizationError means the PDF renderer produced no usable page
// image. Without a raster no OCR fallback is possible, so callers must
// treat this as terminal for the document.
type RasterizationError struct {
	Path string
	Err  error
}

func (e *RasterizationError) Error() string {
	return fmt.Sprintf("rasterization failed for %s: %v", e.Path, e.Err)
}

func (e *RasterizationError) Unwrap() error { return e.Err }
