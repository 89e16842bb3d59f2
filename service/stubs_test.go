package service

import (
	"context"
	"image"

	"github.com/amirulafiq/water-bill-extraction/client"
	"github.com/amirulafiq/water-bill-extraction/dto"
)

// scriptedFactory returns engines that replay the given texts in order
// across acquisitions, one text per Recognize call. The last text
// repeats once the script runs out.
func scriptedFactory(texts ...string) client.EngineFactory {
	idx := 0
	return func() (client.OCREngine, error) {
		return &scriptedEngine{texts: texts, idx: &idx}, nil
	}
}

type scriptedEngine struct {
	texts []string
	idx   *int
}

func (e *scriptedEngine) Recognize(img image.Image) (string, error) {
	if len(e.texts) == 0 {
		return "", nil
	}
	i := *e.idx
	if i >= len(e.texts) {
		i = len(e.texts) - 1
	} else {
		*e.idx++
	}
	return e.texts[i], nil
}

func (e *scriptedEngine) Close() error { return nil }

func testRaster() *Raster {
	img := image.NewRGBA(image.Rect(0, 0, dto.DesignWidth, dto.DesignHeight))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return &Raster{Image: img}
}

type fakeRasterizer struct {
	raster *Raster
	err    error
}

func (f *fakeRasterizer) Rasterize(ctx context.Context, pdfPath, baseName string) (*Raster, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.raster, nil
}

type stubPDFProcessor struct {
	text string
	err  error
}

func (s *stubPDFProcessor) ExtractText(pdfData []byte) (string, error) {
	return s.text, s.err
}
