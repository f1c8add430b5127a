package qa

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

// DimensionResult is the outcome of a pixel dimension check.
type DimensionResult int

const (
	// DimensionUnsupported means the file could not be inspected.
	DimensionUnsupported DimensionResult = iota
	DimensionMatch
	DimensionMismatch
)

func (r DimensionResult) String() string {
	switch r {
	case DimensionMatch:
		return "match"
	case DimensionMismatch:
		return "mismatch"
	default:
		return "unsupported"
	}
}

// ImageInspector checks whether an image has the expected square edge length.
type ImageInspector interface {
	CheckDimensions(path string, size int) (DimensionResult, image.Point, error)
}

// DecodeInspector reads the image header with the registered image decoders.
type DecodeInspector struct{}

// CheckDimensions decodes only the image header. Any read or decode failure
// reports DimensionUnsupported together with the cause.
func (DecodeInspector) CheckDimensions(path string, size int) (DimensionResult, image.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return DimensionUnsupported, image.Point{}, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return DimensionUnsupported, image.Point{}, fmt.Errorf("unsupported image format: %w", err)
		}
		return DimensionUnsupported, image.Point{}, err
	}

	got := image.Pt(cfg.Width, cfg.Height)
	if cfg.Width == size && cfg.Height == size {
		return DimensionMatch, got, nil
	}
	return DimensionMismatch, got, nil
}

// NoInspector never inspects images.
type NoInspector struct{}

func (NoInspector) CheckDimensions(string, int) (DimensionResult, image.Point, error) {
	return DimensionUnsupported, image.Point{}, nil
}
