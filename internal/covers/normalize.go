// file: internal/covers/normalize.go
// version: 1.2.0
// guid: 9a0b1c2d-3e4f-5a6b-7c8d-9e0f1a2b3c4d

// Package covers normalizes embedded cover art into a uniform JPEG
// representation suitable for storage and the web UI.
package covers

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"math"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Target bounding box for stored covers. Every image is scaled so one
// dimension lands exactly on the box while keeping its aspect ratio.
const (
	MaxWidth  = 300
	MaxHeight = 450
)

const jpegQuality = 85

// ImageProcessingError indicates the cover bytes could not be decoded or
// re-encoded. Ingestion treats it as non-fatal and falls back to storing
// the original bytes.
type ImageProcessingError struct {
	Cause error
}

func (e *ImageProcessingError) Error() string {
	return fmt.Sprintf("cover image processing failed: %v", e.Cause)
}

func (e *ImageProcessingError) Unwrap() error { return e.Cause }

// Normalize decodes raw cover bytes (JPEG, PNG, GIF, or WebP), scales the
// image to the MaxWidth x MaxHeight box, and re-encodes it as JPEG.
// Smaller images are scaled up so covers come out at a uniform size.
func Normalize(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &ImageProcessingError{Cause: fmt.Errorf("decode: %w", err)}
	}

	bounds := src.Bounds()
	width, height := fitWithin(bounds.Dx(), bounds.Dy(), MaxWidth, MaxHeight)
	if width != bounds.Dx() || height != bounds.Dy() {
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, &ImageProcessingError{Cause: fmt.Errorf("encode: %w", err)}
	}
	return buf.Bytes(), nil
}

// fitWithin scales (w, h) proportionally so the result touches the
// (maxW, maxH) box: the binding dimension lands exactly on the box and
// the other is rounded from the source aspect ratio.
func fitWithin(w, h, maxW, maxH int) (int, int) {
	aspect := float64(w) / float64(h)
	if aspect > float64(maxW)/float64(maxH) {
		h = int(math.Round(float64(maxW) / aspect))
		w = maxW
	} else {
		w = int(math.Round(float64(maxH) * aspect))
		h = maxH
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}
