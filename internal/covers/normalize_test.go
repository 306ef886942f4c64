// file: internal/covers/normalize_test.go
// version: 1.1.0
// guid: 0b1c2d3e-4f5a-6b7c-8d9e-0f1a2b3c4d5e

package covers

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encodePNG: %v", err)
	}
	return buf.Bytes()
}

func decodeDims(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a valid JPEG: %v", err)
	}
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func TestNormalizeScalesOversizedImage(t *testing.T) {
	out, err := Normalize(encodePNG(t, 600, 900))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	w, h := decodeDims(t, out)
	if w != 300 || h != 450 {
		t.Errorf("dimensions = %dx%d, want 300x450", w, h)
	}
}

func TestNormalizePreservesAspectRatio(t *testing.T) {
	// Wide landscape image: width is the binding dimension.
	out, err := Normalize(encodePNG(t, 1200, 400))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	w, h := decodeDims(t, out)
	if w != 300 || h != 100 {
		t.Errorf("dimensions = %dx%d, want 300x100", w, h)
	}

	// Tall portrait image: height is the binding dimension.
	out, err = Normalize(encodePNG(t, 500, 2250))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	w, h = decodeDims(t, out)
	if w != 100 || h != 450 {
		t.Errorf("dimensions = %dx%d, want 100x450", w, h)
	}
}

func TestNormalizeScalesUpSmallImage(t *testing.T) {
	out, err := Normalize(encodePNG(t, 200, 320))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	w, h := decodeDims(t, out)
	if w != 281 || h != 450 {
		t.Errorf("dimensions = %dx%d, want 281x450", w, h)
	}
}

func TestNormalizeAlwaysTouchesBoundingBox(t *testing.T) {
	for _, dims := range [][2]int{{100, 100}, {50, 400}, {640, 480}, {2000, 3000}} {
		out, err := Normalize(encodePNG(t, dims[0], dims[1]))
		if err != nil {
			t.Fatalf("Normalize(%dx%d) failed: %v", dims[0], dims[1], err)
		}
		w, h := decodeDims(t, out)
		if w > MaxWidth || h > MaxHeight {
			t.Errorf("Normalize(%dx%d) = %dx%d, exceeds %dx%d", dims[0], dims[1], w, h, MaxWidth, MaxHeight)
		}
		if w != MaxWidth && h != MaxHeight {
			t.Errorf("Normalize(%dx%d) = %dx%d, neither dimension reaches the box", dims[0], dims[1], w, h)
		}
	}
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	_, err := Normalize([]byte("not an image at all"))
	if err == nil {
		t.Fatal("expected an error")
	}
	var procErr *ImageProcessingError
	if !errors.As(err, &procErr) {
		t.Errorf("expected *ImageProcessingError, got %T: %v", err, err)
	}
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		w, h         int
		wantW, wantH int
	}{
		{300, 450, 300, 450},
		{1, 1, 300, 300},
		{100, 100, 300, 300},
		{600, 900, 300, 450},
		{200, 320, 281, 450},
		{3000, 450, 300, 45},
		{10000, 2, 300, 1},
	}
	for _, tt := range tests {
		gotW, gotH := fitWithin(tt.w, tt.h, MaxWidth, MaxHeight)
		if gotW != tt.wantW || gotH != tt.wantH {
			t.Errorf("fitWithin(%d, %d) = (%d, %d), want (%d, %d)",
				tt.w, tt.h, gotW, gotH, tt.wantW, tt.wantH)
		}
	}
}
