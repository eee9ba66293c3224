package vision

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func uniformImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestEncodeTensor_RGBBlackIsAllZeros(t *testing.T) {
	cfg := TensorConfig{Width: 224, Height: 224}
	img := uniformImage(224, 224, color.RGBA{A: 255})

	data := EncodeTensor(img, cfg)
	if len(data) != 3*224*224 {
		t.Fatalf("expected %d values, got %d", 3*224*224, len(data))
	}
	for i, v := range data {
		if v != 0 {
			t.Fatalf("expected 0 at %d, got %f", i, v)
		}
	}
}

func TestEncodeTensor_RGBWhiteIsAllOnes(t *testing.T) {
	cfg := TensorConfig{Width: 32, Height: 32}
	img := uniformImage(32, 32, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	data := EncodeTensor(img, cfg)
	if len(data) != cfg.Len() {
		t.Fatalf("expected %d values, got %d", cfg.Len(), len(data))
	}
	for i, v := range data {
		if v != 1 {
			t.Fatalf("expected 1 at %d, got %f", i, v)
		}
	}
}

func TestEncodeTensor_GrayscaleLumaRed(t *testing.T) {
	cfg := TensorConfig{Width: 8, Height: 8, Grayscale: true}
	img := uniformImage(8, 8, color.RGBA{R: 255, A: 255})

	data := EncodeTensor(img, cfg)
	if len(data) != 64 {
		t.Fatalf("expected 64 values, got %d", len(data))
	}
	for i, v := range data {
		if math.Abs(float64(v)-0.299) > 1e-3 {
			t.Fatalf("expected ~0.299 at %d, got %f", i, v)
		}
	}
}

func TestEncodeTensor_GrayscaleLumaWhite(t *testing.T) {
	cfg := TensorConfig{Width: 48, Height: 48, Grayscale: true}
	img := uniformImage(48, 48, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	data := EncodeTensor(img, cfg)
	if len(data) != 2304 {
		t.Fatalf("expected 2304 values, got %d", len(data))
	}
	for i, v := range data {
		if math.Abs(float64(v)-1.0) > 1e-3 {
			t.Fatalf("expected ~1.0 at %d, got %f", i, v)
		}
	}
}

func TestEncodeTensor_StretchesToTargetSize(t *testing.T) {
	// A non-square source must be stretched, not letterboxed: every output
	// pixel of a uniform source keeps the source color.
	cfg := TensorConfig{Width: 10, Height: 10}
	img := uniformImage(40, 7, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	data := EncodeTensor(img, cfg)
	if len(data) != 300 {
		t.Fatalf("expected 300 values, got %d", len(data))
	}
	for i, v := range data {
		if math.Abs(float64(v)-1.0) > 1e-3 {
			t.Fatalf("expected ~1.0 at %d, got %f", i, v)
		}
	}
}

func TestTensorConfigLen(t *testing.T) {
	rgb := TensorConfig{Width: 224, Height: 224}
	if rgb.Len() != 150528 {
		t.Fatalf("rgb len: got %d", rgb.Len())
	}
	gray := TensorConfig{Width: 48, Height: 48, Grayscale: true}
	if gray.Len() != 2304 {
		t.Fatalf("gray len: got %d", gray.Len())
	}
}
