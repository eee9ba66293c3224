package vision

import (
	"image"
	"image/color"
	"testing"

	"github.com/your-org/faceattr/internal/models"
)

func TestAnnotate_NoBoxesReturnsOriginal(t *testing.T) {
	img := uniformImage(100, 100, color.RGBA{A: 255})

	got := Annotate(img, nil)
	if got != image.Image(img) {
		t.Fatal("expected the original image back")
	}
}

func TestAnnotate_DoesNotMutateOriginal(t *testing.T) {
	black := color.RGBA{A: 255}
	img := uniformImage(200, 200, black)
	boxes := []models.BoundingBox{{Left: 50, Top: 50, Right: 150, Bottom: 150}}

	out := Annotate(img, boxes)
	if out == image.Image(img) {
		t.Fatal("expected a copy, got the original")
	}
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			if img.RGBAAt(x, y) != black {
				t.Fatalf("original mutated at (%d,%d)", x, y)
			}
		}
	}
}

func TestAnnotate_DrawsStrokeOnPaddedRect(t *testing.T) {
	img := uniformImage(400, 400, color.RGBA{A: 255})
	boxes := []models.BoundingBox{{Left: 100, Top: 100, Right: 200, Bottom: 200}}

	out := Annotate(img, boxes).(*image.RGBA)

	// 0.1 padding on a width-100 box puts the rect at (90,90)-(210,210).
	if got := out.RGBAAt(90, 150); got != annotationColor {
		t.Fatalf("left edge not stroked: %v", got)
	}
	if got := out.RGBAAt(150, 90); got != annotationColor {
		t.Fatalf("top edge not stroked: %v", got)
	}
	if got := out.RGBAAt(209, 150); got != annotationColor {
		t.Fatalf("right edge not stroked: %v", got)
	}
	if got := out.RGBAAt(150, 150); got == annotationColor {
		t.Fatal("interior should not be filled")
	}
}

func TestStrokeWidth(t *testing.T) {
	if got := strokeWidth(100, 100); got != 2 {
		t.Fatalf("small image: got %d, want 2", got)
	}
	if got := strokeWidth(1000, 2000); got != 5 {
		t.Fatalf("large image: got %d, want 5", got)
	}
	if got := strokeWidth(1920, 1080); got != 5 {
		t.Fatalf("hd image: got %d, want 5", got)
	}
}

func TestShiftBox(t *testing.T) {
	b := models.BoundingBox{Left: 110, Top: 120, Right: 210, Bottom: 220}
	got := shiftBox(b, image.Pt(100, 100))
	want := models.BoundingBox{Left: 10, Top: 20, Right: 110, Bottom: 120}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}
