package vision

import (
	"image"
	"image/draw"

	"github.com/your-org/faceattr/internal/models"
)

// Padding fractions for the two call sites: attribute classification crops
// wider than annotation rectangles.
const (
	ClassifyPadding = 0.2
	AnnotatePadding = 0.1
)

// PaddedRect expands a detector box by fraction × box width on all four
// sides, then clamps the result to the image bounds. The returned rectangle
// is empty if the box does not overlap the image at all.
func PaddedRect(bounds image.Rectangle, box models.BoundingBox, fraction float64) image.Rectangle {
	pad := int(fraction * float64(box.Width()))

	r := image.Rect(box.Left-pad, box.Top-pad, box.Right+pad, box.Bottom+pad)
	return r.Intersect(bounds)
}

// cropRegion copies the given rectangle out of img into a fresh RGBA image.
func cropRegion(img image.Image, r image.Rectangle) *image.RGBA {
	crop := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(crop, crop.Bounds(), img, r.Min, draw.Src)
	return crop
}
