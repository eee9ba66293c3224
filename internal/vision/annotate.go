package vision

import (
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/your-org/faceattr/internal/models"
)

var annotationColor = color.RGBA{R: 46, G: 204, B: 64, A: 255}

// Annotate draws a padded rectangle and a 1-based index label for each face
// box onto a copy of img. The caller's image is never mutated. Zero boxes
// return the original image unchanged.
func Annotate(img image.Image, boxes []models.BoundingBox) image.Image {
	if len(boxes) == 0 {
		return img
	}

	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)

	stroke := strokeWidth(bounds.Dx(), bounds.Dy())

	for i, box := range boxes {
		r := PaddedRect(dst.Bounds(), shiftBox(box, bounds.Min), AnnotatePadding)
		if r.Empty() {
			continue
		}
		drawRect(dst, r, stroke)
		drawLabel(dst, strconv.Itoa(i+1), r.Min.X, r.Min.Y-stroke-2)
	}

	return dst
}

// strokeWidth scales the rectangle stroke with image size, with a floor of
// two pixels.
func strokeWidth(w, h int) int {
	min := w
	if h < min {
		min = h
	}
	s := int(0.005 * float64(min))
	if s < 2 {
		return 2
	}
	return s
}

// shiftBox translates a box into the destination's zero-origin coordinate
// space when the source image has a non-zero bounds origin.
func shiftBox(b models.BoundingBox, origin image.Point) models.BoundingBox {
	return models.BoundingBox{
		Left:   b.Left - origin.X,
		Top:    b.Top - origin.Y,
		Right:  b.Right - origin.X,
		Bottom: b.Bottom - origin.Y,
	}
}

// drawRect strokes the rectangle outline with the given width, drawing the
// four edge bars inward from the rectangle border.
func drawRect(dst *image.RGBA, r image.Rectangle, stroke int) {
	src := image.NewUniform(annotationColor)

	top := image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+stroke).Intersect(dst.Bounds())
	bottom := image.Rect(r.Min.X, r.Max.Y-stroke, r.Max.X, r.Max.Y).Intersect(dst.Bounds())
	left := image.Rect(r.Min.X, r.Min.Y, r.Min.X+stroke, r.Max.Y).Intersect(dst.Bounds())
	right := image.Rect(r.Max.X-stroke, r.Min.Y, r.Max.X, r.Max.Y).Intersect(dst.Bounds())

	for _, edge := range []image.Rectangle{top, bottom, left, right} {
		draw.Draw(dst, edge, src, image.Point{}, draw.Src)
	}
}

// drawLabel renders text with its baseline at (x, y), keeping it inside the
// image top edge.
func drawLabel(dst *image.RGBA, text string, x, y int) {
	face := basicfont.Face7x13
	if y < face.Ascent {
		y = face.Ascent
	}
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(annotationColor),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
