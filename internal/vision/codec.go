package vision

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// TensorConfig describes the numeric input layout a classifier requires.
// RGB tensors are interleaved HWC with one float per channel divided by 255;
// grayscale tensors carry one luma float per pixel divided by 255.
type TensorConfig struct {
	Width     int
	Height    int
	Grayscale bool
}

// Len returns the flat tensor length this configuration produces.
func (c TensorConfig) Len() int {
	if c.Grayscale {
		return c.Width * c.Height
	}
	return 3 * c.Width * c.Height
}

// Luma weights for ITU-R BT.601 grayscale conversion. The emotion model was
// trained on luma images, so a plain channel average would skew its input.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// EncodeTensor converts an image region into the flat float32 buffer the
// given configuration describes. The region is stretched to the exact target
// size (no letterboxing) with bilinear interpolation.
func EncodeTensor(img image.Image, cfg TensorConfig) []float32 {
	resized := resizeBilinear(img, cfg.Width, cfg.Height)

	data := make([]float32, 0, cfg.Len())
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			c := resized.RGBAAt(x, y)
			r := float32(c.R)
			g := float32(c.G)
			b := float32(c.B)

			if cfg.Grayscale {
				data = append(data, (lumaR*r+lumaG*g+lumaB*b)/255.0)
			} else {
				data = append(data, r/255.0, g/255.0, b/255.0)
			}
		}
	}
	return data
}

// resizeBilinear stretches img to exactly w×h, distorting aspect ratio if
// needed.
func resizeBilinear(img image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}
