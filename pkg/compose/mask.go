package compose

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// RedMask extracts the red channel of img as an 8-bit mask.
func RedMask(img *image.NRGBA) *image.Alpha {
	b := img.Bounds()
	mask := image.NewAlpha(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			mask.SetAlpha(x, y, color.Alpha{A: img.NRGBAAt(x, y).R})
		}
	}
	return mask
}

// WithAlpha returns a copy of img whose alpha channel is replaced by mask.
func WithAlpha(img *image.NRGBA, mask *image.Alpha) *image.NRGBA {
	out := imaging.Clone(img)
	b := out.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := out.NRGBAAt(x, y)
			c.A = mask.AlphaAt(x, y).A
			out.SetNRGBA(x, y, c)
		}
	}
	return out
}

// ChromaKey makes every pixel whose red, green and blue are all at or below
// threshold fully transparent. Other pixels keep their alpha.
func ChromaKey(img *image.NRGBA, threshold uint8) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		if c.R <= threshold && c.G <= threshold && c.B <= threshold {
			c.A = 0
		}
		return c
	})
}
