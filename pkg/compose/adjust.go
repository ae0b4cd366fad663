package compose

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// Tint multiplies every colour channel by the matching tint channel. Alpha is
// kept as is.
func Tint(img image.Image, tint Color) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: scale(c.R, tint.R),
			G: scale(c.G, tint.G),
			B: scale(c.B, tint.B),
			A: c.A,
		}
	})
}

// Modulated rotates hue in HSL space and then scales brightness.
func Modulated(img image.Image, m Modulate) *image.NRGBA {
	if m.identity() {
		return imaging.Clone(img)
	}

	brightness := m.Brightness
	if brightness == 0 {
		brightness = 1
	}

	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		col := colorful.Color{R: unit(c.R), G: unit(c.G), B: unit(c.B)}
		if m.Hue != 0 {
			h, s, l := col.Hsl()
			col = colorful.Hsl(rotate(h, m.Hue), s, l).Clamped()
		}

		return color.NRGBA{
			R: toByte(col.R * brightness),
			G: toByte(col.G * brightness),
			B: toByte(col.B * brightness),
			A: c.A,
		}
	})
}

func adjust(img *image.NRGBA, tint *Color, m *Modulate) *image.NRGBA {
	out := img
	if tint != nil {
		out = Tint(out, *tint)
	}
	if !m.identity() {
		out = Modulated(out, *m)
	}
	return out
}

func scale(v, by uint8) uint8 {
	return uint8((uint32(v)*uint32(by) + 127) / 255)
}

func rotate(h, deg float64) float64 {
	h = math.Mod(h+deg, 360)
	if h < 0 {
		h += 360
	}
	return h
}
