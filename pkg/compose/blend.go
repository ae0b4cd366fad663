package compose

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
)

// BlendMode selects how a layer is stacked onto the accumulator.
type BlendMode int

const (
	BlendOver BlendMode = iota
	BlendAdd
	BlendMultiply
)

var blendNames = map[BlendMode]string{
	BlendOver:     "over",
	BlendAdd:      "add",
	BlendMultiply: "multiply",
}

// BlendFunc combines one source pixel onto one destination pixel. Both are
// straight (non-premultiplied) alpha.
type BlendFunc func(dst, src color.NRGBA) color.NRGBA

var blendFuncs = map[BlendMode]BlendFunc{
	BlendOver:     Over,
	BlendAdd:      Add,
	BlendMultiply: Multiply,
}

func ParseBlendMode(s string) (BlendMode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for mode, n := range blendNames {
		if n == name {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedBlendMode, s)
}

func (m BlendMode) String() string {
	if n, ok := blendNames[m]; ok {
		return n
	}
	return fmt.Sprintf("BlendMode(%d)", int(m))
}

func (m BlendMode) valid() bool {
	_, ok := blendFuncs[m]
	return ok
}

func (m BlendMode) Func() (BlendFunc, error) {
	fn, ok := blendFuncs[m]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedBlendMode, m)
	}
	return fn, nil
}

// Blend stacks src onto dst with mode and returns a new image. dst and src
// must have the same bounds.
func Blend(dst, src *image.NRGBA, mode BlendMode) (*image.NRGBA, error) {
	fn, err := mode.Func()
	if err != nil {
		return nil, err
	}

	b := dst.Bounds()
	if !b.Eq(src.Bounds()) {
		return nil, fmt.Errorf("blend %s: bounds mismatch %v != %v", mode, b, src.Bounds())
	}

	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.SetNRGBA(x, y, fn(dst.NRGBAAt(x, y), src.NRGBAAt(x, y)))
		}
	}

	return out, nil
}

// Over is standard source-over alpha compositing.
func Over(dst, src color.NRGBA) color.NRGBA {
	sa, da := unit(src.A), unit(dst.A)
	oa := sa + da*(1-sa)
	if oa == 0 {
		return color.NRGBA{}
	}

	ch := func(s, d uint8) uint8 {
		return toByte((unit(s)*sa + unit(d)*da*(1-sa)) / oa)
	}

	return color.NRGBA{
		R: ch(src.R, dst.R),
		G: ch(src.G, dst.G),
		B: ch(src.B, dst.B),
		A: toByte(oa),
	}
}

// Add sums premultiplied colour and alpha, clamped to full intensity.
func Add(dst, src color.NRGBA) color.NRGBA {
	sa, da := unit(src.A), unit(dst.A)
	oa := math.Min(1, sa+da)
	if oa == 0 {
		return color.NRGBA{}
	}

	ch := func(s, d uint8) uint8 {
		return toByte(math.Min(1, unit(s)*sa+unit(d)*da) / oa)
	}

	return color.NRGBA{
		R: ch(src.R, dst.R),
		G: ch(src.G, dst.G),
		B: ch(src.B, dst.B),
		A: toByte(oa),
	}
}

// Multiply takes the per-channel product where both layers cover, and keeps
// whichever layer is present elsewhere.
func Multiply(dst, src color.NRGBA) color.NRGBA {
	sa, da := unit(src.A), unit(dst.A)
	oa := sa + da - sa*da
	if oa == 0 {
		return color.NRGBA{}
	}

	ch := func(s, d uint8) uint8 {
		ps, pd := unit(s)*sa, unit(d)*da
		return toByte((ps*pd + ps*(1-da) + pd*(1-sa)) / oa)
	}

	return color.NRGBA{
		R: ch(src.R, dst.R),
		G: ch(src.G, dst.G),
		B: ch(src.B, dst.B),
		A: toByte(oa),
	}
}

func unit(v uint8) float64 {
	return float64(v) / 255
}

func toByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}
