package compose

import (
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const size = 8

func uniform(c color.NRGBA) *image.NRGBA {
	return imaging.New(size, size, c)
}

func writePNG(t *testing.T, fs afero.Fs, path string, img image.Image) {
	t.Helper()
	require.NoError(t, NewStore(fs).SavePNG(path, img))
}

func readPNG(t *testing.T, fs afero.Fs, path string) *image.NRGBA {
	t.Helper()
	img, err := NewStore(fs).Load(path)
	require.NoError(t, err)
	return imaging.Clone(img)
}

func newTestCompositor(fs afero.Fs, opts ...Option) *Compositor {
	return New(fs, append([]Option{WithSize(size, size), WithFilter(imaging.NearestNeighbor)}, opts...)...)
}

func center(img *image.NRGBA) color.NRGBA {
	return img.NRGBAAt(size/2, size/2)
}
