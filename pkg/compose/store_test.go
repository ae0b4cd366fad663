package compose

import (
	"image/color"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSavePNGLeavesNoTempFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := NewStore(fs)

	require.NoError(t, s.SavePNG("/out/deep/icon.png", uniform(color.NRGBA{R: 1, A: 255})))
	require.NoError(t, s.SavePNG("/out/deep/icon.png", uniform(color.NRGBA{R: 2, A: 255})))

	entries, err := afero.ReadDir(fs, "/out/deep")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "icon.png", entries[0].Name())

	img, err := s.Load("/out/deep/icon.png")
	require.NoError(t, err)
	r, _, _, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0x0202), r)
}

func TestStoreLoadMissing(t *testing.T) {
	_, err := NewStore(afero.NewMemMapFs()).Load("/nope.png")
	assert.ErrorIs(t, err, ErrMissingAsset)
}
