package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"modforge/pkg/compose"
)

const profiles = `
profiles:
  icons:
    size: 256
    filter: nearest
    assets: /assets
    output: /out
    defaults:
      tint: [255, 0, 0]
      emission_blend: over
    tasks:
      - name: plain
        base: base.png
        composite: plain.png
      - name: full
        base: base.png
        layer: color.png
        emission: glow.png
        dark: /abs/dark.png
        tint: [0, 128, 255]
        modulate: {hue: 90, brightness: 1.5}
        emission_blend: multiply
        composite: full.png
  legacy:
    size: 32
    mode: chroma-key
    threshold: 12
    tasks:
      - base: base.png
        composite: legacy.png
`

func load(t *testing.T, body string) *Config {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/render.yaml", []byte(body), 0644))
	cfg, err := Load(fs, "/render.yaml")
	require.NoError(t, err)
	return cfg
}

func TestProfileTasks(t *testing.T) {
	p, err := load(t, profiles).Profile("icons")
	require.NoError(t, err)

	tasks, err := p.Tasks("/mod/src")
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	plain := tasks[0]
	assert.Equal(t, "/assets/base.png", plain.Base)
	assert.Equal(t, "/out/plain.png", plain.Composite)
	assert.Equal(t, &compose.Color{R: 255}, plain.Tint)
	require.NotNil(t, plain.EmissionBlend)
	assert.Equal(t, compose.BlendOver, *plain.EmissionBlend)
	assert.Empty(t, plain.Layer)

	full := tasks[1]
	assert.Equal(t, "/assets/color.png", full.Layer)
	assert.Equal(t, "/abs/dark.png", full.Dark)
	assert.Equal(t, &compose.Color{G: 128, B: 255}, full.Tint)
	assert.Equal(t, &compose.Modulate{Hue: 90, Brightness: 1.5}, full.Modulate)
	assert.Equal(t, compose.BlendMultiply, *full.EmissionBlend)
}

func TestProfileOptions(t *testing.T) {
	cfg := load(t, profiles)

	p, err := cfg.Profile("legacy")
	require.NoError(t, err)

	opts, err := p.Options(zap.NewNop())
	require.NoError(t, err)

	c := compose.New(afero.NewMemMapFs(), opts...)
	w, h := c.Size()
	assert.Equal(t, 32, w)
	assert.Equal(t, 32, h)
	assert.Equal(t, compose.ModeChromaKey, c.Mode())

	_, err = cfg.Profile("missing")
	assert.Error(t, err)
}

func TestProfileErrors(t *testing.T) {
	bad := []string{
		"profiles: {x: {size: 0, tasks: []}}",
		"profiles: {x: {size: 8, filter: sinc}}",
		"profiles: {x: {size: 8, mode: sepia}}",
	}
	for _, body := range bad {
		p, err := load(t, body).Profile("x")
		require.NoError(t, err)
		_, err = p.Options(zap.NewNop())
		assert.Error(t, err, body)
	}

	p, err := load(t, "profiles: {x: {size: 8, tasks: [{base: a.png, composite: b.png, emission_blend: screen}]}}").Profile("x")
	require.NoError(t, err)
	_, err = p.Tasks("/mod/src")
	assert.ErrorIs(t, err, compose.ErrUnsupportedBlendMode)

	p, err = load(t, "profiles: {x: {size: 8, tasks: [{base: a.png}]}}").Profile("x")
	require.NoError(t, err)
	_, err = p.Tasks("/mod/src")
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg, err := Load(afero.NewMemMapFs(), "")
	require.NoError(t, err)

	for _, name := range []string{"icons", "legacy"} {
		p, err := cfg.Profile(name)
		require.NoError(t, err)

		_, err = p.Options(zap.NewNop())
		require.NoError(t, err)

		tasks, err := p.Tasks("/mod/src")
		require.NoError(t, err)
		assert.Len(t, tasks, 6)
	}
}

func TestDefaultOutputFollowsSourceDir(t *testing.T) {
	p, err := Default().Profile("icons")
	require.NoError(t, err)

	tasks, err := p.Tasks("mod/src")
	require.NoError(t, err)
	assert.Equal(t, "mod/src/graphics/icons/item-extractor.png", tasks[0].Composite)
	assert.Equal(t, "assets/icons/item/base.png", tasks[0].Base)

	p, err = load(t, "profiles: {x: {size: 8, tasks: [{base: a.png, composite: b.png}]}}").Profile("x")
	require.NoError(t, err)

	tasks, err = p.Tasks("/mod/src")
	require.NoError(t, err)
	assert.Equal(t, "/mod/src/b.png", tasks[0].Composite)
	assert.Equal(t, "a.png", tasks[0].Base)
}
