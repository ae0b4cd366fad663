package main

import (
	"archive/zip"
	"bytes"
	"context"
	"image/color"
	"io"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"modforge/pkg/compose"
	"modforge/pkg/locate"
	"modforge/pkg/pack"
)

const info = `{
	"name": "subspace_storage",
	"version": "1.0.0",
	"variants": [{"version": "1.0.0", "factorio_version": "1.1"}]
}`

const profiles = `
profiles:
  icons:
    size: 8
    filter: nearest
    assets: /assets
    output: graphics/icons
    tasks:
      - name: item
        base: base.png
        composite: item.png
`

func newDeps(t *testing.T, s *settings) (deps, afero.Fs) {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/mod/src/info.json", []byte(info), 0644))
	require.NoError(t, afero.WriteFile(fs, "/cfg/render.yaml", []byte(profiles), 0644))
	require.NoError(t, compose.NewStore(fs).SavePNG("/assets/base.png", imaging.New(8, 8, color.NRGBA{R: 9, A: 255})))

	logger := zap.NewNop()
	return deps{
		Fs:       fs,
		Logger:   logger,
		Settings: s,
		Packer:   pack.New(fs, logger, pack.WithSourceDir("/mod/src"), pack.WithOutputDir("/mod/dist"), pack.WithProgress(io.Discard)),
		Locator:  locate.New(fs, logger),
	}, fs
}

func zipNames(t *testing.T, fs afero.Fs, path string) []string {
	t.Helper()

	bs, err := afero.ReadFile(fs, path)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(bs), int64(len(bs)))
	require.NoError(t, err)

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names
}

func TestRunRendersIntoSourceDirBeforePacking(t *testing.T) {
	d, fs := newDeps(t, &settings{
		Build:     true,
		Pack:      true,
		Render:    true,
		TasksFile: "/cfg/render.yaml",
		Profile:   "icons",
	})

	require.NoError(t, run(context.Background(), d))

	exists, err := afero.Exists(fs, "/mod/src/graphics/icons/item.png")
	require.NoError(t, err)
	assert.True(t, exists)

	assert.ElementsMatch(t, []string{
		"subspace_storage_1.0.0/info.json",
		"subspace_storage_1.0.0/graphics/icons/item.png",
	}, zipNames(t, fs, "/mod/dist/subspace_storage_1.0.0.zip"))
}

func TestRunPlainBuildIgnoresRenderProfile(t *testing.T) {
	d, fs := newDeps(t, &settings{
		Build:     true,
		Pack:      true,
		TasksFile: "/cfg/missing.yaml",
		Profile:   "nope",
	})

	require.NoError(t, run(context.Background(), d))

	exists, err := afero.Exists(fs, "/mod/dist/subspace_storage_1.0.0.zip")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRunInstallsCompatibleLibraries(t *testing.T) {
	d, fs := newDeps(t, &settings{
		Build:       true,
		Pack:        true,
		ModsDir:     "/game/mods",
		LibsDir:     "/libs",
		LibName:     "clusterio_lib",
		GameVersion: "1.1.110",
	})
	for _, name := range []string{"/libs/clusterio_lib_2.0.11.zip", "/libs/clusterio_lib_2.0.20.zip"} {
		require.NoError(t, afero.WriteFile(fs, name, []byte("lib"), 0644))
	}

	require.NoError(t, run(context.Background(), d))

	entries, err := afero.ReadDir(fs, "/game/mods")
	require.NoError(t, err)

	var installed []string
	for _, e := range entries {
		installed = append(installed, e.Name())
	}
	assert.ElementsMatch(t, []string{"subspace_storage_1.0.0.zip", "clusterio_lib_2.0.11.zip"}, installed)
}

func TestRunRejectsConflictingFlags(t *testing.T) {
	tests := []struct {
		name string
		s    settings
	}{
		{"mods dir without zip", settings{Build: true, ModsDir: "/game/mods"}},
		{"mods dir without build", settings{Pack: true, ModsDir: "/game/mods"}},
		{"libs dir without mods dir", settings{Build: true, Pack: true, LibsDir: "/libs", GameVersion: "1.1.110"}},
		{"libs dir without game version", settings{Build: true, Pack: true, ModsDir: "/game/mods", LibsDir: "/libs"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, fs := newDeps(t, &tt.s)
			assert.Error(t, run(context.Background(), d))

			exists, err := afero.Exists(fs, "/mod/dist")
			require.NoError(t, err)
			assert.False(t, exists)
		})
	}
}
