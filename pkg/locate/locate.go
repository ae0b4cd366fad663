// Package locate finds packaged mod archives for a game version and installs
// them into a mods directory.
package locate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"modforge/pkg/modinfo"
)

var (
	ErrNoVariant  = errors.New("no mod variant for game version")
	ErrNoArtifact = errors.New("mod archive not found")
)

// Compatible reports whether a library release can load in gameVersion. The
// release's patch number encodes the game line it was built for.
func Compatible(modVersion, gameVersion string) bool {
	mod := strings.Split(modVersion, ".")
	game := strings.Split(gameVersion, ".")
	if len(mod) < 3 || len(game) < 2 {
		return false
	}

	switch mod[2] {
	case "20":
		return game[0] == "2"
	case "11":
		return game[0] == "1" && game[1] == "1"
	case "10", "18":
		return game[0] == "1" && game[1] == "0"
	case "17":
		return game[0] == "0" && game[1] == "17"
	}
	return false
}

func New(fs afero.Fs, logger *zap.Logger) *Locator {
	return &Locator{fs: fs, log: logger.With(zap.String("via", "locator"))}
}

type Locator struct {
	fs  afero.Fs
	log *zap.Logger
}

// Artifact picks the archive in dist for gameVersion. An explicit modVersion
// wins over the info.json variant table.
func (l *Locator) Artifact(dist string, info *modinfo.Info, gameVersion, modVersion string) (string, error) {
	version := modVersion
	if version == "" {
		v, ok := info.VariantFor(gameVersion)
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrNoVariant, gameVersion)
		}
		version = v.Version
	}

	path := filepath.Join(dist, fmt.Sprintf("%s_%s.zip", info.Name, version))
	if exists, err := afero.Exists(l.fs, path); err != nil {
		return "", err
	} else if !exists {
		return "", fmt.Errorf("%w: %s", ErrNoArtifact, path)
	}

	return path, nil
}

// Libraries lists every <name>_x.y.z.zip in dir that can load in gameVersion.
func (l *Locator) Libraries(dir, name, gameVersion string) ([]string, error) {
	entries, err := afero.ReadDir(l.fs, dir)
	if err != nil {
		return nil, err
	}

	libs := lo.FilterMap(entries, func(e os.FileInfo, _ int) (string, bool) {
		b, ok := modinfo.ParseBuild(e.Name())
		return filepath.Join(dir, e.Name()), ok && b.Zipped && b.Name == name && Compatible(b.Version, gameVersion)
	})

	if len(libs) == 0 {
		return nil, fmt.Errorf("%w: %s for %s in %s", ErrNoArtifact, name, gameVersion, dir)
	}

	return libs, nil
}

// Install copies archives into modsDir and returns their new paths.
func (l *Locator) Install(modsDir string, archives ...string) ([]string, error) {
	if err := l.fs.MkdirAll(modsDir, 0755); err != nil {
		return nil, err
	}

	var installed []string
	for _, src := range archives {
		dst := filepath.Join(modsDir, filepath.Base(src))
		if err := l.copy(src, dst); err != nil {
			return nil, fmt.Errorf("install %s failed: %w", src, err)
		}
		l.log.With(zap.String("src", src), zap.String("dst", dst)).Info("installed")
		installed = append(installed, dst)
	}

	return installed, nil
}

func (l *Locator) copy(src, dst string) error {
	r, err := l.fs.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = r.Close()
	}()

	w, err := l.fs.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return err
	}

	return w.Close()
}
