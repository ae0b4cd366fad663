package compose

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/rs/xid"
	"github.com/spf13/afero"
)

func NewStore(fs afero.Fs) *Store {
	return &Store{fs: fs}
}

// Store reads source sprites and writes composites through an afero.Fs.
type Store struct {
	fs afero.Fs
}

func (s *Store) Exists(path string) (bool, error) {
	return afero.Exists(s.fs, path)
}

func (s *Store) Load(path string) (image.Image, error) {
	f, err := s.fs.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingAsset, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableImage, path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	img, err := imaging.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableImage, path, err)
	}

	return img, nil
}

// SavePNG encodes img next to path under a temporary name and renames it into
// place, so a failed write never leaves a partial file at path.
func (s *Store) SavePNG(path string, img image.Image) error {
	dir := filepath.Dir(path)
	if exists, err := afero.DirExists(s.fs, dir); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnwritableOutput, path, err)
	} else if !exists {
		if err2 := s.fs.MkdirAll(dir, 0755); err2 != nil {
			return fmt.Errorf("%w: %s: %v", ErrUnwritableOutput, path, err2)
		}
	}

	tmp := filepath.Join(dir, "."+xid.New().String()+".png")
	f, err := s.fs.Create(tmp)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnwritableOutput, path, err)
	}

	if err := imaging.Encode(f, img, imaging.PNG); err != nil {
		_ = f.Close()
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("%w: %s: %v", ErrUnwritableOutput, path, err)
	}

	if err := f.Close(); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("%w: %s: %v", ErrUnwritableOutput, path, err)
	}

	if err := s.fs.Rename(tmp, path); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("%w: %s: %v", ErrUnwritableOutput, path, err)
	}

	return nil
}
