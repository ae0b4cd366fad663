// Package pack assembles a mod source tree into its versioned build output.
package pack

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/inhies/go-bytesize"
	"github.com/samber/lo"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"modforge/pkg/modinfo"
)

func New(fs afero.Fs, logger *zap.Logger, opts ...Option) *Packer {
	p := &Packer{
		fs:       fs,
		log:      logger.With(zap.String("via", "packer")),
		src:      "src",
		out:      "dist",
		progress: os.Stderr,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

type Packer struct {
	fs       afero.Fs
	log      *zap.Logger
	src      string
	out      string
	progress io.Writer
}

func (p *Packer) SourceDir() string {
	return p.src
}

func (p *Packer) OutputDir() string {
	return p.out
}

func (p *Packer) Info() (*modinfo.Info, error) {
	return modinfo.Read(p.fs, p.src)
}

// Clean removes every earlier build of the same mod from the output dir,
// zipped or not. Builds of other mods are left alone.
func (p *Packer) Clean(info *modinfo.Info) ([]string, error) {
	if exists, err := afero.DirExists(p.fs, p.out); err != nil {
		return nil, err
	} else if !exists {
		return nil, nil
	}

	entries, err := afero.ReadDir(p.fs, p.out)
	if err != nil {
		return nil, fmt.Errorf("read output dir failed: %w", err)
	}

	builds := lo.FilterMap(entries, func(e os.FileInfo, _ int) (string, bool) {
		b, ok := modinfo.ParseBuild(e.Name())
		return filepath.Join(p.out, b.Entry), ok && b.Name == info.Name
	})

	for _, b := range builds {
		p.log.With(zap.String("path", b)).Info("removing")
		if err := p.fs.RemoveAll(b); err != nil {
			return nil, fmt.Errorf("remove %s failed: %w", b, err)
		}
	}

	return builds, nil
}

// Zip writes <out>/<name>_<version>.zip with every source file placed under
// a <name>_<version>/ folder.
func (p *Packer) Zip(info *modinfo.Info) (string, error) {
	if err := p.fs.MkdirAll(p.out, 0755); err != nil {
		return "", err
	}

	files, err := p.files()
	if err != nil {
		return "", err
	}

	dst := filepath.Join(p.out, info.ArchiveName())
	p.log.With(zap.String("path", dst), zap.Int("files", len(files))).Info("writing")

	f, err := p.fs.Create(dst)
	if err != nil {
		return "", err
	}

	if err := p.writeZip(f, info.ModName(), files); err != nil {
		_ = f.Close()
		_ = p.fs.Remove(dst)
		return "", err
	}

	if err := f.Close(); err != nil {
		_ = p.fs.Remove(dst)
		return "", err
	}

	if st, err := p.fs.Stat(dst); err == nil {
		p.log.With(
			zap.String("path", dst),
			zap.String("size", bytesize.New(float64(st.Size())).String()),
		).Debug("archive written")
	}

	return dst, nil
}

func (p *Packer) writeZip(w io.Writer, modName string, files []string) error {
	zw := zip.NewWriter(w)
	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(p.progress),
		progressbar.OptionSetDescription(fmt.Sprintf("Packing %s", modName)),
	)

	for _, file := range files {
		if err := p.addFile(zw, modName, file); err != nil {
			return err
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	return zw.Close()
}

func (p *Packer) addFile(zw *zip.Writer, modName, file string) error {
	st, err := p.fs.Stat(file)
	if err != nil {
		return err
	}

	rel, err := filepath.Rel(p.src, file)
	if err != nil {
		return err
	}

	h, err := zip.FileInfoHeader(st)
	if err != nil {
		return err
	}
	h.Name = path.Join(modName, filepath.ToSlash(rel))
	h.Method = zip.Deflate

	w, err := zw.CreateHeader(h)
	if err != nil {
		return err
	}

	r, err := p.fs.Open(file)
	if err != nil {
		return err
	}
	defer func() {
		_ = r.Close()
	}()

	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("pack %s failed: %w", rel, err)
	}

	return nil
}

// Copy mirrors the source tree into <out>/<name>_<version>, replacing any
// existing build there.
func (p *Packer) Copy(info *modinfo.Info) (string, error) {
	dst := filepath.Join(p.out, info.ModName())

	if exists, err := afero.Exists(p.fs, dst); err != nil {
		return "", err
	} else if exists {
		p.log.With(zap.String("path", dst)).Info("removing existing build")
		if err := p.fs.RemoveAll(dst); err != nil {
			return "", err
		}
	}

	files, err := p.files()
	if err != nil {
		return "", err
	}

	p.log.With(zap.String("path", dst), zap.Int("files", len(files))).Info("building")

	for _, file := range files {
		rel, err := filepath.Rel(p.src, file)
		if err != nil {
			return "", err
		}
		if err := p.copyFile(file, filepath.Join(dst, rel)); err != nil {
			return "", err
		}
	}

	return dst, nil
}

func (p *Packer) copyFile(src, dst string) error {
	if err := p.fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	r, err := p.fs.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = r.Close()
	}()

	w, err := p.fs.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("copy %s failed: %w", src, err)
	}

	return w.Close()
}

func (p *Packer) files() ([]string, error) {
	var files []string
	err := afero.Walk(p.fs, p.src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s failed: %w", p.src, err)
	}
	return files, nil
}
