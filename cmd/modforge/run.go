package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"modforge/internal/config"
	"modforge/pkg/compose"
	"modforge/pkg/locate"
	"modforge/pkg/pack"
	"modforge/pkg/render"
)

type settings struct {
	Clean, Build, Pack, Render bool

	SourceDir, OutputDir string
	TasksFile, Profile   string
	Workers              int

	ModsDir, LibsDir, LibName string
	GameVersion, ModVersion   string
}

func (s *settings) validate() error {
	if s.ModsDir != "" && (!s.Build || !s.Pack) {
		return errors.New("--mods-dir needs a zipped build, drop --build=false/--pack=false")
	}
	if s.LibsDir != "" && s.ModsDir == "" {
		return errors.New("--libs-dir needs --mods-dir")
	}
	if s.LibsDir != "" && s.GameVersion == "" {
		return errors.New("--libs-dir needs --game-version")
	}
	return nil
}

type deps struct {
	fx.In

	Fs       afero.Fs
	Logger   *zap.Logger
	Settings *settings
	Packer   *pack.Packer
	Locator  *locate.Locator
}

func run(ctx context.Context, d deps) error {
	s := d.Settings
	if err := s.validate(); err != nil {
		return err
	}

	if s.Render {
		if err := renderProfile(ctx, d); err != nil {
			return err
		}
	}

	info, err := d.Packer.Info()
	if err != nil {
		return err
	}

	if s.Clean {
		if _, err := d.Packer.Clean(info); err != nil {
			return err
		}
	}

	if !s.Build {
		return nil
	}

	var out string
	if s.Pack {
		out, err = d.Packer.Zip(info)
	} else {
		out, err = d.Packer.Copy(info)
	}
	if err != nil {
		return err
	}
	d.Logger.With(zap.String("path", out)).Info("built")

	if s.ModsDir == "" {
		return nil
	}

	archives := []string{out}
	if s.GameVersion != "" || s.ModVersion != "" {
		artifact, err := d.Locator.Artifact(d.Packer.OutputDir(), info, s.GameVersion, s.ModVersion)
		if err != nil {
			return err
		}
		archives[0] = artifact
	}

	if s.LibsDir != "" {
		libs, err := d.Locator.Libraries(s.LibsDir, s.LibName, s.GameVersion)
		if err != nil {
			return err
		}
		archives = append(archives, libs...)
	}

	_, err = d.Locator.Install(s.ModsDir, archives...)
	return err
}

// renderProfile loads the render profile on demand, so plain builds never
// depend on it, and writes composites into the packer's source directory.
func renderProfile(ctx context.Context, d deps) error {
	cfg, err := config.Load(d.Fs, d.Settings.TasksFile)
	if err != nil {
		return err
	}

	p, err := cfg.Profile(d.Settings.Profile)
	if err != nil {
		return err
	}

	opts, err := p.Options(d.Logger)
	if err != nil {
		return fmt.Errorf("profile %s: %w", d.Settings.Profile, err)
	}

	tasks, err := p.Tasks(d.Packer.SourceDir())
	if err != nil {
		return fmt.Errorf("profile %s: %w", d.Settings.Profile, err)
	}

	r := render.NewRunner(compose.New(d.Fs, opts...), render.WithWorkers(d.Settings.Workers), render.WithLogger(d.Logger))
	return r.Run(ctx, tasks)
}
