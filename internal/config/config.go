// Package config holds the render profiles: the per-variant task tables and
// the working resolution each icon set is built at.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"modforge/pkg/compose"
)

type Config struct {
	Profiles map[string]*Profile `yaml:"profiles"`
}

// Profile is one icon set. Task inputs are relative to Assets and composites
// to Output unless absolute. A relative Output lives inside the mod source
// directory handed to Tasks.
type Profile struct {
	Size      int        `yaml:"size"`
	Filter    string     `yaml:"filter"`
	Mode      string     `yaml:"mode"`
	Threshold *uint8     `yaml:"threshold"`
	Assets    string     `yaml:"assets"`
	Output    string     `yaml:"output"`
	Defaults  TaskSpec   `yaml:"defaults"`
	Specs     []TaskSpec `yaml:"tasks"`
}

type TaskSpec struct {
	Name             string        `yaml:"name"`
	Base             string        `yaml:"base"`
	Layer            string        `yaml:"layer"`
	Emission         string        `yaml:"emission"`
	Dark             string        `yaml:"dark"`
	Tint             *[3]uint8     `yaml:"tint"`
	EmissionTint     *[3]uint8     `yaml:"emission_tint"`
	Modulate         *ModulateSpec `yaml:"modulate"`
	EmissionModulate *ModulateSpec `yaml:"emission_modulate"`
	EmissionBlend    string        `yaml:"emission_blend"`
	Composite        string        `yaml:"composite"`
}

type ModulateSpec struct {
	Hue        float64 `yaml:"hue"`
	Brightness float64 `yaml:"brightness"`
}

// Load reads a YAML profile file. An empty path yields the built-in profiles.
func Load(fs afero.Fs, path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s not found", path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

func (c *Config) Profile(name string) (*Profile, error) {
	p, ok := c.Profiles[name]
	if !ok || p == nil {
		return nil, fmt.Errorf("no render profile %q", name)
	}
	return p, nil
}

var filters = map[string]imaging.ResampleFilter{
	"":        imaging.Lanczos,
	"lanczos": imaging.Lanczos,
	"nearest": imaging.NearestNeighbor,
	"linear":  imaging.Linear,
	"box":     imaging.Box,
	"cubic":   imaging.CatmullRom,
}

// Options turns the profile into compositor options.
func (p *Profile) Options(logger *zap.Logger) ([]compose.Option, error) {
	if p.Size <= 0 {
		return nil, fmt.Errorf("profile size must be positive, got %d", p.Size)
	}

	filter, ok := filters[strings.ToLower(p.Filter)]
	if !ok {
		return nil, fmt.Errorf("unknown resample filter %q", p.Filter)
	}

	mode, err := compose.ParseMode(p.Mode)
	if err != nil {
		return nil, err
	}

	opts := []compose.Option{
		compose.WithSize(p.Size, p.Size),
		compose.WithFilter(filter),
		compose.WithMode(mode),
		compose.WithLogger(logger),
	}
	if p.Threshold != nil {
		opts = append(opts, compose.WithThreshold(*p.Threshold))
	}

	return opts, nil
}

// Tasks resolves every task against the profile defaults and directories.
// Composites land under sourceDir so the packer picks them up.
func (p *Profile) Tasks(sourceDir string) ([]*compose.Task, error) {
	output := join(sourceDir, p.Output)
	if output == "" {
		output = sourceDir
	}

	tasks := make([]*compose.Task, 0, len(p.Specs))
	for i, spec := range p.Specs {
		t, err := p.Defaults.merge(spec).task(p.Assets, output)
		if err != nil {
			return nil, fmt.Errorf("task #%d %s: %w", i, spec.Name, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// merge fills every field s leaves unset from d.
func (d TaskSpec) merge(s TaskSpec) TaskSpec {
	str := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}

	s.Base = str(s.Base, d.Base)
	s.Layer = str(s.Layer, d.Layer)
	s.Emission = str(s.Emission, d.Emission)
	s.Dark = str(s.Dark, d.Dark)
	s.EmissionBlend = str(s.EmissionBlend, d.EmissionBlend)
	if s.Tint == nil {
		s.Tint = d.Tint
	}
	if s.EmissionTint == nil {
		s.EmissionTint = d.EmissionTint
	}
	if s.Modulate == nil {
		s.Modulate = d.Modulate
	}
	if s.EmissionModulate == nil {
		s.EmissionModulate = d.EmissionModulate
	}
	return s
}

func (s TaskSpec) task(assets, output string) (*compose.Task, error) {
	if s.Composite == "" {
		return nil, fmt.Errorf("composite path required")
	}

	t := &compose.Task{
		Name:             s.Name,
		Base:             join(assets, s.Base),
		Layer:            join(assets, s.Layer),
		Emission:         join(assets, s.Emission),
		Dark:             join(assets, s.Dark),
		Tint:             color(s.Tint),
		EmissionTint:     color(s.EmissionTint),
		Modulate:         modulate(s.Modulate),
		EmissionModulate: modulate(s.EmissionModulate),
		Composite:        join(output, s.Composite),
	}

	if s.EmissionBlend != "" {
		mode, err := compose.ParseBlendMode(s.EmissionBlend)
		if err != nil {
			return nil, err
		}
		t.EmissionBlend = &mode
	}

	return t, nil
}

func join(dir, path string) string {
	if path == "" || dir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

func color(c *[3]uint8) *compose.Color {
	if c == nil {
		return nil
	}
	return &compose.Color{R: c[0], G: c[1], B: c[2]}
}

func modulate(m *ModulateSpec) *compose.Modulate {
	if m == nil {
		return nil
	}
	return &compose.Modulate{Hue: m.Hue, Brightness: m.Brightness}
}
