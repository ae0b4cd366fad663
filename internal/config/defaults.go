package config

import "fmt"

var (
	models = []string{"item", "fluid", "electricity"}
	brands = []struct {
		kind string
		tint [3]uint8
	}{
		{"extractor", [3]uint8{0x2f, 0x7c, 0xff}},
		{"injector", [3]uint8{0xa0, 0x3c, 0xff}},
	}
)

// Default returns the built-in icon tables: "icons" for the current release
// and "legacy" for the chroma-keyed 0.17 icon set.
func Default() *Config {
	var icons, legacy []TaskSpec
	for _, m := range models {
		for _, b := range brands {
			tint := b.tint
			name := fmt.Sprintf("%s-%s", m, b.kind)

			icons = append(icons, TaskSpec{
				Name:         name,
				Base:         fmt.Sprintf("%s/base.png", m),
				Layer:        fmt.Sprintf("%s/color.png", m),
				Emission:     fmt.Sprintf("%s/emission.png", m),
				Dark:         fmt.Sprintf("%s/dark.png", m),
				Tint:         &tint,
				EmissionTint: &tint,
				Composite:    fmt.Sprintf("%s.png", name),
			})

			legacy = append(legacy, TaskSpec{
				Name:         name,
				Base:         fmt.Sprintf("%s/base.png", m),
				Emission:     fmt.Sprintf("%s/emission.png", m),
				EmissionTint: &tint,
				Composite:    fmt.Sprintf("%s.png", name),
			})
		}
	}

	return &Config{
		Profiles: map[string]*Profile{
			"icons": {
				Size:   64,
				Filter: "lanczos",
				Mode:   "channel-mask",
				Assets: "assets/icons",
				Output: "graphics/icons",
				Defaults: TaskSpec{
					EmissionBlend:    "add",
					EmissionModulate: &ModulateSpec{Brightness: 1.2},
				},
				Specs: icons,
			},
			"legacy": {
				Size:   32,
				Filter: "box",
				Mode:   "chroma-key",
				Assets: "assets/icons",
				Output: "graphics/icons",
				Specs:  legacy,
			},
		},
	}
}
