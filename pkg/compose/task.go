package compose

import "fmt"

// Color is an RGB triple used to tint a layer.
type Color struct {
	R, G, B uint8
}

// Modulate rotates hue (degrees) and then scales brightness.
// A zero Brightness leaves brightness unchanged.
type Modulate struct {
	Hue        float64
	Brightness float64
}

func (m *Modulate) identity() bool {
	return m == nil || (m.Hue == 0 && (m.Brightness == 0 || m.Brightness == 1))
}

// Task describes one icon derivation. Empty paths and nil pointers mean the
// step is not declared.
type Task struct {
	Name string

	Base     string
	Layer    string
	Emission string
	Dark     string

	Tint             *Color
	EmissionTint     *Color
	Modulate         *Modulate
	EmissionModulate *Modulate
	EmissionBlend    *BlendMode

	Composite string
}

func (t *Task) String() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Composite
}

func (t *Task) emissionBlend() BlendMode {
	if t.EmissionBlend == nil {
		return BlendAdd
	}
	return *t.EmissionBlend
}

func (t *Task) validate() error {
	if t.Base == "" {
		return fmt.Errorf("task %s: %w: base not declared", t, ErrMissingAsset)
	}
	if t.Composite == "" {
		return fmt.Errorf("task %s: %w: no composite path", t, ErrUnwritableOutput)
	}
	if t.EmissionBlend != nil && !t.EmissionBlend.valid() {
		return fmt.Errorf("task %s: %w: %d", t, ErrUnsupportedBlendMode, *t.EmissionBlend)
	}
	return nil
}
