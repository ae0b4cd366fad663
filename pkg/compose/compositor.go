package compose

import (
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Mode selects how emission transparency is derived.
type Mode int

const (
	// ModeChannelMask uses each layer's red channel as its alpha.
	ModeChannelMask Mode = iota
	// ModeChromaKey add-blends every layer and then cuts out near-black
	// pixels. Used by the legacy icon set.
	ModeChromaKey
)

const DefaultThreshold uint8 = 10

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mask", "channel-mask":
		return ModeChannelMask, nil
	case "chroma-key", "chromakey", "legacy":
		return ModeChromaKey, nil
	}
	return 0, fmt.Errorf("unknown compositing mode %q", s)
}

func (m Mode) String() string {
	switch m {
	case ModeChannelMask:
		return "channel-mask"
	case ModeChromaKey:
		return "chroma-key"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func New(fs afero.Fs, opts ...Option) *Compositor {
	c := &Compositor{
		store:     NewStore(fs),
		log:       zap.NewNop(),
		width:     64,
		height:    64,
		filter:    imaging.Lanczos,
		mode:      ModeChannelMask,
		threshold: DefaultThreshold,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type Compositor struct {
	store     *Store
	log       *zap.Logger
	width     int
	height    int
	filter    imaging.ResampleFilter
	mode      Mode
	threshold uint8
}

func (c *Compositor) Size() (int, int) {
	return c.width, c.height
}

func (c *Compositor) Mode() Mode {
	return c.mode
}

// Compose renders t and writes the result to t.Composite. Nothing is written
// when any step fails.
func (c *Compositor) Compose(t *Task) error {
	img, err := c.Render(t)
	if err != nil {
		return err
	}

	if err := c.store.SavePNG(t.Composite, img); err != nil {
		return fmt.Errorf("task %s: %w", t, err)
	}

	c.log.With(
		zap.String("task", t.String()),
		zap.String("mode", c.mode.String()),
		zap.String("dst", t.Composite),
	).Debug("composited")

	return nil
}

// Render runs every declared step of t and returns the accumulated image.
func (c *Compositor) Render(t *Task) (*image.NRGBA, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}

	var (
		img *image.NRGBA
		err error
	)
	if c.mode == ModeChromaKey {
		img, err = c.renderChromaKey(t)
	} else {
		img, err = c.renderChannelMask(t)
	}
	if err != nil {
		return nil, fmt.Errorf("task %s: %w", t, err)
	}

	return img, nil
}

func (c *Compositor) renderChannelMask(t *Task) (*image.NRGBA, error) {
	acc, err := c.load(t.Base)
	if err != nil {
		return nil, err
	}

	if t.Layer != "" {
		layer, err := c.load(t.Layer)
		if err != nil {
			return nil, err
		}

		if acc, err = Blend(acc, adjust(layer, t.Tint, t.Modulate), BlendOver); err != nil {
			return nil, err
		}
	}

	if t.Emission != "" {
		raw, err := c.load(t.Emission)
		if err != nil {
			return nil, err
		}

		emission := WithAlpha(adjust(raw, t.EmissionTint, t.EmissionModulate), RedMask(raw))
		if acc, err = Blend(acc, emission, t.emissionBlend()); err != nil {
			return nil, err
		}
	}

	if t.Dark != "" {
		exists, err := c.store.Exists(t.Dark)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableImage, t.Dark, err)
		}

		if !exists {
			c.log.With(zap.String("task", t.String()), zap.String("dark", t.Dark)).Debug("no dark layer, skip")
			return acc, nil
		}

		raw, err := c.load(t.Dark)
		if err != nil {
			return nil, err
		}

		dark := WithAlpha(imaging.Invert(raw), RedMask(raw))
		if acc, err = Blend(acc, dark, BlendMultiply); err != nil {
			return nil, err
		}
	}

	return acc, nil
}

func (c *Compositor) renderChromaKey(t *Task) (*image.NRGBA, error) {
	acc, err := c.load(t.Base)
	if err != nil {
		return nil, err
	}

	layers := []struct {
		path string
		tint *Color
		mod  *Modulate
	}{
		{t.Layer, t.Tint, t.Modulate},
		{t.Emission, t.EmissionTint, t.EmissionModulate},
	}

	for _, l := range layers {
		if l.path == "" {
			continue
		}

		img, err := c.load(l.path)
		if err != nil {
			return nil, err
		}

		if acc, err = Blend(acc, adjust(img, l.tint, l.mod), BlendAdd); err != nil {
			return nil, err
		}
	}

	return ChromaKey(acc, c.threshold), nil
}

func (c *Compositor) load(path string) (*image.NRGBA, error) {
	img, err := c.store.Load(path)
	if err != nil {
		return nil, err
	}
	return imaging.Resize(img, c.width, c.height, c.filter), nil
}
