package compose

import (
	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

type Option func(c *Compositor)

// WithSize sets the working resolution every layer is resampled to.
func WithSize(width, height int) Option {
	return func(c *Compositor) {
		c.width = width
		c.height = height
	}
}

func WithFilter(filter imaging.ResampleFilter) Option {
	return func(c *Compositor) {
		c.filter = filter
	}
}

func WithMode(mode Mode) Option {
	return func(c *Compositor) {
		c.mode = mode
	}
}

// WithThreshold sets the chroma-key cutoff used by ModeChromaKey.
func WithThreshold(threshold uint8) Option {
	return func(c *Compositor) {
		c.threshold = threshold
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Compositor) {
		c.log = log.With(zap.String("via", "compositor"))
	}
}
