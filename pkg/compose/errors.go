package compose

import (
	"github.com/pkg/errors"
)

var (
	ErrMissingAsset         = errors.New("missing asset")
	ErrUnreadableImage      = errors.New("unreadable image")
	ErrUnwritableOutput     = errors.New("unwritable output")
	ErrUnsupportedBlendMode = errors.New("unsupported blend mode")
)
