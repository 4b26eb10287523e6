package editor

import (
	"time"

	"github.com/okian/wecruit/pkg/logger"
)

// Option applies a configuration option to the Editor.
type Option func(*Editor)

// WithClock sets the time source used to stamp saves.
func WithClock(now func() time.Time) Option {
	return func(e *Editor) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets a custom logger for the editor.
func WithLogger(l logger.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}
