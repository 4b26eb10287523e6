package auth

import (
	"time"

	"github.com/okian/wecruit/pkg/logger"
)

// Option applies a configuration option to the Authenticator.
type Option func(*Authenticator)

// WithClock overrides the time source used for issuing and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) {
		if now != nil {
			a.now = now
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(a *Authenticator) {
		if l != nil {
			a.logger = l
		}
	}
}
