package fanout

import (
	"github.com/okian/wecruit/pkg/logger"
)

// Option applies a configuration option to the Group.
type Option func(*Group)

// WithLimit sets the maximum number of concurrent tasks.
func WithLimit(n int) Option {
	return func(g *Group) {
		if n > 0 {
			g.limit = n
		}
	}
}

// WithName sets the group name used for logging.
func WithName(name string) Option {
	return func(g *Group) {
		if name != "" {
			g.name = name
		}
	}
}

// WithLogger sets a custom logger for the group.
func WithLogger(l logger.Logger) Option {
	return func(g *Group) {
		if l != nil {
			g.logger = l
		}
	}
}
