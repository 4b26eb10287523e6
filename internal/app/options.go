package service

import (
	"time"

	"github.com/okian/wecruit/internal/adapters/repository"
	"github.com/okian/wecruit/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the storage collaborator. Without it Start creates an
// in-memory store, which Stop closes.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithFanoutLimit bounds the concurrent per-recruit fetches of the
// evaluations view.
func WithFanoutLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.fanoutLimit = n
		}
	}
}

// WithTopN sets how many strengths and schools a summary ranks.
func WithTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topN = n
		}
	}
}

// WithClock sets the time source for submission and bookmark stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
