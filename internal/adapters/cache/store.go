package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/okian/wecruit/internal/adapters/repository"
	"github.com/okian/wecruit/internal/domain/model"
	"github.com/okian/wecruit/pkg/logger"
	"github.com/okian/wecruit/pkg/metrics"
)

// Default cache configuration constants.
const (
	defaultTTL    = time.Minute
	defaultPrefix = "wecruit:"
)

// Store decorates a repository.Store, serving recruit reads from a Cache.
// Submissions and bookmarks always go to the wrapped store so aggregates are
// computed from the latest writes. Cache failures are logged and fall back
// to the wrapped store.
type Store struct {
	repository.Store

	cache  Cache
	ttl    time.Duration
	prefix string
	logger logger.Logger
}

var _ repository.Store = (*Store)(nil)

// NewStore wraps next with c.
func NewStore(next repository.Store, c Cache, opts ...Option) *Store {
	s := &Store{
		Store:  next,
		cache:  c,
		ttl:    defaultTTL,
		prefix: defaultPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("cache")
	}
	return s
}

func (s *Store) recruitKey(id string) string { return s.prefix + "recruit:" + id }

func (s *Store) listKey() string { return s.prefix + "recruits" }

func (s *Store) ListRecruits(ctx context.Context) ([]model.Recruit, error) {
	var out []model.Recruit
	if s.lookup(ctx, s.listKey(), &out) {
		return out, nil
	}
	out, err := s.Store.ListRecruits(ctx)
	if err != nil {
		return nil, err
	}
	s.fill(ctx, s.listKey(), out)
	return out, nil
}

func (s *Store) GetRecruit(ctx context.Context, id string) (model.Recruit, error) {
	var r model.Recruit
	if s.lookup(ctx, s.recruitKey(id), &r) {
		return r, nil
	}
	r, err := s.Store.GetRecruit(ctx, id)
	if err != nil {
		return model.Recruit{}, err
	}
	s.fill(ctx, s.recruitKey(id), r)
	return r, nil
}

// PutRecruit writes through and invalidates the cached entries it affects.
func (s *Store) PutRecruit(ctx context.Context, r model.Recruit) error {
	if err := s.Store.PutRecruit(ctx, r); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, s.recruitKey(r.ID), s.listKey()); err != nil {
		metrics.RecordCacheError()
		s.logger.Warn(ctx, "failed to invalidate recruit",
			logger.String("recruitID", r.ID),
			logger.Error(err),
		)
	}
	return nil
}

// lookup decodes key into dst and reports whether it was a usable hit.
func (s *Store) lookup(ctx context.Context, key string, dst any) bool {
	data, err := s.cache.Get(ctx, key)
	switch {
	case errors.Is(err, ErrMiss):
		metrics.RecordCacheMiss()
		return false
	case err != nil:
		metrics.RecordCacheError()
		s.logger.Warn(ctx, "cache read failed", logger.String("key", key), logger.Error(err))
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		metrics.RecordCacheError()
		s.logger.Warn(ctx, "discarding undecodable cache entry", logger.String("key", key), logger.Error(err))
		return false
	}
	metrics.RecordCacheHit()
	return true
}

func (s *Store) fill(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		metrics.RecordCacheError()
		s.logger.Warn(ctx, "cache write failed", logger.String("key", key), logger.Error(err))
	}
}
