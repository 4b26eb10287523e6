package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/wecruit/internal/adapters/cache"
	"github.com/okian/wecruit/internal/adapters/repository"
	"github.com/okian/wecruit/internal/adapters/repository/sqlite"
	"github.com/okian/wecruit/internal/config"
	"github.com/okian/wecruit/pkg/logger"
)

// OpenStore builds the storage stack described by cfg: sqlite when db_path
// is set, memory otherwise, fronted by the Redis recruit cache when
// redis_addr is set. The returned close func releases everything opened.
func OpenStore(ctx context.Context, cfg *config.Config, l logger.Logger) (repository.Store, func() error, error) {
	var (
		store   repository.Store
		closers []func() error
	)
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}

	if cfg.DBPath != "" {
		db, err := sqlite.Open(ctx, cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		store = db
		closers = append(closers, db.Close)
		l.Info(ctx, "using sqlite store", logger.String("path", cfg.DBPath))
	} else {
		mem := repository.NewMemStore(ctx)
		store = mem
		closers = append(closers, mem.Close)
		l.Info(ctx, "using in-memory store")
	}

	if cfg.RedisAddr != "" {
		rc, err := cache.Dial(ctx, cfg.RedisAddr)
		if err != nil {
			_ = closeAll()
			return nil, nil, fmt.Errorf("open cache: %w", err)
		}
		closers = append(closers, rc.Close)
		store = cache.NewStore(store, rc,
			cache.WithTTL(cfg.RecruitCacheTTL()),
			cache.WithLogger(l.Named("cache")),
		)
		l.Info(ctx, "recruit cache enabled",
			logger.String("addr", cfg.RedisAddr),
			logger.Duration("ttl", cfg.RecruitCacheTTL()),
		)
	}
	return store, closeAll, nil
}
