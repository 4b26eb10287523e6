// Package fanout runs independent fetches concurrently with a bound on how
// many are in flight, and joins their results once all complete.
package fanout

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/wecruit/pkg/logger"
	"github.com/okian/wecruit/pkg/metrics"
)

// Default fan-out configuration constants.
const (
	defaultLimit = 8
	defaultName  = "fanout"
)

// Group holds the limit and identity shared by every join it runs. A Group
// is stateless between calls and safe for concurrent use.
type Group struct {
	limit  int
	name   string
	logger logger.Logger
}

// New creates a Group with configuration options.
func New(opts ...Option) *Group {
	g := &Group{
		limit: defaultLimit,
		name:  defaultName,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = logger.Get().Named(g.name)
	}
	return g
}

// Limit returns the maximum number of tasks in flight.
func (g *Group) Limit() int { return g.limit }

// Map calls fn for every item, at most g.Limit() at a time, and returns the
// results in input order. The first error cancels the context passed to the
// remaining calls and is returned once every started call has finished; no
// partial results are returned with it.
func Map[T, R any](ctx context.Context, g *Group, items []T, fn func(context.Context, T) (R, error)) ([]R, error) {
	start := time.Now()
	results := make([]R, len(items))
	if len(items) == 0 {
		return results, nil
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.limit)
	for i, item := range items {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			r, err := fn(egCtx, item)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	err := eg.Wait()
	metrics.RecordFanout(len(items), float64(time.Since(start).Microseconds())/1000, err != nil)
	if err != nil {
		g.logger.Warn(ctx, "fan-out failed",
			logger.Int("tasks", len(items)),
			logger.Duration("elapsed", time.Since(start)),
			logger.Error(err),
		)
		return nil, err
	}
	return results, nil
}
