// Package service composes storage, aggregation, the recruit board and the
// submission editor into the operations served by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/wecruit/internal/adapters/fanout"
	"github.com/okian/wecruit/internal/adapters/repository"
	"github.com/okian/wecruit/internal/domain/aggregate"
	"github.com/okian/wecruit/internal/domain/board"
	"github.com/okian/wecruit/internal/domain/editor"
	"github.com/okian/wecruit/internal/domain/model"
	"github.com/okian/wecruit/internal/domain/types"
	"github.com/okian/wecruit/internal/domain/vocab"
	"github.com/okian/wecruit/pkg/logger"
	"github.com/okian/wecruit/pkg/metrics"
)

// Default sorts per view.
var (
	DefaultBoardSort       = board.Sort{Key: board.ByName}
	DefaultEvaluationsSort = board.Sort{Key: board.BySubmittedAt, Desc: true}
)

// Service implements the API dependencies for the recruiting board.
type Service struct {
	mu sync.RWMutex

	store      repository.Store
	ownsStore  bool
	aggregator *aggregate.Aggregator
	fanout     *fanout.Group

	fanoutLimit int
	topN        int
	now         func() time.Time

	started bool
	logger  logger.Logger
}

// New constructs a Service. Call Start before serving requests.
func New(opts ...Option) *Service {
	s := &Service{
		fanoutLimit: 8,
		topN:        3,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start prepares the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	if s.store == nil {
		s.store = repository.NewMemStore(ctx)
		s.ownsStore = true
		s.logger.Info(ctx, "using in-memory store")
	}
	s.aggregator = aggregate.New(aggregate.WithTopN(s.topN))
	s.fanout = fanout.New(
		fanout.WithLimit(s.fanoutLimit),
		fanout.WithName("evaluations"),
		fanout.WithLogger(s.logger.Named("fanout")),
	)

	s.started = true
	s.logger.Info(ctx, "recruiting service started",
		logger.Int("fanoutLimit", s.fanoutLimit),
		logger.Int("topN", s.topN),
	)
	return nil
}

// Stop releases resources created by Start.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.ownsStore {
		if closer, ok := s.store.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
		s.store = nil
		s.ownsStore = false
	}
	s.started = false
	s.logger.Info(context.Background(), "recruiting service stopped")
}

// deps returns the running components or ErrNotStarted.
func (s *Service) deps() (repository.Store, *aggregate.Aggregator, *fanout.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, nil, ErrNotStarted
	}
	return s.store, s.aggregator, s.fanout, nil
}

// Board lists every recruit through the filter, search and sort engine.
// The grade dimension is the staff KC grade.
func (s *Service) Board(ctx context.Context, q board.Query) (types.Page, error) {
	store, _, _, err := s.deps()
	if err != nil {
		return types.Page{}, err
	}
	recruits, err := store.ListRecruits(ctx)
	if err != nil {
		return types.Page{}, fmt.Errorf("list recruits: %w", err)
	}
	sortByID(recruits)

	rows := make([]board.Row, len(recruits))
	for i, r := range recruits {
		rows[i] = board.Row{Recruit: r, Grade: r.KCGrade}
	}
	if q.Sort.Key == "" {
		q.Sort = DefaultBoardSort
	}
	return s.page("board", rows, q), nil
}

// Profile returns a recruit with the summary of every submission for it.
// The recruit and its submissions are fetched concurrently.
func (s *Service) Profile(ctx context.Context, recruitID string) (types.Profile, error) {
	store, agg, _, err := s.deps()
	if err != nil {
		return types.Profile{}, err
	}

	var (
		recruit model.Recruit
		subs    map[string]model.Submission
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := store.GetRecruit(gctx, recruitID)
		if err != nil {
			return fmt.Errorf("get recruit %q: %w", recruitID, err)
		}
		recruit = r
		return nil
	})
	g.Go(func() error {
		m, err := store.ListSubmissions(gctx, recruitID)
		if err != nil {
			return fmt.Errorf("list submissions %q: %w", recruitID, err)
		}
		subs = m
		return nil
	})
	if err := g.Wait(); err != nil {
		return types.Profile{}, err
	}

	return types.Profile{
		Recruit: recruit,
		Summary: types.NewSummary(agg.Summarize(subs)),
	}, nil
}

// MySubmission returns the user's own submission for a recruit, or an empty
// draft when there is none.
func (s *Service) MySubmission(ctx context.Context, userID, recruitID string) (types.SubmissionView, error) {
	ed, err := s.openEditor(ctx, userID, recruitID)
	if err != nil {
		return types.SubmissionView{}, err
	}
	return types.NewSubmissionView(ed.Submission()), nil
}

// SaveSubmission replaces the user's submission with in. Blank strengths are
// ignored, repeats collapse and those beyond the cap are dropped. The recruit is
// bookmarked for the user unless it already is.
func (s *Service) SaveSubmission(ctx context.Context, userID, recruitID string, in types.SubmissionInput) (types.SubmissionView, error) {
	ed, err := s.openEditor(ctx, userID, recruitID)
	if err != nil {
		return types.SubmissionView{}, err
	}
	draft := editor.Draft{
		Grade:           strings.TrimSpace(in.Grade),
		Strengths:       trimLabels(in.Strengths),
		PredictedSchool: strings.TrimSpace(in.PredictedSchool),
		Comment:         in.Comment,
	}
	if err := ed.Edit(func(editor.Draft) editor.Draft { return draft }); err != nil {
		return types.SubmissionView{}, err
	}
	sub, err := ed.Save(ctx)
	if err != nil {
		return types.SubmissionView{}, err
	}
	if _, err := s.bookmark(ctx, userID, recruitID, "auto"); err != nil {
		s.logger.Warn(ctx, "failed to bookmark evaluated recruit",
			logger.String("recruitID", recruitID),
			logger.String("userID", userID),
			logger.Error(err),
		)
	}
	return types.NewSubmissionView(sub, true), nil
}

// DeleteSubmission removes the user's submission. It returns
// editor.ErrNoSubmission when there is nothing to delete. The bookmark is
// left in place.
func (s *Service) DeleteSubmission(ctx context.Context, userID, recruitID string) error {
	ed, err := s.openEditor(ctx, userID, recruitID)
	if err != nil {
		return err
	}
	return ed.Delete(ctx)
}

// openEditor checks the recruit exists and loads the user's submission.
func (s *Service) openEditor(ctx context.Context, userID, recruitID string) (*editor.Editor, error) {
	store, _, _, err := s.deps()
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, editor.ErrUnauthenticated
	}
	if _, err := store.GetRecruit(ctx, recruitID); err != nil {
		return nil, fmt.Errorf("get recruit %q: %w", recruitID, err)
	}
	ed := editor.New(store, recruitID, userID,
		editor.WithClock(s.now),
		editor.WithLogger(s.logger.Named("editor")),
	)
	if err := ed.Load(ctx); err != nil {
		return nil, err
	}
	return ed, nil
}

// Evaluations lists the user's bookmarked recruits joined with the user's
// own submission. The grade dimension is the user's grade. Bookmarks whose
// recruit no longer exists are dropped. Per-recruit fetches run through a
// bounded fan-out and any failure fails the whole view.
func (s *Service) Evaluations(ctx context.Context, userID string, q board.Query) (types.Page, error) {
	store, _, group, err := s.deps()
	if err != nil {
		return types.Page{}, err
	}
	if userID == "" {
		return types.Page{}, editor.ErrUnauthenticated
	}
	marks, err := store.ListBookmarks(ctx, userID)
	if err != nil {
		return types.Page{}, fmt.Errorf("list bookmarks: %w", err)
	}

	joined, err := fanout.Map(ctx, group, marks, func(ctx context.Context, b model.Bookmark) (*board.Row, error) {
		r, err := store.GetRecruit(ctx, b.RecruitID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("get recruit %q: %w", b.RecruitID, err)
		}
		row := &board.Row{Recruit: r, BookmarkedAt: b.BookmarkedAt}
		sub, err := store.GetSubmission(ctx, b.RecruitID, userID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
		case err != nil:
			return nil, fmt.Errorf("get submission %q: %w", b.RecruitID, err)
		default:
			row.Submission = &sub
			row.Grade = sub.Grade
		}
		return row, nil
	})
	if err != nil {
		return types.Page{}, err
	}

	rows := make([]board.Row, 0, len(joined))
	for _, r := range joined {
		if r != nil {
			rows = append(rows, *r)
		}
	}
	if q.Sort.Key == "" {
		q.Sort = DefaultEvaluationsSort
	}
	return s.page("evaluations", rows, q), nil
}

// Bookmark adds the recruit to the user's list. Bookmarking twice keeps the
// original time.
func (s *Service) Bookmark(ctx context.Context, userID, recruitID string) (model.Bookmark, error) {
	store, _, _, err := s.deps()
	if err != nil {
		return model.Bookmark{}, err
	}
	if userID == "" {
		return model.Bookmark{}, editor.ErrUnauthenticated
	}
	if _, err := store.GetRecruit(ctx, recruitID); err != nil {
		return model.Bookmark{}, fmt.Errorf("get recruit %q: %w", recruitID, err)
	}
	return s.bookmark(ctx, userID, recruitID, "add")
}

func (s *Service) bookmark(ctx context.Context, userID, recruitID, action string) (model.Bookmark, error) {
	store, _, _, err := s.deps()
	if err != nil {
		return model.Bookmark{}, err
	}
	marks, err := store.ListBookmarks(ctx, userID)
	if err != nil {
		return model.Bookmark{}, fmt.Errorf("list bookmarks: %w", err)
	}
	if i := slices.IndexFunc(marks, func(b model.Bookmark) bool { return b.RecruitID == recruitID }); i >= 0 {
		return marks[i], nil
	}
	b := model.Bookmark{RecruitID: recruitID, BookmarkedAt: s.now()}
	if err := store.PutBookmark(ctx, userID, b); err != nil {
		return model.Bookmark{}, fmt.Errorf("put bookmark: %w", err)
	}
	metrics.RecordBookmarkChange(action)
	return b, nil
}

// Unbookmark removes the recruit from the user's list. Removing an absent
// bookmark is not an error.
func (s *Service) Unbookmark(ctx context.Context, userID, recruitID string) error {
	store, _, _, err := s.deps()
	if err != nil {
		return err
	}
	if userID == "" {
		return editor.ErrUnauthenticated
	}
	if err := store.DeleteBookmark(ctx, userID, recruitID); err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}
	metrics.RecordBookmarkChange("remove")
	return nil
}

// Vocabulary returns the evaluation form choices.
func (s *Service) Vocabulary() types.Vocabulary {
	return types.Vocabulary{
		Grades:       slices.Clone(vocab.Grades),
		Strengths:    slices.Clone(vocab.Strengths),
		Schools:      slices.Clone(vocab.Schools),
		MaxStrengths: vocab.MaxStrengths,
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"fanoutLimit": s.fanoutLimit,
		"topN":        s.topN,
	}
	if s.started {
		total, err := s.store.CountRecruits(context.Background())
		if err == nil {
			stats["totalRecruits"] = total
			metrics.UpdateTotalRecruits(total)
		}
	}
	return stats
}

// page runs the engine over rows and builds the response.
func (s *Service) page(view string, rows []board.Row, q board.Query) types.Page {
	start := time.Now()
	visible := board.Visible(rows, q)
	metrics.RecordBoardRecompute(view, float64(time.Since(start).Microseconds())/1000, len(visible))
	return types.Page{
		Recruits: types.NewRows(visible),
		Options:  types.NewOptions(board.OptionSets(rows)),
		Sort:     types.NewSortState(q.Sort),
		Total:    len(rows),
	}
}

func sortByID(recruits []model.Recruit) {
	slices.SortFunc(recruits, func(a, b model.Recruit) int { return strings.Compare(a.ID, b.ID) })
}

// trimLabels trims labels and drops blanks. The editor collapses repeats.
func trimLabels(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
