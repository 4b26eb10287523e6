package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/okian/wecruit/internal/domain/model"
	"github.com/okian/wecruit/pkg/metrics"
)

const memBackend = "memory"

type subKey struct {
	recruitID string
	userID    string
}

// MemStore keeps everything in maps guarded by one RWMutex. Values are
// copied on the way in and out so callers never share slices with it.
type MemStore struct {
	mu          sync.RWMutex
	recruits    map[string]model.Recruit
	submissions map[subKey]model.Submission
	bookmarks   map[string]map[string]time.Time

	metricsUpdateInterval time.Duration
	stopChan              chan struct{}
	stopOnce              sync.Once
	wg                    sync.WaitGroup
}

var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty store and starts its metrics updater, which
// runs until ctx is done or Close is called.
func NewMemStore(ctx context.Context, opts ...Option) *MemStore {
	s := &MemStore{
		recruits:              make(map[string]model.Recruit),
		submissions:           make(map[subKey]model.Submission),
		bookmarks:             make(map[string]map[string]time.Time),
		metricsUpdateInterval: 5 * time.Second,
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.startMetricsUpdater(ctx)
	return s
}

// Close stops the metrics updater. It is safe to call more than once and
// from several goroutines.
func (s *MemStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

func (s *MemStore) ListRecruits(ctx context.Context) ([]model.Recruit, error) {
	defer observe("list_recruits", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Recruit, 0, len(s.recruits))
	for _, r := range s.recruits {
		out = append(out, r)
	}
	return out, nil
}

func (s *MemStore) GetRecruit(ctx context.Context, id string) (model.Recruit, error) {
	defer observe("get_recruit", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.recruits[id]
	if !ok {
		return model.Recruit{}, ErrNotFound
	}
	return r, nil
}

func (s *MemStore) PutRecruit(ctx context.Context, r model.Recruit) error {
	defer observe("put_recruit", time.Now())
	if r.ID == "" {
		return ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recruits[r.ID] = r
	return nil
}

func (s *MemStore) CountRecruits(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.recruits), nil
}

func (s *MemStore) ListSubmissions(ctx context.Context, recruitID string) (map[string]model.Submission, error) {
	defer observe("list_submissions", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]model.Submission)
	for k, sub := range s.submissions {
		if k.recruitID == recruitID {
			out[k.userID] = sub.Clone()
		}
	}
	return out, nil
}

func (s *MemStore) GetSubmission(ctx context.Context, recruitID, userID string) (model.Submission, error) {
	defer observe("get_submission", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.submissions[subKey{recruitID, userID}]
	if !ok {
		return model.Submission{}, ErrNotFound
	}
	return sub.Clone(), nil
}

func (s *MemStore) PutSubmission(ctx context.Context, recruitID, userID string, sub model.Submission) error {
	defer observe("put_submission", time.Now())
	if recruitID == "" || userID == "" {
		return ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions[subKey{recruitID, userID}] = sub.Clone()
	return nil
}

func (s *MemStore) DeleteSubmission(ctx context.Context, recruitID, userID string) error {
	defer observe("delete_submission", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.submissions, subKey{recruitID, userID})
	return nil
}

// ListBookmarks returns bookmarks ordered by recruit id.
func (s *MemStore) ListBookmarks(ctx context.Context, userID string) ([]model.Bookmark, error) {
	defer observe("list_bookmarks", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()
	marks := s.bookmarks[userID]
	out := make([]model.Bookmark, 0, len(marks))
	for id, at := range marks {
		out = append(out, model.Bookmark{RecruitID: id, BookmarkedAt: at})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecruitID < out[j].RecruitID })
	return out, nil
}

func (s *MemStore) PutBookmark(ctx context.Context, userID string, b model.Bookmark) error {
	defer observe("put_bookmark", time.Now())
	if userID == "" || b.RecruitID == "" {
		return ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	marks, ok := s.bookmarks[userID]
	if !ok {
		marks = make(map[string]time.Time)
		s.bookmarks[userID] = marks
	}
	marks[b.RecruitID] = b.BookmarkedAt
	return nil
}

func (s *MemStore) DeleteBookmark(ctx context.Context, userID, recruitID string) error {
	defer observe("delete_bookmark", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bookmarks[userID], recruitID)
	return nil
}

func (s *MemStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.updateMetrics()
			}
		}
	}()
}

func (s *MemStore) updateMetrics() {
	s.mu.RLock()
	recruits, subs := len(s.recruits), len(s.submissions)
	s.mu.RUnlock()

	metrics.UpdateTotalRecruits(recruits)
	metrics.UpdateStoreRecords(memBackend, "submissions", subs)
}

func observe(op string, start time.Time) {
	metrics.RecordStoreOperation(memBackend, op, float64(time.Since(start).Microseconds())/1000)
}
