// Package sqlite provides a SQLite-backed repository.Store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/okian/wecruit/internal/adapters/repository"
	"github.com/okian/wecruit/internal/adapters/repository/sqlite/migrations"
	"github.com/okian/wecruit/internal/domain/model"
	"github.com/okian/wecruit/pkg/metrics"
)

const backend = "sqlite"

// Store persists recruits, submissions and bookmarks in SQLite.
type Store struct {
	sqlDB *sql.DB
}

var _ repository.Store = (*Store)(nil)

func toMillis(value time.Time) int64 {
	if value.IsZero() {
		return 0
	}
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	if value == 0 {
		return time.Time{}
	}
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite store at path and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) +
		"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

const recruitColumns = `id, name, class, position, school, state, height, weight, kc_grade, archetype, kc_take`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecruit(row scanner) (model.Recruit, error) {
	var r model.Recruit
	err := row.Scan(&r.ID, &r.Name, &r.Class, &r.Position, &r.School, &r.State,
		&r.Height, &r.Weight, &r.KCGrade, &r.Archetype, &r.KCTake)
	return r, err
}

func (s *Store) ListRecruits(ctx context.Context) (out []model.Recruit, err error) {
	defer s.observe("list_recruits", time.Now(), &err)
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT `+recruitColumns+` FROM recruits`)
	if err != nil {
		return nil, fmt.Errorf("list recruits: %w", err)
	}
	defer rows.Close()

	out = []model.Recruit{}
	for rows.Next() {
		r, err := scanRecruit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recruit: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recruits: %w", err)
	}
	return out, nil
}

func (s *Store) GetRecruit(ctx context.Context, id string) (r model.Recruit, err error) {
	defer s.observe("get_recruit", time.Now(), &err)
	r, err = scanRecruit(s.sqlDB.QueryRowContext(ctx,
		`SELECT `+recruitColumns+` FROM recruits WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Recruit{}, repository.ErrNotFound
	}
	if err != nil {
		return model.Recruit{}, fmt.Errorf("get recruit: %w", err)
	}
	return r, nil
}

func (s *Store) PutRecruit(ctx context.Context, r model.Recruit) (err error) {
	defer s.observe("put_recruit", time.Now(), &err)
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO recruits (`+recruitColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   class = excluded.class,
		   position = excluded.position,
		   school = excluded.school,
		   state = excluded.state,
		   height = excluded.height,
		   weight = excluded.weight,
		   kc_grade = excluded.kc_grade,
		   archetype = excluded.archetype,
		   kc_take = excluded.kc_take`,
		r.ID, r.Name, r.Class, r.Position, r.School, r.State,
		r.Height, r.Weight, r.KCGrade, r.Archetype, r.KCTake,
	)
	if err != nil {
		return mapWriteError("put recruit", err)
	}
	return nil
}

func (s *Store) CountRecruits(ctx context.Context) (n int, err error) {
	defer s.observe("count_recruits", time.Now(), &err)
	if err = s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM recruits`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count recruits: %w", err)
	}
	return n, nil
}

const submissionColumns = `grade, strengths, predicted_school, comment, submitted_at, edited_at`

func scanSubmission(row scanner, extra ...any) (model.Submission, error) {
	var (
		sub                 model.Submission
		strengths           string
		submitted, editedAt int64
	)
	dest := append([]any{}, extra...)
	dest = append(dest, &sub.Grade, &strengths, &sub.PredictedSchool, &sub.Comment, &submitted, &editedAt)
	if err := row.Scan(dest...); err != nil {
		return model.Submission{}, err
	}
	if err := json.Unmarshal([]byte(strengths), &sub.Strengths); err != nil {
		return model.Submission{}, fmt.Errorf("decode strengths: %w", err)
	}
	if sub.Strengths == nil {
		sub.Strengths = []string{}
	}
	sub.SubmittedAt = fromMillis(submitted)
	sub.EditedAt = fromMillis(editedAt)
	return sub, nil
}

func (s *Store) ListSubmissions(ctx context.Context, recruitID string) (out map[string]model.Submission, err error) {
	defer s.observe("list_submissions", time.Now(), &err)
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT user_id, `+submissionColumns+` FROM submissions WHERE recruit_id = ?`, recruitID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	out = make(map[string]model.Submission)
	for rows.Next() {
		var userID string
		sub, err := scanSubmission(rows, &userID)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		out[userID] = sub
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return out, nil
}

func (s *Store) GetSubmission(ctx context.Context, recruitID, userID string) (sub model.Submission, err error) {
	defer s.observe("get_submission", time.Now(), &err)
	sub, err = scanSubmission(s.sqlDB.QueryRowContext(ctx,
		`SELECT `+submissionColumns+` FROM submissions WHERE recruit_id = ? AND user_id = ?`,
		recruitID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Submission{}, repository.ErrNotFound
	}
	if err != nil {
		return model.Submission{}, fmt.Errorf("get submission: %w", err)
	}
	return sub, nil
}

func (s *Store) PutSubmission(ctx context.Context, recruitID, userID string, sub model.Submission) (err error) {
	defer s.observe("put_submission", time.Now(), &err)
	strengths := sub.Strengths
	if strengths == nil {
		strengths = []string{}
	}
	encoded, err := json.Marshal(strengths)
	if err != nil {
		return fmt.Errorf("encode strengths: %w", err)
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO submissions (recruit_id, user_id, `+submissionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(recruit_id, user_id) DO UPDATE SET
		   grade = excluded.grade,
		   strengths = excluded.strengths,
		   predicted_school = excluded.predicted_school,
		   comment = excluded.comment,
		   submitted_at = excluded.submitted_at,
		   edited_at = excluded.edited_at`,
		recruitID, userID, sub.Grade, string(encoded), sub.PredictedSchool, sub.Comment,
		toMillis(sub.SubmittedAt), toMillis(sub.EditedAt),
	)
	if err != nil {
		return mapWriteError("put submission", err)
	}
	return nil
}

func (s *Store) DeleteSubmission(ctx context.Context, recruitID, userID string) (err error) {
	defer s.observe("delete_submission", time.Now(), &err)
	if _, err = s.sqlDB.ExecContext(ctx,
		`DELETE FROM submissions WHERE recruit_id = ? AND user_id = ?`, recruitID, userID); err != nil {
		return fmt.Errorf("delete submission: %w", err)
	}
	return nil
}

// ListBookmarks returns bookmarks ordered by recruit id.
func (s *Store) ListBookmarks(ctx context.Context, userID string) (out []model.Bookmark, err error) {
	defer s.observe("list_bookmarks", time.Now(), &err)
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT recruit_id, bookmarked_at FROM bookmarks WHERE user_id = ? ORDER BY recruit_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	out = []model.Bookmark{}
	for rows.Next() {
		var (
			b  model.Bookmark
			at int64
		)
		if err := rows.Scan(&b.RecruitID, &at); err != nil {
			return nil, fmt.Errorf("scan bookmark: %w", err)
		}
		b.BookmarkedAt = fromMillis(at)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookmarks: %w", err)
	}
	return out, nil
}

func (s *Store) PutBookmark(ctx context.Context, userID string, b model.Bookmark) (err error) {
	defer s.observe("put_bookmark", time.Now(), &err)
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO bookmarks (user_id, recruit_id, bookmarked_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id, recruit_id) DO UPDATE SET bookmarked_at = excluded.bookmarked_at`,
		userID, b.RecruitID, toMillis(b.BookmarkedAt),
	)
	if err != nil {
		return mapWriteError("put bookmark", err)
	}
	return nil
}

func (s *Store) DeleteBookmark(ctx context.Context, userID, recruitID string) (err error) {
	defer s.observe("delete_bookmark", time.Now(), &err)
	if _, err = s.sqlDB.ExecContext(ctx,
		`DELETE FROM bookmarks WHERE user_id = ? AND recruit_id = ?`, userID, recruitID); err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}
	return nil
}

func (s *Store) observe(op string, start time.Time, errp *error) {
	metrics.RecordStoreOperation(backend, op, float64(time.Since(start).Microseconds())/1000)
	if err := *errp; err != nil && !errors.Is(err, repository.ErrNotFound) {
		metrics.RecordStoreError(backend, op)
	}
}

// mapWriteError turns empty-key CHECK violations into repository.ErrInvalidID.
func mapWriteError(op string, err error) error {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_CHECK {
		return fmt.Errorf("%s: %w", op, repository.ErrInvalidID)
	}
	return fmt.Errorf("%s: %w", op, err)
}
