// Package editor manages the lifecycle of one user's evaluation of one
// recruit: load the existing submission, edit a draft, then save or delete.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/wecruit/internal/adapters/repository"
	"github.com/okian/wecruit/internal/domain/model"
	"github.com/okian/wecruit/internal/domain/vocab"
	"github.com/okian/wecruit/pkg/logger"
	"github.com/okian/wecruit/pkg/metrics"
)

// State is the editor lifecycle state.
type State int

// Editor states. Saving and Deleting are transient.
const (
	Uninitialized State = iota
	Loading
	Unauthenticated
	ReadyEmpty
	ReadyExisting
	Saving
	Deleting
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Unauthenticated:
		return "unauthenticated"
	case ReadyEmpty:
		return "ready_empty"
	case ReadyExisting:
		return "ready_existing"
	case Saving:
		return "saving"
	case Deleting:
		return "deleting"
	}
	return "unknown"
}

// Ready reports whether s accepts draft edits.
func (s State) Ready() bool { return s == ReadyEmpty || s == ReadyExisting }

// Store is the slice of the storage collaborator the editor writes through.
type Store interface {
	GetSubmission(ctx context.Context, recruitID, userID string) (model.Submission, error)
	PutSubmission(ctx context.Context, recruitID, userID string, sub model.Submission) error
	DeleteSubmission(ctx context.Context, recruitID, userID string) error
}

// Editor edits the submission keyed by (recruitID, userID). It is safe for
// concurrent use; operations that do not fit the current state return
// ErrNotReady rather than queueing.
type Editor struct {
	mu sync.Mutex

	store     Store
	recruitID string
	userID    string

	state    State
	draft    Draft
	existing model.Submission

	now    func() time.Time
	logger logger.Logger
}

// New creates an editor for userID's submission on recruitID. An empty
// userID means nobody is signed in.
func New(store Store, recruitID, userID string, opts ...Option) *Editor {
	e := &Editor{
		store:     store,
		recruitID: recruitID,
		userID:    userID,
		now:       time.Now,
		logger:    logger.Get().Named("editor"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the current lifecycle state.
func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Draft returns the current draft.
func (e *Editor) Draft() Draft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft.clone()
}

// Submission returns the stored submission when one exists.
func (e *Editor) Submission() (model.Submission, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != ReadyExisting {
		return model.Submission{}, false
	}
	return e.existing.Clone(), true
}

// Load fetches any existing submission and moves to a Ready state. Without a
// current user the editor becomes Unauthenticated and stays there.
func (e *Editor) Load(ctx context.Context) error {
	e.mu.Lock()
	if e.state == Unauthenticated {
		e.mu.Unlock()
		return ErrUnauthenticated
	}
	if e.state != Uninitialized && !e.state.Ready() {
		e.mu.Unlock()
		return ErrNotReady
	}
	if e.userID == "" {
		e.state = Unauthenticated
		e.mu.Unlock()
		return ErrUnauthenticated
	}
	if e.recruitID == "" {
		e.mu.Unlock()
		return repository.ErrInvalidID
	}
	prev := e.state
	e.state = Loading
	e.mu.Unlock()

	sub, err := e.store.GetSubmission(ctx, e.recruitID, e.userID)

	e.mu.Lock()
	defer e.mu.Unlock()
	switch {
	case errors.Is(err, repository.ErrNotFound):
		e.state = ReadyEmpty
		e.draft = Draft{}
		e.existing = model.Submission{}
	case err != nil:
		e.state = prev
		return fmt.Errorf("load submission: %w", err)
	default:
		e.state = ReadyExisting
		e.draft = DraftOf(sub)
		e.existing = sub.Clone()
	}
	return nil
}

// Edit replaces the draft with fn(draft). Labels are checked against the
// fixed vocabularies. Repeated strengths collapse to their first occurrence
// and strengths beyond the cap are dropped silently.
func (e *Editor) Edit(fn func(Draft) Draft) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.state.Ready() {
		return ErrNotReady
	}
	next := fn(e.draft.clone())
	next.Strengths = distinct(next.Strengths)
	if len(next.Strengths) > vocab.MaxStrengths {
		metrics.RecordStrengthRejected()
		next.Strengths = next.Strengths[:vocab.MaxStrengths]
	}
	if err := next.validate(); err != nil {
		return err
	}
	e.draft = next
	return nil
}

// SetGrade sets the draft grade. An empty label clears it.
func (e *Editor) SetGrade(label string) error {
	return e.Edit(func(d Draft) Draft { return d.WithGrade(label) })
}

// SetPredictedSchool sets the draft predicted school. An empty label clears it.
func (e *Editor) SetPredictedSchool(label string) error {
	return e.Edit(func(d Draft) Draft { return d.WithPredictedSchool(label) })
}

// SetComment sets the draft comment.
func (e *Editor) SetComment(text string) error {
	return e.Edit(func(d Draft) Draft { return d.WithComment(text) })
}

// ToggleStrength adds or removes a strength. Adding a fourth is ignored and
// reported as success.
func (e *Editor) ToggleStrength(label string) error {
	if !vocab.IsStrength(label) {
		return ErrUnknownStrength
	}
	return e.Edit(func(d Draft) Draft {
		next := d.ToggleStrength(label)
		if !d.HasStrength(label) && !next.HasStrength(label) {
			metrics.RecordStrengthRejected()
		}
		return next
	})
}

// Save writes the full draft as the user's submission. The first save sets
// submittedAt; every save sets editedAt.
func (e *Editor) Save(ctx context.Context) (model.Submission, error) {
	e.mu.Lock()
	if !e.state.Ready() {
		e.mu.Unlock()
		return model.Submission{}, ErrNotReady
	}
	prev := e.state
	now := e.now()
	submittedAt := now
	if prev == ReadyExisting && !e.existing.SubmittedAt.IsZero() {
		submittedAt = e.existing.SubmittedAt
	}
	sub := e.draft.submission(submittedAt, now)
	e.state = Saving
	e.mu.Unlock()

	err := e.store.PutSubmission(ctx, e.recruitID, e.userID, sub)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.state = prev
		e.logger.Error(ctx, "failed to save submission",
			logger.String("recruitID", e.recruitID),
			logger.String("userID", e.userID),
			logger.Error(err),
		)
		return model.Submission{}, fmt.Errorf("save submission: %w", err)
	}
	e.state = ReadyExisting
	e.existing = sub.Clone()
	metrics.RecordSubmissionSaved()
	e.logger.Debug(ctx, "submission saved",
		logger.String("recruitID", e.recruitID),
		logger.String("userID", e.userID),
		logger.Bool("created", prev == ReadyEmpty),
	)
	return sub, nil
}

// Delete removes the user's submission and clears the draft. It is only
// permitted while a submission exists.
func (e *Editor) Delete(ctx context.Context) error {
	e.mu.Lock()
	switch e.state {
	case ReadyExisting:
	case ReadyEmpty:
		e.mu.Unlock()
		return ErrNoSubmission
	default:
		e.mu.Unlock()
		return ErrNotReady
	}
	e.state = Deleting
	e.mu.Unlock()

	err := e.store.DeleteSubmission(ctx, e.recruitID, e.userID)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.state = ReadyExisting
		return fmt.Errorf("delete submission: %w", err)
	}
	e.state = ReadyEmpty
	e.draft = Draft{}
	e.existing = model.Submission{}
	metrics.RecordSubmissionDeleted()
	return nil
}
