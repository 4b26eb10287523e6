// Package repository defines the storage contract for recruits, submissions
// and bookmarks, plus an in-memory implementation.
package repository

import (
	"context"

	"github.com/okian/wecruit/internal/domain/model"
)

// Store provides read/write access to recruits and evaluations.
type Store interface {
	// ListRecruits returns every recruit in no particular order.
	ListRecruits(ctx context.Context) ([]model.Recruit, error)
	// GetRecruit returns ErrNotFound if the recruit is unknown.
	GetRecruit(ctx context.Context, id string) (model.Recruit, error)
	// PutRecruit creates or replaces a recruit.
	PutRecruit(ctx context.Context, r model.Recruit) error
	// CountRecruits returns the number of stored recruits.
	CountRecruits(ctx context.Context) (int, error)

	// ListSubmissions returns the submissions for a recruit keyed by user id.
	ListSubmissions(ctx context.Context, recruitID string) (map[string]model.Submission, error)
	// GetSubmission returns ErrNotFound if the user has not evaluated the recruit.
	GetSubmission(ctx context.Context, recruitID, userID string) (model.Submission, error)
	// PutSubmission replaces the user's submission for a recruit.
	PutSubmission(ctx context.Context, recruitID, userID string, sub model.Submission) error
	// DeleteSubmission removes the user's submission. Deleting an absent
	// submission is not an error.
	DeleteSubmission(ctx context.Context, recruitID, userID string) error

	// ListBookmarks returns the user's bookmarked recruits.
	ListBookmarks(ctx context.Context, userID string) ([]model.Bookmark, error)
	// PutBookmark creates or replaces a bookmark.
	PutBookmark(ctx context.Context, userID string, b model.Bookmark) error
	// DeleteBookmark removes a bookmark; absent bookmarks are ignored.
	DeleteBookmark(ctx context.Context, userID, recruitID string) error
}
