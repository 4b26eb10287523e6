// Package types contains the JSON read and write shapes of the HTTP API.
package types

import (
	"time"

	"github.com/okian/wecruit/internal/domain/board"
	"github.com/okian/wecruit/internal/domain/model"
)

// Row is one recruit as listed on the board or on "my evaluations".
type Row struct {
	model.Recruit
	Grade        string          `json:"grade,omitempty"`
	Submission   *SubmissionView `json:"submission,omitempty"`
	BookmarkedAt *time.Time      `json:"bookmarkedAt,omitempty"`
}

// Options holds the filter option list per dimension.
type Options struct {
	Class    []string `json:"class"`
	Position []string `json:"position"`
	State    []string `json:"state"`
	Grade    []string `json:"grade"`
}

// SortState is the active sort column and direction.
type SortState struct {
	Key string `json:"key"`
	Dir string `json:"dir"`
}

// Page is a computed recruit list plus the state needed to render controls.
type Page struct {
	Recruits []Row     `json:"recruits"`
	Options  Options   `json:"options"`
	Sort     SortState `json:"sort"`
	Total    int       `json:"total"`
}

// Summary is the aggregate view. AverageGrade is null when no submission
// carries a ranked grade.
type Summary struct {
	AverageGrade    *string  `json:"averageGrade"`
	TopStrengths    []string `json:"topStrengths"`
	TopSchools      []string `json:"topSchools"`
	SubmissionCount int      `json:"submissionCount"`
	GradedCount     int      `json:"gradedCount"`
}

// Profile is a recruit detail page.
type Profile struct {
	Recruit model.Recruit `json:"recruit"`
	Summary Summary       `json:"summary"`
}

// SubmissionView is the caller's own submission, or an empty draft with
// Exists false.
type SubmissionView struct {
	Exists          bool       `json:"exists"`
	Grade           string     `json:"grade"`
	Strengths       []string   `json:"strengths"`
	PredictedSchool string     `json:"predictedSchool"`
	Comment         string     `json:"comment"`
	SubmittedAt     *time.Time `json:"submittedAt,omitempty"`
	EditedAt        *time.Time `json:"editedAt,omitempty"`
}

// SubmissionInput is the body of a save request.
type SubmissionInput struct {
	Grade           string   `json:"grade"`
	Strengths       []string `json:"strengths"`
	PredictedSchool string   `json:"predictedSchool"`
	Comment         string   `json:"comment"`
}

// Vocabulary lists the evaluation form choices.
type Vocabulary struct {
	Grades       []string `json:"grades"`
	Strengths    []string `json:"strengths"`
	Schools      []string `json:"schools"`
	MaxStrengths int      `json:"maxStrengths"`
}

// NewSummary converts a domain summary.
func NewSummary(s model.Summary) Summary {
	out := Summary{
		TopStrengths:    nonNil(s.TopStrengths),
		TopSchools:      nonNil(s.TopSchools),
		SubmissionCount: s.SubmissionCount,
		GradedCount:     s.GradedCount,
	}
	if s.HasAverage() {
		avg := s.AverageGrade
		out.AverageGrade = &avg
	}
	return out
}

// NewSubmissionView converts a stored submission; ok false yields an empty draft.
func NewSubmissionView(sub model.Submission, ok bool) SubmissionView {
	if !ok {
		return SubmissionView{Strengths: []string{}}
	}
	v := SubmissionView{
		Exists:          true,
		Grade:           sub.Grade,
		Strengths:       nonNil(sub.Strengths),
		PredictedSchool: sub.PredictedSchool,
		Comment:         sub.Comment,
	}
	if !sub.SubmittedAt.IsZero() {
		at := sub.SubmittedAt
		v.SubmittedAt = &at
	}
	if !sub.EditedAt.IsZero() {
		at := sub.EditedAt
		v.EditedAt = &at
	}
	return v
}

// NewRow converts a board row.
func NewRow(r board.Row) Row {
	out := Row{Recruit: r.Recruit, Grade: r.Grade}
	if r.Submission != nil {
		v := NewSubmissionView(*r.Submission, true)
		out.Submission = &v
	}
	if !r.BookmarkedAt.IsZero() {
		at := r.BookmarkedAt
		out.BookmarkedAt = &at
	}
	return out
}

// NewRows converts board rows, never returning nil.
func NewRows(rows []board.Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = NewRow(r)
	}
	return out
}

// NewOptions converts per-dimension option sets.
func NewOptions(sets map[board.Dimension][]string) Options {
	return Options{
		Class:    nonNil(sets[board.Class]),
		Position: nonNil(sets[board.Position]),
		State:    nonNil(sets[board.State]),
		Grade:    nonNil(sets[board.Grade]),
	}
}

// NewSortState converts a board sort.
func NewSortState(s board.Sort) SortState {
	return SortState{Key: string(s.Key), Dir: s.Direction()}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
