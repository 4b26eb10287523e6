// Package model contains domain models passed between layers.
package model

import (
	"slices"
	"time"
)

// Recruit is a prospect profile. Only ID and Name are required; the core
// never mutates recruits.
type Recruit struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Class     string `json:"class,omitempty"`
	Position  string `json:"position,omitempty"`
	School    string `json:"school,omitempty"`
	State     string `json:"state,omitempty"`
	Height    string `json:"height,omitempty"`
	Weight    string `json:"weight,omitempty"`
	KCGrade   string `json:"kcGrade,omitempty"`
	Archetype string `json:"archetype,omitempty"`
	KCTake    string `json:"kcTake,omitempty"`
}

// Submission is one user's evaluation of one recruit, keyed by
// (recruit id, user id). Empty strings mean "absent".
type Submission struct {
	Grade           string    `json:"grade,omitempty"`
	Strengths       []string  `json:"strengths"`
	PredictedSchool string    `json:"predictedSchool,omitempty"`
	Comment         string    `json:"comment,omitempty"`
	SubmittedAt     time.Time `json:"submittedAt"`
	EditedAt        time.Time `json:"editedAt"`
}

// Clone returns a copy that shares no memory with s.
func (s Submission) Clone() Submission {
	s.Strengths = slices.Clone(s.Strengths)
	return s
}

// Bookmark marks a recruit as one of a user's tracked recruits.
type Bookmark struct {
	RecruitID    string    `json:"recruitId"`
	BookmarkedAt time.Time `json:"bookmarkedAt"`
}

// Summary is derived from the full submission set of one recruit.
// AverageGrade is empty when no submission carries a ranked grade.
type Summary struct {
	AverageGrade    string   `json:"averageGrade,omitempty"`
	TopStrengths    []string `json:"topStrengths"`
	TopSchools      []string `json:"topSchools"`
	SubmissionCount int      `json:"submissionCount"`
	GradedCount     int      `json:"gradedCount"`
}

// HasAverage reports whether an average grade could be computed.
func (s Summary) HasAverage() bool { return s.AverageGrade != "" }
