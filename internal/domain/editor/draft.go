package editor

import (
	"slices"
	"time"

	"github.com/okian/wecruit/internal/domain/model"
	"github.com/okian/wecruit/internal/domain/vocab"
)

// Field names a single-valued draft field.
type Field string

// Draft fields settable through WithField.
const (
	FieldGrade           Field = "grade"
	FieldPredictedSchool Field = "predictedSchool"
	FieldComment         Field = "comment"
)

// Draft is the in-progress content of an evaluation. It is a value type:
// every With method returns a new Draft and leaves the receiver untouched.
type Draft struct {
	Grade           string
	Strengths       []string
	PredictedSchool string
	Comment         string
}

// DraftOf returns the draft held by a stored submission.
func DraftOf(sub model.Submission) Draft {
	return Draft{
		Grade:           sub.Grade,
		Strengths:       slices.Clone(sub.Strengths),
		PredictedSchool: sub.PredictedSchool,
		Comment:         sub.Comment,
	}
}

func (d Draft) clone() Draft {
	d.Strengths = slices.Clone(d.Strengths)
	return d
}

// WithField returns a copy of d with field set to value. Unknown fields
// leave the draft unchanged.
func (d Draft) WithField(field Field, value string) Draft {
	d = d.clone()
	switch field {
	case FieldGrade:
		d.Grade = value
	case FieldPredictedSchool:
		d.PredictedSchool = value
	case FieldComment:
		d.Comment = value
	}
	return d
}

// WithGrade is WithField(FieldGrade, label).
func (d Draft) WithGrade(label string) Draft { return d.WithField(FieldGrade, label) }

// WithPredictedSchool is WithField(FieldPredictedSchool, label).
func (d Draft) WithPredictedSchool(label string) Draft {
	return d.WithField(FieldPredictedSchool, label)
}

// WithComment is WithField(FieldComment, text).
func (d Draft) WithComment(text string) Draft { return d.WithField(FieldComment, text) }

// ToggleStrength removes label when selected and adds it otherwise. Adding
// beyond vocab.MaxStrengths returns the draft unchanged.
func (d Draft) ToggleStrength(label string) Draft {
	if i := slices.Index(d.Strengths, label); i >= 0 {
		d.Strengths = slices.Delete(slices.Clone(d.Strengths), i, i+1)
		return d
	}
	if len(d.Strengths) >= vocab.MaxStrengths {
		return d
	}
	d.Strengths = append(slices.Clone(d.Strengths), label)
	return d
}

// distinct returns labels without repeats, keeping first occurrences.
func distinct(labels []string) []string {
	if labels == nil {
		return nil
	}
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if !slices.Contains(out, l) {
			out = append(out, l)
		}
	}
	return out
}

// HasStrength reports whether label is selected.
func (d Draft) HasStrength(label string) bool { return slices.Contains(d.Strengths, label) }

// submission stamps d with the given times.
func (d Draft) submission(submittedAt, editedAt time.Time) model.Submission {
	strengths := slices.Clone(d.Strengths)
	if strengths == nil {
		strengths = []string{}
	}
	return model.Submission{
		Grade:           d.Grade,
		Strengths:       strengths,
		PredictedSchool: d.PredictedSchool,
		Comment:         d.Comment,
		SubmittedAt:     submittedAt,
		EditedAt:        editedAt,
	}
}

// validate checks every label against the fixed vocabularies.
func (d Draft) validate() error {
	if d.Grade != "" && !vocab.IsGrade(d.Grade) {
		return ErrUnknownGrade
	}
	if d.PredictedSchool != "" && !vocab.IsSchool(d.PredictedSchool) {
		return ErrUnknownSchool
	}
	for _, s := range d.Strengths {
		if !vocab.IsStrength(s) {
			return ErrUnknownStrength
		}
	}
	return nil
}
