// Package board filters, searches and sorts recruit rows for display.
//
// Every function here is pure: callers re-run Visible on each input change
// and never mutate the rows it returns.
package board

import (
	"time"

	"github.com/okian/wecruit/internal/domain/model"
)

// Dimension names a filterable recruit attribute.
type Dimension string

// Filterable dimensions.
const (
	Position Dimension = "position"
	State    Dimension = "state"
	Class    Dimension = "class"
	Grade    Dimension = "grade"
)

// Dimensions lists every filterable dimension in display order.
var Dimensions = []Dimension{Class, Position, State, Grade}

// numeric reports whether option lists for d order by leading integer.
func (d Dimension) numeric() bool { return d == Class || d == Grade }

// Row is one recruit as displayed, optionally joined with a user's own
// submission. Grade holds the label used by the grade dimension: the staff
// KC grade on the board, the user's own grade on "my evaluations".
type Row struct {
	Recruit      model.Recruit
	Grade        string
	Submission   *model.Submission
	BookmarkedAt time.Time
}

// Value returns the row's value for dimension d, "" when absent.
func (r Row) Value(d Dimension) string {
	switch d {
	case Position:
		return r.Recruit.Position
	case State:
		return r.Recruit.State
	case Class:
		return r.Recruit.Class
	case Grade:
		return r.Grade
	}
	return ""
}

// Filters holds the selected values per dimension. A missing or empty
// selection means "show all".
type Filters map[Dimension][]string

// Query is the complete view state for one recompute.
type Query struct {
	Filters Filters
	Search  string
	Sort    Sort
}

// Visible applies filters, then search, then a stable sort. The input slice
// is not modified.
func Visible(rows []Row, q Query) []Row {
	match := newMatcher(q.Search)
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if q.Filters.Pass(r) && match(r) {
			out = append(out, r)
		}
	}
	q.Sort.apply(out)
	return out
}

// Pass reports whether r passes every dimension's selection.
func (f Filters) Pass(r Row) bool {
	for d, selected := range f {
		if len(selected) == 0 {
			continue
		}
		v := r.Value(d)
		if v == "" || !contains(selected, v) {
			return false
		}
	}
	return true
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
