package board

import (
	"slices"
	"strconv"
	"strings"
)

// SortKey names a sortable column.
type SortKey string

// Sortable columns.
const (
	ByName        SortKey = "name"
	ByClass       SortKey = "class"
	ByPosition    SortKey = "position"
	BySchool      SortKey = "school"
	ByState       SortKey = "state"
	ByGrade       SortKey = "grade"
	BySubmittedAt SortKey = "submitted_at"
)

// SortKeys lists every valid sort key.
var SortKeys = []SortKey{ByName, ByClass, ByPosition, BySchool, ByState, ByGrade, BySubmittedAt}

// ValidSortKey reports whether k names a sortable column.
func ValidSortKey(k SortKey) bool { return slices.Contains(SortKeys, k) }

// Sort is a sort key plus direction.
type Sort struct {
	Key  SortKey
	Desc bool
}

// Direction returns "asc" or "desc".
func (s Sort) Direction() string {
	if s.Desc {
		return "desc"
	}
	return "asc"
}

// Toggle applies a column click: the active key flips direction, any other
// key becomes active in ascending order.
func (s Sort) Toggle(key SortKey) Sort {
	if s.Key == key {
		return Sort{Key: key, Desc: !s.Desc}
	}
	return Sort{Key: key}
}

// apply sorts rows in place. Equal keys keep their input order.
func (s Sort) apply(rows []Row) {
	if s.Key == "" {
		return
	}
	slices.SortStableFunc(rows, func(a, b Row) int {
		c := s.compare(a, b)
		if s.Desc {
			return -c
		}
		return c
	})
}

func (s Sort) compare(a, b Row) int {
	if s.Key == BySubmittedAt {
		return a.BookmarkedAt.Compare(b.BookmarkedAt)
	}
	return compareValues(sortValue(a, s.Key), sortValue(b, s.Key))
}

func sortValue(r Row, k SortKey) string {
	switch k {
	case ByName:
		return r.Recruit.Name
	case ByClass:
		return r.Recruit.Class
	case ByPosition:
		return r.Recruit.Position
	case BySchool:
		return r.Recruit.School
	case ByState:
		return r.Recruit.State
	case ByGrade:
		return r.Grade
	}
	return ""
}

// Value classes in ascending order.
const (
	absentValue = iota
	numberValue
	textValue
)

// compareValues orders absent values first, then numbers compared
// numerically, then everything else byte-wise.
func compareValues(a, b string) int {
	ca, x := classify(a)
	cb, y := classify(b)
	if ca != cb {
		return ca - cb
	}
	if ca == numberValue {
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	return strings.Compare(a, b)
}

func classify(v string) (int, float64) {
	t := strings.TrimSpace(v)
	if t == "" {
		return absentValue, 0
	}
	if f, err := strconv.ParseFloat(t, 64); err == nil {
		return numberValue, f
	}
	return textValue, 0
}
