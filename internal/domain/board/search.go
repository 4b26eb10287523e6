package board

import (
	"strings"

	"golang.org/x/text/cases"
)

// newMatcher builds the search predicate for query. An empty (after trimming)
// query matches every row.
func newMatcher(query string) func(Row) bool {
	q := strings.TrimSpace(query)
	if q == "" {
		return func(Row) bool { return true }
	}
	// Caser is stateful; each matcher owns its own.
	folder := cases.Fold()
	needle := folder.String(q)
	return func(r Row) bool {
		return strings.Contains(folder.String(haystack(r)), needle)
	}
}

// haystack joins the searchable fields with spaces, skipping absent ones.
func haystack(r Row) string {
	parts := make([]string, 0, 6)
	for _, v := range []string{
		r.Recruit.Name,
		r.Recruit.School,
		r.Recruit.State,
		r.Recruit.Position,
		r.Grade,
		r.Recruit.Class,
	} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}
