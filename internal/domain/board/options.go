package board

import (
	"slices"
	"strings"

	"github.com/okian/wecruit/internal/domain/vocab"
)

// Options returns the distinct non-empty values of d across rows. Rows should
// be the full, unfiltered list so one dimension never narrows another.
func Options(rows []Row, d Dimension) []string {
	seen := make(map[string]struct{})
	opts := []string{}
	for _, r := range rows {
		v := r.Value(d)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		opts = append(opts, v)
	}
	slices.Sort(opts)
	if d.numeric() {
		SortNumeric(opts)
	}
	return opts
}

// OptionSets returns Options for every dimension.
func OptionSets(rows []Row) map[Dimension][]string {
	sets := make(map[Dimension][]string, len(Dimensions))
	for _, d := range Dimensions {
		sets[d] = Options(rows, d)
	}
	return sets
}

// SortNumeric orders labels by their leading integer token; unparseable
// tokens count as 0. The sort is stable.
func SortNumeric(labels []string) {
	slices.SortStableFunc(labels, func(a, b string) int {
		x, _ := vocab.LeadingInt(a)
		y, _ := vocab.LeadingInt(b)
		return x - y
	})
}

// ParseSort reads a sort key and "asc"/"desc" direction, falling back to def
// for unknown keys. Direction defaults to ascending.
func ParseSort(key, dir string, def Sort) Sort {
	k := SortKey(strings.ToLower(strings.TrimSpace(key)))
	if k == "" || !ValidSortKey(k) {
		return def
	}
	return Sort{Key: k, Desc: strings.EqualFold(strings.TrimSpace(dir), "desc")}
}
