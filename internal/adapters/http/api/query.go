package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/wecruit/internal/domain/board"
)

// parseQuery reads the view state from the query string:
//
//	position, state, class, grade  repeated filter selections
//	q                              search text
//	sort, dir                      current sort key and asc|desc
//	toggle                         column click applied to the current sort
func parseQuery(r *http.Request, def board.Sort) (board.Query, error) {
	v := r.URL.Query()

	filters := board.Filters{}
	for _, d := range board.Dimensions {
		var selected []string
		for _, s := range v[string(d)] {
			if s = strings.TrimSpace(s); s != "" {
				selected = append(selected, s)
			}
		}
		if len(selected) > 0 {
			filters[d] = selected
		}
	}

	sort := def
	key := strings.TrimSpace(v.Get("sort"))
	dir := strings.ToLower(strings.TrimSpace(v.Get("dir")))
	if dir != "" && dir != "asc" && dir != "desc" {
		return board.Query{}, WrapKind("parse query", ErrBadRequest, fmt.Errorf("dir must be asc or desc, got %q", dir))
	}
	if key != "" {
		if !board.ValidSortKey(board.SortKey(strings.ToLower(key))) {
			return board.Query{}, WrapKind("parse query", ErrBadRequest, fmt.Errorf("unknown sort key %q", key))
		}
		sort = board.ParseSort(key, dir, def)
	}
	if t := strings.ToLower(strings.TrimSpace(v.Get("toggle"))); t != "" {
		if !board.ValidSortKey(board.SortKey(t)) {
			return board.Query{}, WrapKind("parse query", ErrBadRequest, fmt.Errorf("unknown sort key %q", t))
		}
		sort = sort.Toggle(board.SortKey(t))
	}

	return board.Query{
		Filters: filters,
		Search:  v.Get("q"),
		Sort:    sort,
	}, nil
}
