package api

import (
	"net/http"

	"github.com/okian/wecruit/internal/adapters/http/auth"
	service "github.com/okian/wecruit/internal/app"
	"github.com/okian/wecruit/pkg/logger"
)

// EvaluationsHandler serves the caller's bookmarked recruits.
type EvaluationsHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewEvaluationsHandler creates a new evaluations handler.
func NewEvaluationsHandler(deps Dependencies, l logger.Logger) *EvaluationsHandler {
	return &EvaluationsHandler{deps: deps, logger: l}
}

// HandleList handles GET /me/evaluations.
func (h *EvaluationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if userID == "" {
		fail(w, r, h.logger, NewKind("list evaluations", ErrUnauthorized))
		return
	}
	q, err := parseQuery(r, service.DefaultEvaluationsSort)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	page, err := h.deps.Evaluations(r.Context(), userID, q)
	if err != nil {
		fail(w, r, h.logger, Wrap("list evaluations", err))
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// HandleBookmark handles PUT /me/bookmarks/{id}.
func (h *EvaluationsHandler) HandleBookmark(w http.ResponseWriter, r *http.Request) {
	b, err := h.deps.Bookmark(r.Context(), auth.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		fail(w, r, h.logger, Wrap("bookmark", err))
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// HandleUnbookmark handles DELETE /me/bookmarks/{id}.
func (h *EvaluationsHandler) HandleUnbookmark(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Unbookmark(r.Context(), auth.UserID(r.Context()), r.PathValue("id")); err != nil {
		fail(w, r, h.logger, Wrap("unbookmark", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
