package api

import (
	"net/http"

	service "github.com/okian/wecruit/internal/app"
	"github.com/okian/wecruit/pkg/logger"
)

// RecruitsHandler serves the board and recruit profiles.
type RecruitsHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewRecruitsHandler creates a new recruits handler.
func NewRecruitsHandler(deps Dependencies, l logger.Logger) *RecruitsHandler {
	return &RecruitsHandler{deps: deps, logger: l}
}

// HandleList handles GET /recruits.
func (h *RecruitsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r, service.DefaultBoardSort)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	page, err := h.deps.Board(r.Context(), q)
	if err != nil {
		fail(w, r, h.logger, Wrap("list recruits", err))
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// HandleProfile handles GET /recruits/{id}.
func (h *RecruitsHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.deps.Profile(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, r, h.logger, Wrap("get profile", err))
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
