package api

import (
	"encoding/json"
	"net/http"

	"github.com/okian/wecruit/internal/adapters/http/auth"
	"github.com/okian/wecruit/internal/domain/types"
	"github.com/okian/wecruit/pkg/logger"
)

const maxBodyBytes = 64 << 10

// SubmissionHandler serves the caller's own evaluation of a recruit.
type SubmissionHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewSubmissionHandler creates a new submission handler.
func NewSubmissionHandler(deps Dependencies, l logger.Logger) *SubmissionHandler {
	return &SubmissionHandler{deps: deps, logger: l}
}

// HandleGet handles GET /recruits/{id}/submission.
func (h *SubmissionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	view, err := h.deps.MySubmission(r.Context(), auth.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		fail(w, r, h.logger, Wrap("get submission", err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandlePut handles PUT /recruits/{id}/submission.
func (h *SubmissionHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if userID == "" {
		fail(w, r, h.logger, NewKind("save submission", ErrUnauthorized))
		return
	}
	var in types.SubmissionInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&in); err != nil {
		fail(w, r, h.logger, WrapKind("save submission", ErrBadRequest, err))
		return
	}
	view, err := h.deps.SaveSubmission(r.Context(), userID, r.PathValue("id"), in)
	if err != nil {
		fail(w, r, h.logger, Wrap("save submission", err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleDelete handles DELETE /recruits/{id}/submission.
func (h *SubmissionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteSubmission(r.Context(), auth.UserID(r.Context()), r.PathValue("id")); err != nil {
		fail(w, r, h.logger, Wrap("delete submission", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
