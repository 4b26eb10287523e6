// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/wecruit/internal/domain/board"
	"github.com/okian/wecruit/internal/domain/model"
	"github.com/okian/wecruit/internal/domain/types"
	"github.com/okian/wecruit/pkg/logger"
	"github.com/okian/wecruit/pkg/metrics"
)

// Dependencies required by HTTP handlers. User-scoped operations take the
// caller's user id, "" for anonymous callers.
type Dependencies interface {
	Board(ctx context.Context, q board.Query) (types.Page, error)
	Profile(ctx context.Context, recruitID string) (types.Profile, error)

	MySubmission(ctx context.Context, userID, recruitID string) (types.SubmissionView, error)
	SaveSubmission(ctx context.Context, userID, recruitID string, in types.SubmissionInput) (types.SubmissionView, error)
	DeleteSubmission(ctx context.Context, userID, recruitID string) error

	Evaluations(ctx context.Context, userID string, q board.Query) (types.Page, error)
	Bookmark(ctx context.Context, userID, recruitID string) (model.Bookmark, error)
	Unbookmark(ctx context.Context, userID, recruitID string) error

	Vocabulary() types.Vocabulary
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	recruitsHandler    *RecruitsHandler
	submissionHandler  *SubmissionHandler
	evaluationsHandler *EvaluationsHandler
	vocabularyHandler  *VocabularyHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	l := logger.Get().Named("api")
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		recruitsHandler:    NewRecruitsHandler(deps, l),
		submissionHandler:  NewSubmissionHandler(deps, l),
		evaluationsHandler: NewEvaluationsHandler(deps, l),
		vocabularyHandler:  NewVocabularyHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /vocabulary", MetricsMiddleware(s.vocabularyHandler.HandleVocabulary, "vocabulary"))

	mux.HandleFunc("GET /recruits", MetricsMiddleware(s.recruitsHandler.HandleList, "recruits"))
	mux.HandleFunc("GET /recruits/{id}", MetricsMiddleware(s.recruitsHandler.HandleProfile, "recruit"))

	mux.HandleFunc("GET /recruits/{id}/submission", MetricsMiddleware(s.submissionHandler.HandleGet, "submission"))
	mux.HandleFunc("PUT /recruits/{id}/submission", MetricsMiddleware(s.submissionHandler.HandlePut, "submission"))
	mux.HandleFunc("DELETE /recruits/{id}/submission", MetricsMiddleware(s.submissionHandler.HandleDelete, "submission"))

	mux.HandleFunc("GET /me/evaluations", MetricsMiddleware(s.evaluationsHandler.HandleList, "evaluations"))
	mux.HandleFunc("PUT /me/bookmarks/{id}", MetricsMiddleware(s.evaluationsHandler.HandleBookmark, "bookmarks"))
	mux.HandleFunc("DELETE /me/bookmarks/{id}", MetricsMiddleware(s.evaluationsHandler.HandleUnbookmark, "bookmarks"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// fail writes err with the status its kind maps to. Server errors are
// logged and their detail withheld from the client.
func fail(w http.ResponseWriter, r *http.Request, l logger.Logger, err error) {
	code, name := status(err)
	if code >= http.StatusInternalServerError {
		l.Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.String("requestID", RequestID(r.Context())),
			logger.Error(err),
		)
		writeError(w, code, name, nil)
		return
	}
	writeError(w, code, name, err)
}
