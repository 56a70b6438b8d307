// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	repository "github.com/natigahub/natiga/internal/adapters/repository"
	app "github.com/natigahub/natiga/internal/app"
	"github.com/natigahub/natiga/internal/domain/model"
	"github.com/natigahub/natiga/internal/domain/query"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	// Search runs one lookup pipeline synchronously.
	Search(ctx context.Context, term string) (app.Outcome, error)

	// Submit feeds the search state machine; requested distinguishes a
	// submitted term from one still being typed.
	Submit(ctx context.Context, term string, requested bool) app.Snapshot

	// Snapshot returns the current state machine view.
	Snapshot() app.Snapshot
}

// Server wires HTTP routes for the lookup API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	searchHandler *SearchHandler
	stateHandler  *StateHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		searchHandler: NewSearchHandler(deps),
		stateHandler:  NewStateHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/search", MetricsMiddleware(s.searchHandler.HandleSearch, "search"))
	mux.HandleFunc("/search/state", MetricsMiddleware(s.stateHandler.HandleGetState, "search_state"))
}

// searchResponse mirrors the GET /search contract.
type searchResponse struct {
	Found        bool                `json:"found"`
	Record       *model.ResultRecord `json:"record,omitempty"`
	ComputedRank *int                `json:"computed_rank,omitempty"`
}

// submitRequest mirrors the POST /search body.
type submitRequest struct {
	Name      string `json:"name"`
	Requested bool   `json:"requested"`
}

// stateResponse mirrors the GET /search/state contract.
type stateResponse struct {
	State        string              `json:"state"`
	Term         string              `json:"term,omitempty"`
	Generation   uint64              `json:"generation"`
	TraceID      string              `json:"trace_id,omitempty"`
	Found        bool                `json:"found"`
	Record       *model.ResultRecord `json:"record,omitempty"`
	ComputedRank *int                `json:"computed_rank,omitempty"`
	Error        string              `json:"error,omitempty"`
	ErrorKind    string              `json:"error_kind,omitempty"`
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

// errorKind classifies errors from the pipeline for API mapping. The
// validation message is passed through literally so clients can special-case
// it; store errors stay generic.
func errorKind(err error) string {
	switch {
	case errors.Is(err, query.ErrTooFewTokens):
		return "validation"
	case errors.Is(err, repository.ErrStore):
		return "store"
	default:
		return "internal"
	}
}
