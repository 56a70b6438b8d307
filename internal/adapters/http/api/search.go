package api

import (
	"encoding/json"
	"net/http"
	"strings"

	app "github.com/natigahub/natiga/internal/app"
)

// SearchHandler handles search requests.
type SearchHandler struct {
	deps Dependencies
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(deps Dependencies) *SearchHandler {
	return &SearchHandler{deps: deps}
}

// HandleSearch routes GET /search?name=<term> to the synchronous pipeline
// and POST /search to the state machine.
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r)
	case http.MethodPost:
		h.handlePost(w, r)
	default:
		http.NotFound(w, r)
	}
}

// handleGet runs one lookup synchronously and maps the error taxonomy:
// validation failures are 422 with the literal message, store faults 502.
func (h *SearchHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_search"

	term := r.URL.Query().Get("name")
	if strings.TrimSpace(term) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrMissingTerm))
		return
	}

	out, err := h.deps.Search(r.Context(), term)
	if err != nil {
		switch errorKind(err) {
		case "validation":
			writeError(w, http.StatusUnprocessableEntity, "validation", err)
		case "store":
			writeError(w, http.StatusBadGateway, "store_error", Wrap(op, err))
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		}
		return
	}

	resp := searchResponse{Found: out.Found}
	if out.Found {
		rec := out.Result.ResultRecord
		resp.Record = &rec
		resp.ComputedRank = out.Result.ComputedRank
	}
	writeJSON(w, http.StatusOK, resp)
}

// handlePost submits a term to the state machine and acknowledges the
// transition; the outcome is observed via GET /search/state.
func (h *SearchHandler) handlePost(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_search"

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	snap := h.deps.Submit(r.Context(), req.Name, req.Requested)
	status := http.StatusOK
	if snap.State == app.StateSearching {
		status = http.StatusAccepted
	}
	writeJSON(w, status, snapshotResponse(snap))
}
