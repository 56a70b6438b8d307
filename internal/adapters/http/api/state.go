package api

import (
	"net/http"

	app "github.com/natigahub/natiga/internal/app"
)

// StateHandler exposes the search state machine.
type StateHandler struct {
	deps Dependencies
}

// NewStateHandler creates a new state handler.
func NewStateHandler(deps Dependencies) *StateHandler {
	return &StateHandler{deps: deps}
}

// HandleGetState handles GET /search/state requests.
func (h *StateHandler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, snapshotResponse(h.deps.Snapshot()))
}

// snapshotResponse converts a state machine snapshot to its wire shape.
func snapshotResponse(snap app.Snapshot) stateResponse {
	resp := stateResponse{
		State:      string(snap.State),
		Term:       snap.Term,
		Generation: snap.Generation,
		TraceID:    snap.TraceID,
		Found:      snap.Found,
	}
	if snap.Result != nil {
		rec := snap.Result.ResultRecord
		resp.Record = &rec
		resp.ComputedRank = snap.Result.ComputedRank
	}
	if snap.Err != nil {
		resp.Error = snap.Err.Error()
		resp.ErrorKind = errorKind(snap.Err)
	}
	return resp
}
