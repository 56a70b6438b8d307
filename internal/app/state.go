package app

import "github.com/natigahub/natiga/internal/domain/model"

// State names the phases of the search cycle. The machine is re-entrant:
// every submitted term restarts the cycle, and a terminal state is simply
// re-entered on the next submission.
type State string

// Search states.
const (
	StateIdle      State = "idle"
	StateSearching State = "searching"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// Outcome is the final product of one search pipeline.
type Outcome struct {
	// Found reports whether the matcher resolved a row. An empty match is a
	// successful outcome, not an error.
	Found bool
	// Result carries the matched record with its computed rank when Found.
	Result *model.RankedResult
}

// Snapshot is a point-in-time view of the orchestrator.
type Snapshot struct {
	State      State
	Term       string
	Generation uint64
	TraceID    string
	Found      bool
	Result     *model.RankedResult
	Err        error
}

// submission is one term moving through the pipeline. The generation orders
// submissions so stale completions can be recognized and dropped.
type submission struct {
	term    string
	gen     uint64
	traceID string
}
