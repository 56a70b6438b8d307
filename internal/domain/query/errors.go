package query

import "errors"

// ErrTooFewTokens is the validation sentinel for unsearchable terms. The
// message is literal and stable so callers can surface it verbatim.
var ErrTooFewTokens = errors.New("at least two name tokens required")
