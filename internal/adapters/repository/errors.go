package repository

import "errors"

// Sentinel kinds for record store errors.
var (
	ErrStore        = errors.New("record store query failed")
	ErrInvalidLimit = errors.New("invalid result limit")
)
