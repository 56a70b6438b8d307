// Package model contains domain records passed between layers.
package model

// ResultRecord is a single exam result row as retrieved from the record
// store. Identity is SeatNo. Rows are immutable once fetched; this service
// never mutates or deletes them.
type ResultRecord struct {
	Name       string   `json:"name"`
	SeatNo     int64    `json:"seat_no"`
	Category   *int64   `json:"category,omitempty"`
	Grade      *float64 `json:"grade,omitempty"`
	StoredRank *int64   `json:"stored_rank,omitempty"`
}

// Graded reports whether the record can participate in rank computation.
// Rank is undefined for records missing a category or a grade.
func (r ResultRecord) Graded() bool {
	return r.Category != nil && r.Grade != nil
}

// RankedResult is a ResultRecord plus its derived category rank.
// ComputedRank is the 1-based position of the record's grade within the
// descending-sorted, non-null-grade subset of its category. It is computed
// per lookup and never persisted.
type RankedResult struct {
	ResultRecord
	ComputedRank *int `json:"computed_rank,omitempty"`
}

// IntPtr, Int64Ptr and Float64Ptr are small helpers for building records
// with optional fields, used by fixtures and tests.
func IntPtr(v int) *int             { return &v }
func Int64Ptr(v int64) *int64       { return &v }
func Float64Ptr(v float64) *float64 { return &v }
