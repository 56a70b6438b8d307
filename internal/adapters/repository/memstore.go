package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/natigahub/natiga/internal/domain/model"
	"github.com/natigahub/natiga/pkg/metrics"
)

// MemoryStore is a slice-backed Store used for local runs and tests.
//
// Rows keep insertion order; that order is the store's natural order and is
// what equal-grade tie-breaking observes.
type MemoryStore struct {
	mu   sync.RWMutex
	rows []model.ResultRecord
}

// MemoryOption applies a configuration option to the MemoryStore.
type MemoryOption func(*MemoryStore)

// WithRecords pre-populates the store with rows in the given order.
func WithRecords(rows []model.ResultRecord) MemoryOption {
	return func(s *MemoryStore) {
		s.rows = append(s.rows, rows...)
	}
}

// NewMemoryStore creates an in-memory store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{}
	for _, opt := range opts {
		opt(s)
	}
	metrics.UpdateRecordCount(len(s.rows))
	return s
}

// Insert appends a row, preserving insertion order.
func (s *MemoryStore) Insert(_ context.Context, rec model.ResultRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, rec)
	metrics.UpdateRecordCount(len(s.rows))
	return nil
}

// FindByNamePattern returns up to limit rows whose name matches pattern.
func (s *MemoryStore) FindByNamePattern(_ context.Context, pattern string, limit int) ([]model.ResultRecord, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if limit < 1 {
		metrics.RecordStoreError("find_by_name_pattern")
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.ResultRecord
	for i := range s.rows {
		if likeMatch(s.rows[i].Name, pattern) {
			out = append(out, s.rows[i])
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

// ListGradedByCategory returns the graded rows of category sorted by grade
// descending. The sort is stable so equal grades keep insertion order.
func (s *MemoryStore) ListGradedByCategory(_ context.Context, category int64) ([]model.ResultRecord, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.ResultRecord
	for i := range s.rows {
		r := s.rows[i]
		if r.Category != nil && *r.Category == category && r.Grade != nil {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].Grade > *out[j].Grade
	})
	return out, nil
}

// Count returns the number of rows held by the store.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// likeMatch reports whether s matches a SQL LIKE pattern, case-insensitively.
// Only the '%' wildcard is supported; the store never issues '_' patterns.
func likeMatch(s, pattern string) bool {
	s = strings.ToLower(s)
	parts := strings.Split(strings.ToLower(pattern), "%")
	if len(parts) == 1 {
		return s == parts[0]
	}

	if !strings.HasPrefix(s, parts[0]) {
		return false
	}
	s = s[len(parts[0]):]

	last := parts[len(parts)-1]
	for _, p := range parts[1 : len(parts)-1] {
		if p == "" {
			continue
		}
		idx := strings.Index(s, p)
		if idx < 0 {
			return false
		}
		s = s[idx+len(p):]
	}
	return strings.HasSuffix(s, last)
}
