// Package match implements the two-phase name lookup over the record store.
//
// Phase A matches the whole cleaned term as a case-insensitive substring.
// Phase B, tried only when Phase A is empty and the term has more than one
// token, joins the tokens with wildcards so extra or different separators
// between name parts (middle names, double spacing) still find a row. Both
// phases return at most one row; an ambiguous list is never produced.
package match

import (
	"context"
	"strings"

	repository "github.com/natigahub/natiga/internal/adapters/repository"
	"github.com/natigahub/natiga/internal/domain/model"
	"github.com/natigahub/natiga/pkg/logger"
	"github.com/natigahub/natiga/pkg/metrics"
)

// Matcher resolves normalized name tokens to at most one result row.
type Matcher struct {
	store repository.Store
	log   logger.Logger
}

// Option applies a configuration option to the Matcher.
type Option func(*Matcher)

// WithLogger sets a custom logger for the matcher.
func WithLogger(log logger.Logger) Option {
	return func(m *Matcher) {
		if log != nil {
			m.log = log
		}
	}
}

// New creates a Matcher over store.
func New(store repository.Store, opts ...Option) *Matcher {
	m := &Matcher{
		store: store,
		log:   logger.Named("match"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FindBest returns the single best row for tokens, or nil when nothing
// matches. An empty match is not an error; store faults propagate.
func (m *Matcher) FindBest(ctx context.Context, tokens []string) (*model.ResultRecord, error) {
	cleaned := strings.Join(tokens, " ")

	rows, err := m.store.FindByNamePattern(ctx, "%"+cleaned+"%", 1)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 && strings.Contains(cleaned, " ") {
		pattern := "%" + strings.Join(tokens, "%") + "%"
		metrics.RecordMatchFallback()
		m.log.Debug(ctx, "exact substring missed, trying wildcard join",
			logger.String("term", cleaned),
			logger.String("pattern", pattern),
		)
		rows, err = m.store.FindByNamePattern(ctx, pattern, 1)
		if err != nil {
			return nil, err
		}
	}

	if len(rows) == 0 {
		return nil, nil
	}
	rec := rows[0]
	return &rec, nil
}
