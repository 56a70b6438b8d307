// Package rank computes a record's 1-based position among the graded peers
// of its category.
package rank

import (
	"context"

	repository "github.com/natigahub/natiga/internal/adapters/repository"
	"github.com/natigahub/natiga/internal/domain/model"
	"github.com/natigahub/natiga/pkg/logger"
	"github.com/natigahub/natiga/pkg/metrics"
)

// Calculator derives category ranks from the record store.
type Calculator struct {
	store repository.Store
	log   logger.Logger
}

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithLogger sets a custom logger for the calculator.
func WithLogger(log logger.Logger) Option {
	return func(c *Calculator) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a Calculator over store.
func New(store repository.Store, opts ...Option) *Calculator {
	c := &Calculator{
		store: store,
		log:   logger.Named("rank"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compute returns rec's 1-based rank within its category, scanning the
// grade-descending listing for the first row with an exactly equal name.
// Equal-name ties resolve first-match-wins in store order.
//
// Rank is best effort: a nil category or grade, a missing equal-name entry,
// or a store fault all yield nil. Faults are logged and counted but never
// propagate; a missing rank must not block displaying the base result.
func (c *Calculator) Compute(ctx context.Context, rec model.ResultRecord) *int {
	if !rec.Graded() {
		return nil
	}

	rows, err := c.store.ListGradedByCategory(ctx, *rec.Category)
	if err != nil {
		metrics.RecordRankDegraded()
		c.log.Warn(ctx, "rank lookup degraded to absent rank",
			logger.Int64("category", *rec.Category),
			logger.Error(err),
		)
		return nil
	}

	for i := range rows {
		if rows[i].Name == rec.Name {
			r := i + 1
			return &r
		}
	}
	// The record came from the store, so this only happens under concurrent
	// mutation or duplicate-name collisions.
	return nil
}
