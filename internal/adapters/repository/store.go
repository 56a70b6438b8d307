// Package repository defines the record store port and its adapters.
package repository

import (
	"context"

	"github.com/natigahub/natiga/internal/domain/model"
)

// Store provides read access to exam result rows.
//
// Pattern arguments use SQL LIKE semantics ('%' matches any run of
// characters) and every adapter matches them case-insensitively.
type Store interface {
	// FindByNamePattern returns up to limit rows whose name matches pattern,
	// in the store's natural order.
	FindByNamePattern(ctx context.Context, pattern string, limit int) ([]model.ResultRecord, error)

	// ListGradedByCategory returns every row in category with a non-null
	// grade, ordered by grade descending. Order among equal grades is the
	// store's natural order; rank computation observes it for tie-breaking.
	ListGradedByCategory(ctx context.Context, category int64) ([]model.ResultRecord, error)

	// Count returns the number of rows visible in the store.
	Count(ctx context.Context) int
}

// Writer is implemented by adapters that can be seeded with rows.
type Writer interface {
	Insert(ctx context.Context, rec model.ResultRecord) error
}
