package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// SQLite driver registered for database/sql.
	_ "github.com/mattn/go-sqlite3"

	"github.com/natigahub/natiga/internal/domain/model"
	"github.com/natigahub/natiga/pkg/metrics"
)

const schema = `
CREATE TABLE IF NOT EXISTS results (
	seat_no     INTEGER PRIMARY KEY,
	name        TEXT NOT NULL,
	category    INTEGER,
	grade       REAL,
	stored_rank INTEGER
);
CREATE INDEX IF NOT EXISTS idx_results_category_grade ON results (category, grade DESC);
`

// SQLStore implements Store on an embedded SQLite database.
//
// Natural order is seat_no ascending (the rowid), which stands in for
// insertion order in pattern lookups and equal-grade tie-breaking.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore opens (or creates) the database at dsn and bootstraps the
// results schema.
func NewSQLStore(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open %q: %w", ErrStore, dsn, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping: %w", ErrStore, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: bootstrap schema: %w", ErrStore, err)
	}
	return &SQLStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Insert adds a single result row.
func (s *SQLStore) Insert(ctx context.Context, rec model.ResultRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO results (seat_no, name, category, grade, stored_rank) VALUES (?, ?, ?, ?, ?)`,
		rec.SeatNo, rec.Name, nullableInt64(rec.Category), nullableFloat64(rec.Grade), nullableInt64(rec.StoredRank),
	)
	if err != nil {
		metrics.RecordStoreError("insert")
		return fmt.Errorf("%w: insert seat %d: %w", ErrStore, rec.SeatNo, err)
	}
	return nil
}

// FindByNamePattern returns up to limit rows matching pattern in seat order.
func (s *SQLStore) FindByNamePattern(ctx context.Context, pattern string, limit int) ([]model.ResultRecord, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if limit < 1 {
		metrics.RecordStoreError("find_by_name_pattern")
		return nil, ErrInvalidLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT seat_no, name, category, grade, stored_rank
		   FROM results
		  WHERE LOWER(name) LIKE LOWER(?)
		  ORDER BY seat_no ASC
		  LIMIT ?`,
		pattern, limit,
	)
	if err != nil {
		metrics.RecordStoreError("find_by_name_pattern")
		return nil, fmt.Errorf("%w: name pattern query: %w", ErrStore, err)
	}
	defer rows.Close()

	return scanRecords(rows, "find_by_name_pattern")
}

// ListGradedByCategory returns graded rows of category, grade descending.
func (s *SQLStore) ListGradedByCategory(ctx context.Context, category int64) ([]model.ResultRecord, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	rows, err := s.db.QueryContext(ctx,
		`SELECT seat_no, name, category, grade, stored_rank
		   FROM results
		  WHERE category = ? AND grade IS NOT NULL
		  ORDER BY grade DESC, seat_no ASC`,
		category,
	)
	if err != nil {
		metrics.RecordStoreError("list_graded_by_category")
		return nil, fmt.Errorf("%w: graded category query: %w", ErrStore, err)
	}
	defer rows.Close()

	return scanRecords(rows, "list_graded_by_category")
}

// Count returns the number of rows in the results table, 0 on failure.
func (s *SQLStore) Count(ctx context.Context) int {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM results`).Scan(&n); err != nil {
		metrics.RecordStoreError("count")
		return 0
	}
	metrics.UpdateRecordCount(n)
	return n
}

func scanRecords(rows *sql.Rows, op string) ([]model.ResultRecord, error) {
	var out []model.ResultRecord
	for rows.Next() {
		var (
			rec        model.ResultRecord
			category   sql.NullInt64
			grade      sql.NullFloat64
			storedRank sql.NullInt64
		)
		if err := rows.Scan(&rec.SeatNo, &rec.Name, &category, &grade, &storedRank); err != nil {
			metrics.RecordStoreError(op)
			return nil, fmt.Errorf("%w: scan row: %w", ErrStore, err)
		}
		if category.Valid {
			rec.Category = &category.Int64
		}
		if grade.Valid {
			rec.Grade = &grade.Float64
		}
		if storedRank.Valid {
			rec.StoredRank = &storedRank.Int64
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		metrics.RecordStoreError(op)
		return nil, fmt.Errorf("%w: iterate rows: %w", ErrStore, err)
	}
	return out, nil
}

func nullableInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableFloat64(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
