package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/natigahub/natiga/internal/domain/model"
	"github.com/natigahub/natiga/pkg/metrics"
)

// Default PostgREST client configuration constants.
const (
	defaultPostgrestTable   = "results"
	defaultPostgrestTimeout = 10 * time.Second
	defaultPostgrestRPS     = 20
	defaultPostgrestBurst   = 5
	selectColumns           = "name,seat_no,category,grade,stored_rank"
)

// PostgrestStore implements Store against a PostgREST-compatible hosted
// collection (the spec's external record store). Only the filter/sort
// surface the service needs is encoded: ilike name filters with a row limit,
// and category equality with a not-null grade filter ordered grade.desc.
type PostgrestStore struct {
	baseURL string
	table   string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
}

// PostgrestOption applies a configuration option to the PostgrestStore.
type PostgrestOption func(*PostgrestStore)

// WithTable sets the collection name queried on the remote store.
func WithTable(table string) PostgrestOption {
	return func(s *PostgrestStore) {
		if table != "" {
			s.table = table
		}
	}
}

// WithAPIKey sets the apikey header sent on every request.
func WithAPIKey(key string) PostgrestOption {
	return func(s *PostgrestStore) {
		s.apiKey = key
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) PostgrestOption {
	return func(s *PostgrestStore) {
		if client != nil {
			s.client = client
		}
	}
}

// WithRateLimit caps outbound queries per second.
func WithRateLimit(rps float64) PostgrestOption {
	return func(s *PostgrestStore) {
		if rps > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(rps), defaultPostgrestBurst)
		}
	}
}

// NewPostgrestStore creates a client for the hosted record store at baseURL.
func NewPostgrestStore(baseURL string, opts ...PostgrestOption) *PostgrestStore {
	s := &PostgrestStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		table:   defaultPostgrestTable,
		client:  &http.Client{Timeout: defaultPostgrestTimeout},
		limiter: rate.NewLimiter(rate.Limit(defaultPostgrestRPS), defaultPostgrestBurst),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindByNamePattern returns up to limit rows whose name matches pattern.
// SQL LIKE wildcards translate to PostgREST's '*' before encoding.
func (s *PostgrestStore) FindByNamePattern(ctx context.Context, pattern string, limit int) ([]model.ResultRecord, error) {
	if limit < 1 {
		metrics.RecordStoreError("find_by_name_pattern")
		return nil, ErrInvalidLimit
	}

	params := url.Values{}
	params.Set("select", selectColumns)
	params.Set("name", "ilike."+strings.ReplaceAll(pattern, "%", "*"))
	params.Set("limit", strconv.Itoa(limit))

	return s.query(ctx, "find_by_name_pattern", params)
}

// ListGradedByCategory returns graded rows of category, grade descending.
func (s *PostgrestStore) ListGradedByCategory(ctx context.Context, category int64) ([]model.ResultRecord, error) {
	params := url.Values{}
	params.Set("select", selectColumns)
	params.Set("category", "eq."+strconv.FormatInt(category, 10))
	params.Set("grade", "not.is.null")
	params.Set("order", "grade.desc")

	return s.query(ctx, "list_graded_by_category", params)
}

// Count returns the remote row count via a HEAD request, 0 on failure.
func (s *PostgrestStore) Count(ctx context.Context) int {
	if err := s.limiter.Wait(ctx); err != nil {
		return 0
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.endpoint(), nil)
	if err != nil {
		return 0
	}
	s.decorate(req)
	req.Header.Set("Prefer", "count=exact")

	resp, err := s.client.Do(req)
	if err != nil {
		metrics.RecordStoreError("count")
		return 0
	}
	defer resp.Body.Close()

	// Content-Range: 0-24/3573 — the total follows the slash.
	cr := resp.Header.Get("Content-Range")
	idx := strings.LastIndex(cr, "/")
	if idx < 0 {
		return 0
	}
	n, err := strconv.Atoi(cr[idx+1:])
	if err != nil {
		return 0
	}
	metrics.UpdateRecordCount(n)
	return n
}

func (s *PostgrestStore) query(ctx context.Context, op string, params url.Values) ([]model.ResultRecord, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if err := s.limiter.Wait(ctx); err != nil {
		metrics.RecordStoreError(op)
		return nil, fmt.Errorf("%w: rate limit wait: %w", ErrStore, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint()+"?"+params.Encode(), nil)
	if err != nil {
		metrics.RecordStoreError(op)
		return nil, fmt.Errorf("%w: build request: %w", ErrStore, err)
	}
	s.decorate(req)

	resp, err := s.client.Do(req)
	if err != nil {
		metrics.RecordStoreError(op)
		return nil, fmt.Errorf("%w: %s: %w", ErrStore, op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		metrics.RecordStoreError(op)
		return nil, fmt.Errorf("%w: %s: unexpected status %d", ErrStore, op, resp.StatusCode)
	}

	var out []model.ResultRecord
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		metrics.RecordStoreError(op)
		return nil, fmt.Errorf("%w: decode rows: %w", ErrStore, err)
	}
	return out, nil
}

func (s *PostgrestStore) endpoint() string {
	return s.baseURL + "/" + s.table
}

func (s *PostgrestStore) decorate(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if s.apiKey != "" {
		req.Header.Set("apikey", s.apiKey)
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}
}
