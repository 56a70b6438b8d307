// Package app wires the search pipeline behind a re-entrant state machine.
//
// Each submitted term runs at most one pipeline: normalize, match, rank.
// Store calls inside a pipeline are sequential, never fanned out. A term
// submitted while an earlier pipeline is in flight supersedes it; the stale
// completion is dropped so it can never overwrite state for a newer term.
package app

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	repository "github.com/natigahub/natiga/internal/adapters/repository"
	"github.com/natigahub/natiga/internal/domain/match"
	"github.com/natigahub/natiga/internal/domain/model"
	"github.com/natigahub/natiga/internal/domain/query"
	"github.com/natigahub/natiga/internal/domain/rank"
	"github.com/natigahub/natiga/pkg/logger"
	"github.com/natigahub/natiga/pkg/metrics"
)

// defaultSearchTimeout bounds one pipeline end to end. The lookup behavior
// itself specifies no timeout; this is a defensive cap.
const defaultSearchTimeout = 5 * time.Second

// Service implements the search orchestrator over a record store.
type Service struct {
	mu sync.RWMutex

	// Core components
	store   repository.Store
	matcher *match.Matcher
	ranker  *rank.Calculator
	group   singleflight.Group

	// Configuration
	timeout time.Duration

	// State machine
	gen  uint64
	snap Snapshot

	// Runner plumbing: a latest-wins mailbox consumed by one goroutine.
	mailbox chan submission
	started bool
	stopCh  chan struct{}
	done    chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithSearchTimeout caps the duration of one search pipeline.
func WithSearchTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// New constructs a Service over store with default configuration.
func New(store repository.Store, opts ...Option) *Service {
	s := &Service{
		store:   store,
		timeout: defaultSearchTimeout,
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
		mailbox: make(chan submission, 1),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the pipeline components and the runner goroutine.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.matcher = match.New(s.store, match.WithLogger(s.logger.Named("match")))
	s.ranker = rank.New(s.store, rank.WithLogger(s.logger.Named("rank")))
	s.snap = Snapshot{State: StateIdle}

	go s.run(ctx)

	s.started = true
	s.logger.Info(ctx, "lookup service started",
		logger.Duration("searchTimeout", s.timeout),
		logger.Int("records", s.store.Count(ctx)),
	)

	return nil
}

// Stop shuts down the runner goroutine and waits for it to finish.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	s.mu.Unlock()

	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}
	<-s.done

	s.logger.Info(context.Background(), "lookup service stopped")
}

// Submit feeds the state machine. Only a non-empty term with the requested
// flag set transitions Idle -> Searching; requested=false is "still typing"
// and leaves the machine where it is. A term failing validation moves the
// machine to Failed immediately, with zero store calls.
//
// The returned Snapshot reflects the machine right after the transition.
func (s *Service) Submit(ctx context.Context, term string, requested bool) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started || !requested || strings.TrimSpace(term) == "" {
		return s.snap
	}

	s.gen++
	sub := submission{
		term:    query.CleanTerm(term),
		gen:     s.gen,
		traceID: uuid.NewString(),
	}

	if _, err := query.Normalize(term); err != nil {
		metrics.RecordSearch(metrics.OutcomeValidation)
		s.snap = Snapshot{State: StateFailed, Term: sub.term, Generation: sub.gen, TraceID: sub.traceID, Err: err}
		return s.snap
	}

	s.snap = Snapshot{State: StateSearching, Term: sub.term, Generation: sub.gen, TraceID: sub.traceID}

	// Latest-wins mailbox: replace a pending submission rather than queue
	// behind it. Only the runner consumes, so the second send cannot block.
	select {
	case s.mailbox <- sub:
	default:
		select {
		case <-s.mailbox:
		default:
		}
		s.mailbox <- sub
	}

	s.logger.Debug(ctx, "search submitted",
		logger.String("term", sub.term),
		logger.Uint64("generation", sub.gen),
		logger.String("traceID", sub.traceID),
	)

	return s.snap
}

// Search runs one pipeline synchronously and returns its outcome. It shares
// the matcher and calculator with the state machine but does not move it.
func (s *Service) Search(ctx context.Context, term string) (Outcome, error) {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.pipeline(cctx, term)
}

// Snapshot returns the current state machine view.
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":    s.started,
		"state":      string(s.snap.State),
		"generation": s.gen,
	}
	if s.started {
		count := s.store.Count(context.Background())
		stats["records"] = count
		metrics.UpdateRecordCount(count)
	}
	return stats
}

// run is the single pipeline consumer.
func (s *Service) run(ctx context.Context) {
	defer close(s.done)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case sub := <-s.mailbox:
			cctx, cancel := context.WithTimeout(ctx, s.timeout)
			out, err := s.pipeline(cctx, sub.term)
			cancel()
			s.publish(ctx, sub, out, err)
		}
	}
}

// pipeline executes normalize -> match -> rank for one term. Identical
// concurrent terms collapse into a single store round-trip.
func (s *Service) pipeline(ctx context.Context, term string) (Outcome, error) {
	start := time.Now()
	defer func() {
		metrics.RecordSearchDuration(float64(time.Since(start).Milliseconds()))
	}()

	tokens, err := query.Normalize(term)
	if err != nil {
		metrics.RecordSearch(metrics.OutcomeValidation)
		return Outcome{}, err
	}

	key := strings.Join(tokens, " ")
	v, err, _ := s.group.Do(key, func() (any, error) {
		rec, err := s.matcher.FindBest(ctx, tokens)
		if err != nil {
			return Outcome{}, err
		}
		if rec == nil {
			return Outcome{}, nil
		}
		ranked := &model.RankedResult{
			ResultRecord: *rec,
			ComputedRank: s.ranker.Compute(ctx, *rec),
		}
		return Outcome{Found: true, Result: ranked}, nil
	})
	if err != nil {
		metrics.RecordSearch(metrics.OutcomeStoreError)
		return Outcome{}, err
	}

	out, _ := v.(Outcome)
	if out.Found {
		metrics.RecordSearch(metrics.OutcomeFound)
	} else {
		metrics.RecordSearch(metrics.OutcomeEmpty)
	}
	return out, nil
}

// publish moves the machine to a terminal state, unless a newer term was
// submitted while this pipeline ran. Stale completions are dropped.
func (s *Service) publish(ctx context.Context, sub submission, out Outcome, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sub.gen != s.gen {
		metrics.RecordSearchSuperseded()
		s.logger.Debug(ctx, "dropping superseded completion",
			logger.Uint64("generation", sub.gen),
			logger.Uint64("current", s.gen),
			logger.String("term", sub.term),
		)
		return
	}

	if err != nil {
		s.snap = Snapshot{State: StateFailed, Term: sub.term, Generation: sub.gen, TraceID: sub.traceID, Err: err}
		return
	}
	s.snap = Snapshot{
		State:      StateSucceeded,
		Term:       sub.term,
		Generation: sub.gen,
		TraceID:    sub.traceID,
		Found:      out.Found,
		Result:     out.Result,
	}
}
