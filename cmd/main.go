package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/natigahub/natiga/internal/adapters/http/api"
	repository "github.com/natigahub/natiga/internal/adapters/repository"
	app "github.com/natigahub/natiga/internal/app"
	"github.com/natigahub/natiga/internal/config"
	"github.com/natigahub/natiga/internal/fixtures"
	"github.com/natigahub/natiga/pkg/logger"
	"github.com/natigahub/natiga/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 10 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	systemMetricsInterval  = 10 * time.Second
	serviceMetricsInterval = 5 * time.Second

	fixtureSeed = 20260801
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Build the configured record store backend.
	store, cleanup, err := buildStore(ctx, cfg)
	if err != nil {
		loggerInstance.Error(ctx, "failed to build record store", logger.Error(err))
		return
	}
	if cleanup != nil {
		defer cleanup()
	}

	// Create and start the service with configuration options
	svc := app.New(store,
		app.WithLogger(loggerInstance),
		app.WithSearchTimeout(time.Duration(cfg.SearchTimeoutMS)*time.Millisecond),
	)
	if err := svc.Start(ctx); err != nil {
		loggerInstance.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// Start service metrics updater
	go startServiceMetricsUpdater(ctx, svc)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// Register business API routes with the service dependency.
	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// buildStore constructs the record store named by cfg.Store. The memory
// backend is seeded with a deterministic fixture corpus so the service is
// searchable out of the box.
func buildStore(ctx context.Context, cfg *config.Config) (repository.Store, func(), error) {
	log := logger.Get()

	switch cfg.Store {
	case config.StoreSQLite:
		store, err := repository.NewSQLStore(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		log.Info(ctx, "using sqlite store", logger.String("path", cfg.SQLitePath))
		return store, func() { _ = store.Close() }, nil

	case config.StorePostgrest:
		opts := []repository.PostgrestOption{
			repository.WithTable(cfg.PostgrestTable),
			repository.WithRateLimit(float64(cfg.StoreRPS)),
		}
		if cfg.PostgrestKey != "" {
			opts = append(opts, repository.WithAPIKey(cfg.PostgrestKey))
		}
		store := repository.NewPostgrestStore(cfg.PostgrestURL, opts...)
		log.Info(ctx, "using postgrest store",
			logger.String("url", cfg.PostgrestURL),
			logger.String("table", cfg.PostgrestTable),
			logger.Int("rps", cfg.StoreRPS),
		)
		return store, nil, nil

	default:
		store := repository.NewMemoryStore(
			repository.WithRecords(fixtures.Generate(fixtureSeed, cfg.SeedCount)),
		)
		log.Info(ctx, "using seeded memory store", logger.Int("records", cfg.SeedCount))
		return store, nil, nil
	}
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater starts a background goroutine that refreshes
// service-level gauges; GetStats updates the record count as a side effect.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = svc.GetStats()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateMemoryUsage(m.Alloc)
	metrics.UpdateGoroutineCount(runtime.NumGoroutine())
}
