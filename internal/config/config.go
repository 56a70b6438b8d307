// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults and Load(ctx) to layer
//   file and environment overrides on top.
// - External errors must be wrapped via this package's error helpers.
package config

// Store backend names accepted by Config.Store.
const (
	StoreMemory    = "memory"
	StoreSQLite    = "sqlite"
	StorePostgrest = "postgrest"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Store selects the record store backend: memory, sqlite, or postgrest.
	Store string `koanf:"store"`

	// SQLitePath is the database file for the sqlite backend.
	SQLitePath string `koanf:"sqlite_path"`

	// PostgrestURL is the base URL of the PostgREST endpoint.
	PostgrestURL string `koanf:"postgrest_url"`

	// PostgrestKey is the API key sent with every PostgREST request.
	PostgrestKey string `koanf:"postgrest_key"`

	// PostgrestTable overrides the default results table name.
	PostgrestTable string `koanf:"postgrest_table"`

	// StoreRPS throttles outbound PostgREST queries.
	StoreRPS int `koanf:"store_rps"`

	// SearchTimeoutMS caps one search pipeline end to end.
	SearchTimeoutMS int `koanf:"search_timeout_ms"`

	// SeedCount sets how many fixture records the memory backend is
	// seeded with at startup.
	SeedCount int `koanf:"seed_count"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":9080",
		Store:           StoreMemory,
		SQLitePath:      "natiga.db",
		PostgrestTable:  "results",
		StoreRPS:        20,
		SearchTimeoutMS: 5_000,
		SeedCount:       10_000,
	}
}
