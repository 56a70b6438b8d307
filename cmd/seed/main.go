// Command seed populates a sqlite results database with a deterministic
// fixture corpus so the service can be exercised against the sqlite backend.
package main

import (
	"context"
	"flag"
	"os"
	"strconv"
	"time"

	repository "github.com/natigahub/natiga/internal/adapters/repository"
	"github.com/natigahub/natiga/internal/fixtures"
	"github.com/natigahub/natiga/pkg/logger"
)

// Default configuration constants.
const (
	defaultCount   = 10_000
	defaultSeed    = 20260801
	defaultPath    = "natiga.db"
	defaultTimeout = 2 * time.Minute
)

func main() {
	var (
		path  = flag.String("db", defaultPath, "Path of the sqlite database to seed")
		count = flag.Int("count", defaultCount, "Number of fixture records to insert")
		seed  = flag.Int64("seed", defaultSeed, "Seed for the fixture generator")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	store, err := repository.NewSQLStore(ctx, *path)
	if err != nil {
		log.Error(ctx, "failed to open sqlite store", logger.String("db", *path), logger.Error(err))
		return
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error(ctx, "failed to close sqlite store", logger.Error(err))
		}
	}()

	records := fixtures.Generate(*seed, *count)
	for i, rec := range records {
		if err := store.Insert(ctx, rec); err != nil {
			log.Error(ctx, "insert failed",
				logger.String("record", strconv.Itoa(i)),
				logger.Int64("seatNo", rec.SeatNo),
				logger.Error(err),
			)
			return
		}
	}

	log.Info(ctx, "database seeded",
		logger.String("db", *path),
		logger.Int("records", len(records)),
	)
}
