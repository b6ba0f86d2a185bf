// Package worker runs the River job client that processes background jobs
// enqueued by the console.
package worker

import (
	"accessgate/pkg/logger"
	"accessgate/pkg/storage"
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
)

// Options configures the job client.
type Options struct {
	// MaxWorkers is the number of jobs worked concurrently on the default queue.
	MaxWorkers int
}

// Start registers the console workers and starts a River client on dbPool.
// The caller stops it with Stop.
func Start(ctx context.Context,
	dbPool *pgxpool.Pool,
	strg storage.AccessEventStorage,
	opts Options) (*river.Client[pgx.Tx], error) {
	workers := river.NewWorkers()
	river.AddWorker(workers, NewAccessEventWorker(strg))

	riverClient, err := river.NewClient(riverpgxv5.New(dbPool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: opts.MaxWorkers},
		},
		Workers: workers,
		Logger:  logger.Slog(ctx),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create river queue client: %w", err)
	}

	if err := riverClient.Start(ctx); err != nil {
		return nil, fmt.Errorf("could not start river queue client: %w", err)
	}

	return riverClient, nil
}
