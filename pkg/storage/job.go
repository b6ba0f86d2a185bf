package storage

import (
	"context"

	"github.com/riverqueue/river"
)

// JobStorage defines the minimal interface for enqueueing background jobs.
// Implementations are responsible for persisting the job into the underlying
// queue backend. opts can be used to customize insertion (queue name, delay,
// priority, uniqueness).
//
// Example:
//
//	_, err := storage.AddJob(ctx, worker.AccessEventArgs{Kind: domain.AccessEventSignIn}, nil)
//	if err != nil { /* handle error */ }
type JobStorage interface {
	// AddJob enqueues a new job with the given arguments. It reports false when
	// the job was skipped as a duplicate of a unique job.
	AddJob(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (bool, error)
}
