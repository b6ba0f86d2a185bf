package worker

import (
	"accessgate/pkg/domain"
	"accessgate/pkg/logger"
	"accessgate/pkg/storage"
	"context"
	"fmt"
	"time"

	"github.com/riverqueue/river"
	"go.uber.org/zap"
)

// AccessEventArgs records one console session transition.
type AccessEventArgs struct {
	ActorUID   string                 `json:"actorUid"   river:"unique"`
	ActorEmail string                 `json:"actorEmail,omitempty"`
	EventKind  domain.AccessEventKind `json:"kind"       river:"unique"`
	OccurredAt time.Time              `json:"occurredAt" river:"unique"`
}

// Kind returns the River job kind used to register and dispatch the worker.
func (args AccessEventArgs) Kind() string { return "RecordAccessEventJob" }

// InsertOpts makes a transition enqueued twice (e.g. on a retried request)
// produce a single job.
func (args AccessEventArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		MaxAttempts: 10,
		UniqueOpts: river.UniqueOpts{
			ByArgs: true,
		},
	}
}

// AccessEventWorker stores access events.
type AccessEventWorker struct {
	river.WorkerDefaults[AccessEventArgs]

	storage storage.AccessEventStorage
}

// NewAccessEventWorker constructs an AccessEventWorker writing to strg.
func NewAccessEventWorker(strg storage.AccessEventStorage) *AccessEventWorker {
	return &AccessEventWorker{storage: strg}
}

// Work stores the event carried by job.
func (w *AccessEventWorker) Work(ctx context.Context, job *river.Job[AccessEventArgs]) error {
	ctx = logger.WithFields(ctx,
		zap.Int64("jobID", job.ID),
		zap.String("uid", job.Args.ActorUID),
		zap.String("kind", string(job.Args.EventKind)))

	switch job.Args.EventKind {
	case domain.AccessEventSignIn, domain.AccessEventSignOut:
	default:
		return river.JobCancel(fmt.Errorf("unknown access event kind %q", job.Args.EventKind)) //nolint: wrapcheck
	}

	_, err := w.storage.StoreAccessEvents(ctx, domain.AccessEvent{
		ActorUID:   job.Args.ActorUID,
		ActorEmail: job.Args.ActorEmail,
		Kind:       job.Args.EventKind,
		CreatedAt:  job.Args.OccurredAt,
	})
	if err != nil {
		logger.Error(ctx, "error in storing access event", zap.Error(err))

		return fmt.Errorf("could not store access event: %w", err)
	}

	logger.Debug(ctx, "access event stored")

	return nil
}
