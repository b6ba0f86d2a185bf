package worker_test

import (
	"accessgate/internal/worker"
	"accessgate/pkg/domain"
	"accessgate/pkg/logger"
	mockstorage "accessgate/pkg/storage/mock"
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	logger.Setup(logger.DevelopmentEnvironment)
	os.Exit(m.Run())
}

func makeJob(id int64, args worker.AccessEventArgs) *river.Job[worker.AccessEventArgs] {
	return &river.Job[worker.AccessEventArgs]{
		JobRow: &rivertype.JobRow{ID: id},
		Args:   args,
	}
}

func TestAccessEventWorker_Work_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	at := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	strg := mockstorage.NewMockAllStorage(ctrl)
	strg.EXPECT().StoreAccessEvents(gomock.Any(), domain.AccessEvent{
		ActorUID:   "u1",
		ActorEmail: "guard@example.com",
		Kind:       domain.AccessEventSignIn,
		CreatedAt:  at,
	}).Return(nil, nil)

	w := worker.NewAccessEventWorker(strg)
	require.NoError(t, w.Work(context.Background(), makeJob(1, worker.AccessEventArgs{
		ActorUID:   "u1",
		ActorEmail: "guard@example.com",
		EventKind:  domain.AccessEventSignIn,
		OccurredAt: at,
	})))
}

func TestAccessEventWorker_Work_StorageErrorRetries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	strg := mockstorage.NewMockAllStorage(ctrl)
	strg.EXPECT().StoreAccessEvents(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection reset"))

	w := worker.NewAccessEventWorker(strg)
	err := w.Work(context.Background(), makeJob(2, worker.AccessEventArgs{
		ActorUID:  "u1",
		EventKind: domain.AccessEventSignOut,
	}))
	require.Error(t, err)
	var cancelErr *river.JobCancelError
	require.False(t, errors.As(err, &cancelErr))
}

func TestAccessEventWorker_Work_UnknownKindCancels(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	w := worker.NewAccessEventWorker(mockstorage.NewMockAllStorage(ctrl))
	err := w.Work(context.Background(), makeJob(3, worker.AccessEventArgs{ActorUID: "u1", EventKind: "OPEN_GATE"}))
	require.Error(t, err)
	var cancelErr *river.JobCancelError
	require.ErrorAs(t, err, &cancelErr)
}

func TestAccessEventArgs(t *testing.T) {
	args := worker.AccessEventArgs{}
	require.Equal(t, "RecordAccessEventJob", args.Kind())
	opts := args.InsertOpts()
	require.True(t, opts.UniqueOpts.ByArgs)
	require.Equal(t, 10, opts.MaxAttempts)
}
