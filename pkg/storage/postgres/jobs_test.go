package postgres_test

import (
	"accessgate/pkg/storage/postgres"
	"context"
	"database/sql"
	"testing"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverdatabasesql"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/riverqueue/river/rivertest"
	"github.com/stretchr/testify/require"
)

type recordArgs struct {
	UID string `json:"uid" river:"unique"`
}

func (recordArgs) Kind() string { return "record" }

func migrateQueue(t *testing.T, pg *postgres.PgSQL) *sql.DB {
	t.Helper()

	db, ok := pg.DB.(*sql.DB)
	require.True(t, ok)

	migrator, err := rivermigrate.New(riverdatabasesql.New(db), nil)
	require.NoError(t, err)
	all := migrator.AllVersions()
	_, err = migrator.Migrate(t.Context(), rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{
		TargetVersion: all[len(all)-1].Version,
	})
	require.NoError(t, err)

	return db
}

func TestPgSQL_AddJob(t *testing.T) {
	t.Parallel()

	pg, cleanup := setupTestDB(t)
	t.Cleanup(cleanup)
	db := migrateQueue(t, pg)

	ctx := context.Background()
	opts := &river.InsertOpts{UniqueOpts: river.UniqueOpts{ByArgs: true}}

	inserted, err := pg.AddJob(ctx, recordArgs{UID: "u1"}, opts)
	require.NoError(t, err)
	require.True(t, inserted)
	rivertest.RequireInserted[*riverdatabasesql.Driver](ctx, t, riverdatabasesql.New(db), &recordArgs{}, nil)

	// same unique args
	inserted, err = pg.AddJob(ctx, recordArgs{UID: "u1"}, opts)
	require.NoError(t, err)
	require.False(t, inserted)

	inserted, err = pg.AddJob(ctx, recordArgs{UID: "u2"}, opts)
	require.NoError(t, err)
	require.True(t, inserted)
}

func TestPgSQL_AddJob_RequiresSQLDB(t *testing.T) {
	t.Parallel()

	pg := &postgres.PgSQL{}
	_, err := pg.AddJob(context.Background(), recordArgs{}, nil)
	require.Error(t, err)
}
