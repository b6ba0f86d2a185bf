package main

import (
	root "accessgate"
	"accessgate/internal/config"
	"accessgate/pkg/logger"
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/riverqueue/river/riverdriver/riverdatabasesql"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateSchema applies the console tables (QR codes, access events).
func migrateSchema(db *sql.DB) error {
	goose.SetBaseFS(root.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("could not set goose dialect to postgres: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("could not migrate console tables: %w", err)
	}

	return nil
}

// migrateQueue brings the river queue tables to the latest version.
func migrateQueue(ctx context.Context, db *sql.DB) error {
	migrator, err := rivermigrate.New(riverdatabasesql.New(db), nil)
	if err != nil {
		return fmt.Errorf("could not create river queue migrator: %w", err)
	}

	all := migrator.AllVersions()
	latest := all[len(all)-1].Version

	existing, err := migrator.ExistingVersions(ctx)
	if err != nil {
		return fmt.Errorf("could not get existing river queue migrations: %w", err)
	}
	current := 0
	if len(existing) > 0 {
		current = existing[len(existing)-1].Version
	}
	if latest <= current {
		logger.Info(ctx, "river queue schema is up to date", zap.Int("version", current))

		return nil
	}

	_, err = migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{
		TargetVersion: latest,
	})
	if err != nil {
		return fmt.Errorf("could not migrate river queue database: %w", err)
	}
	logger.Info(ctx, "river queue schema migrated", zap.Int("from", current), zap.Int("to", latest))

	return nil
}

// migrateCommand constructs the 'migrate' subcommand that applies the console
// schema with goose and, unless disabled, the river queue schema.
func migrateCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrates database to the latest version",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			withQueue, _ := cmd.Flags().GetBool("queue")

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			db, ok := strg.DB.(*sql.DB)
			if !ok {
				logger.Fatal(ctx, "postgres storage is not backed by *sql.DB")
			}

			if err := migrateSchema(db); err != nil {
				logger.Fatal(ctx, "could not migrate pgsql", zap.Error(err))
			}
			if !withQueue {
				return
			}
			if err := migrateQueue(ctx, db); err != nil {
				logger.Fatal(ctx, "could not migrate river queue", zap.Error(err))
			}
		},
	}

	cmd.Flags().Bool("queue", true, "Also migrate the background job queue tables")

	return cmd
}
