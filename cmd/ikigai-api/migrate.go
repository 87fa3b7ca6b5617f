// cmd/ikigai-api/migrate.go
package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long: `Creates the ikigai_responses, ikigai_reports, ikigai_analytics and
resumes tables with their indexes and row-level security policies. Safe to
run repeatedly.`,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	pg, store, err := connectPostgres(ctx)
	if err != nil {
		zapLog.Error("postgres failed after retries", zap.Error(err))
		return err
	}
	defer pg.Close()

	if err := store.Migrate(ctx); err != nil {
		zapLog.Error("migration failed", zap.Error(err))
		return err
	}
	zapLog.Info("schema applied")
	return nil
}
