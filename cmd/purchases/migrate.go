package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/seanloh/purchase-tracker/internal/config"
	"github.com/seanloh/purchase-tracker/internal/storage"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Initialize or upgrade the database schema",
		Long: `Initialize or update the database schema to the latest version.

This command ensures the local database has the purchases table and its
indexes before the first import.`,
		RunE: runMigrate,
	}

	cmd.Flags().Bool("status", false, "Show current schema version without applying changes")

	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	status, _ := cmd.Flags().GetBool("status")

	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		defaultPath, err := config.DefaultDatabasePath()
		if err != nil {
			return fmt.Errorf("failed to resolve database path: %w", err)
		}
		dbPath = defaultPath
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	if status {
		version, versionErr := store.SchemaVersion(cmd.Context())
		if versionErr != nil {
			return versionErr
		}
		fmt.Printf("Database: %s\nSchema version: %d (latest %d)\n",
			dbPath, version, storage.ExpectedSchemaVersion)
		return nil
	}

	slog.Info("Running database migration", "database", dbPath)
	if err := store.Migrate(cmd.Context()); err != nil {
		return err
	}

	fmt.Printf("Database ready at %s\n", dbPath)
	return nil
}
