package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/seanloh/purchase-tracker/internal/config"
	"github.com/seanloh/purchase-tracker/internal/storage"
)

// initStorage opens the database and brings its schema up to date. The
// caller owns the returned handle and must Close it.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		defaultPath, err := config.DefaultDatabasePath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve database path: %w", err)
		}
		dbPath = defaultPath
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}
