package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/seanloh/purchase-tracker/internal/api"
	"github.com/seanloh/purchase-tracker/internal/common"
	"github.com/seanloh/purchase-tracker/internal/ingest"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the purchase query API over HTTP",
		Long: `Start the HTTP server exposing the purchase data.

Endpoints:
  GET  /health
  GET  /api/purchases            list with ?limit, ?offset, ?search, ?from/?to
  GET  /api/purchases/:id        single purchase
  GET  /api/purchases/stats/summary
  POST /api/purchases/import     {"path": "/path/to/export.csv"}`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", ":8000", "listen address")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	store, err := initStorage(cmd.Context())
	if err != nil {
		return common.NewUserError("failed to open the purchases database", err)
	}
	defer func() { _ = store.Close() }()

	server := api.NewServer(store, ingest.NewImporter(store))

	// Stop the listener when the root context is cancelled by a signal.
	go func() {
		<-cmd.Context().Done()
		if shutdownErr := server.Shutdown(); shutdownErr != nil {
			slog.Error("Failed to shut down server", "error", shutdownErr)
		}
	}()

	addr := viper.GetString("server.addr")
	slog.Info("Serving purchase API", "addr", addr)
	return server.Listen(addr)
}
