package main

import (
	"github.com/spf13/cobra"

	"github.com/seanloh/purchase-tracker/internal/common"
	"github.com/seanloh/purchase-tracker/internal/dashboard"
)

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Browse purchases in a terminal dashboard",
		Long: `Open a read-only terminal dashboard over the purchase database:
summary statistics, a scrollable purchase table, item search, and a
CNY/SGD display toggle.`,
		RunE: runDashboard,
	}
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	store, err := initStorage(cmd.Context())
	if err != nil {
		return common.NewUserError("failed to open the purchases database", err)
	}
	defer func() { _ = store.Close() }()

	return dashboard.Run(store)
}
