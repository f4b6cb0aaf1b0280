package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/seanloh/purchase-tracker/internal/common"
	"github.com/seanloh/purchase-tracker/internal/ingest"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <csv-file>",
		Short: "Import purchases from a pipe-delimited CSV export",
		Long: `Import purchases from the pipe-delimited export format.

The export's rows are malformed: item names contain both commas and the
pipe delimiter, and price fields glue several numbers together. Rows that
cannot be recovered are logged and skipped; the batch never aborts.

Examples:
  # Import a file
  purchases import ~/Downloads/taobao-en-all.csv

  # Preview without writing to the database
  purchases import --dry-run ~/Downloads/taobao-en-all.csv

  # Override the CNY to SGD conversion rate for this run
  purchases import --rate 0.1850 ~/Downloads/taobao-en-all.csv`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "Recover and count records without saving")
	cmd.Flags().String("rate", "", "CNY to SGD conversion rate (default 0.1962)")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	rateFlag, _ := cmd.Flags().GetString("rate")

	opts := []ingest.Option{
		ingest.WithDryRun(dryRun),
		ingest.WithProgress(isatty.IsTerminal(os.Stderr.Fd())),
	}
	if rateFlag != "" {
		rate, err := decimal.NewFromString(rateFlag)
		if err != nil {
			return common.NewUserError(fmt.Sprintf("invalid rate %q", rateFlag), err)
		}
		opts = append(opts, ingest.WithRate(rate))
	}

	store, err := initStorage(cmd.Context())
	if err != nil {
		return common.NewUserError("failed to open the purchases database", err)
	}
	defer func() { _ = store.Close() }()

	importer := ingest.NewImporter(store, opts...)
	count, err := importer.ImportFile(cmd.Context(), args[0])
	if err != nil {
		return common.NewUserError("import failed", err)
	}

	if dryRun {
		fmt.Printf("Dry run: %d records would be imported from %s\n", count, args[0])
		return nil
	}
	fmt.Printf("Import completed. %d records imported successfully.\n", count)
	return nil
}
