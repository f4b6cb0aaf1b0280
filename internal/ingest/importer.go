package ingest

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"

	"github.com/seanloh/purchase-tracker/internal/common"
	"github.com/seanloh/purchase-tracker/internal/model"
)

// RecordWriter is the slice of the storage layer the importer needs.
type RecordWriter interface {
	SavePurchase(ctx context.Context, p *model.Purchase) (int64, error)
}

// Importer drives a whole-file import: row recovery, currency conversion
// and persistence. The store handle is provided and released by the
// caller; the importer holds no global state.
type Importer struct {
	store    RecordWriter
	rows     *RowParser
	rate     decimal.Decimal
	dryRun   bool
	progress bool
}

// Option configures an Importer.
type Option func(*Importer)

// WithRate overrides the CNY to SGD conversion rate for this run.
func WithRate(rate decimal.Decimal) Option {
	return func(imp *Importer) { imp.rate = rate }
}

// WithPriceParser swaps the price recovery strategy, for source formats
// that glue their price fields differently.
func WithPriceParser(prices PriceParser) Option {
	return func(imp *Importer) { imp.rows = NewRowParser(prices) }
}

// WithDryRun recovers and counts records without persisting them.
func WithDryRun(dryRun bool) Option {
	return func(imp *Importer) { imp.dryRun = dryRun }
}

// WithProgress renders a progress bar while rows are processed.
func WithProgress(show bool) Option {
	return func(imp *Importer) { imp.progress = show }
}

// NewImporter creates an importer writing to store with the default glued
// price parser and conversion rate.
func NewImporter(store RecordWriter, opts ...Option) *Importer {
	imp := &Importer{
		store: store,
		rows:  NewRowParser(GluedPriceParser{}),
		rate:  model.DefaultCNYToSGDRate,
	}
	for _, opt := range opts {
		opt(imp)
	}
	return imp
}

// ImportFile imports every recoverable row of the file at path and returns
// the number of records persisted. Malformed rows and failed inserts are
// logged and skipped; only an unreadable file or an invalid rate is fatal.
func (imp *Importer) ImportFile(ctx context.Context, path string) (int, error) {
	if !imp.rate.IsPositive() {
		return 0, fmt.Errorf("%w: %s", common.ErrBadRate, imp.rate)
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrBadSource, err)
	}
	defer func() { _ = f.Close() }()

	slog.Info("Importing purchases",
		"file", path,
		"rate", imp.rate,
		"dry_run", imp.dryRun)

	var bar *progressbar.ProgressBar
	if imp.progress {
		bar = progressbar.Default(-1, "importing rows")
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var total, imported, skipped int
	for scanner.Scan() {
		total++
		if bar != nil {
			_ = bar.Add(1)
		}

		p, parseErr := imp.rows.ParseLine(scanner.Text())
		if parseErr != nil {
			skipped++
			if errors.Is(parseErr, ErrBlankRow) || errors.Is(parseErr, ErrHeaderRow) {
				slog.Debug("Skipping row", "line", total, "reason", parseErr)
			} else {
				slog.Warn("Skipping malformed row",
					"line", total,
					"reason", parseErr)
			}
			continue
		}

		// The rate is frozen into the record so later rate changes never
		// rewrite history.
		p.ConversionRate = imp.rate
		p.UnitPriceSGD = p.UnitPriceCNY.Mul(imp.rate).Round(2)

		if imp.dryRun {
			imported++
			continue
		}

		if _, saveErr := imp.store.SavePurchase(ctx, p); saveErr != nil {
			skipped++
			slog.Error("Failed to insert purchase",
				"line", total,
				"serial_number", p.SerialNumber,
				"order_id", p.OrderID,
				"error", saveErr)
			continue
		}
		imported++
	}

	if bar != nil {
		_ = bar.Finish()
	}

	if scanErr := scanner.Err(); scanErr != nil {
		return imported, fmt.Errorf("reading %s: %w", path, scanErr)
	}

	slog.Info("Import complete",
		"file", path,
		"rows", total,
		"imported", imported,
		"skipped", skipped)

	return imported, nil
}
