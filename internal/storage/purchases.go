package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/seanloh/purchase-tracker/internal/common"
	"github.com/seanloh/purchase-tracker/internal/model"
)

const purchaseColumns = `id, serial_number, date, tracking_number, company_name,
	item_name, quantity, unit_price_cny, unit_price_sgd, conversion_rate,
	export_status, order_id, created_at`

// ListOptions controls pagination and filtering for ListPurchases.
type ListOptions struct {
	Search string
	Limit  int
	Offset int
}

// SavePurchase inserts a single purchase and returns its assigned id.
// The table is append-only; there is no update path.
func (s *SQLiteStorage) SavePurchase(ctx context.Context, p *model.Purchase) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validatePurchase(p); err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO purchases (
			serial_number, date, tracking_number, company_name, item_name,
			quantity, unit_price_cny, unit_price_sgd, conversion_rate,
			export_status, order_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.SerialNumber,
		p.Date.Format("2006-01-02"),
		p.TrackingNumber,
		p.CompanyName,
		p.ItemName,
		p.Quantity,
		p.UnitPriceCNY.StringFixed(2),
		p.UnitPriceSGD.StringFixed(2),
		p.ConversionRate.StringFixed(4),
		p.ExportStatus,
		p.OrderID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert purchase: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted id: %w", err)
	}
	p.ID = id
	return id, nil
}

// ListPurchases returns purchases ordered by date descending, optionally
// filtered by a case-insensitive item name search. The search term is
// always bound as a parameter, never interpolated.
func (s *SQLiteStorage) ListPurchases(ctx context.Context, opts ListOptions) ([]model.Purchase, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + purchaseColumns + ` FROM purchases`
	args := make([]any, 0, 3)
	// LIKE is case-insensitive for ASCII in SQLite.
	if opts.Search != "" {
		query += ` WHERE item_name LIKE ?`
		args = append(args, "%"+opts.Search+"%")
	}
	query += ` ORDER BY date DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchases: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanPurchases(rows)
}

// GetPurchase returns a single purchase by id, or common.ErrNotFound.
func (s *SQLiteStorage) GetPurchase(ctx context.Context, id int64) (*model.Purchase, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+purchaseColumns+` FROM purchases WHERE id = ?`, id)

	p, err := scanPurchase(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: purchase %d", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase %d: %w", id, err)
	}
	return p, nil
}

// GetPurchasesByDateRange returns purchases with dates in [start, end],
// ordered by date descending.
func (s *SQLiteStorage) GetPurchasesByDateRange(ctx context.Context, start, end time.Time) ([]model.Purchase, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, ErrInvalidDateRange
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+purchaseColumns+` FROM purchases
		WHERE date >= ? AND date <= ?
		ORDER BY date DESC, id DESC`,
		start.Format("2006-01-02"),
		end.Format("2006-01-02"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchases by date range: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanPurchases(rows)
}

// GetSummary returns aggregate statistics over all purchases.
func (s *SQLiteStorage) GetSummary(ctx context.Context) (*model.Summary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var (
		summary  model.Summary
		totalCNY float64
		totalSGD float64
		avgPrice float64
		earliest sql.NullString
		latest   sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CAST(unit_price_cny AS REAL) * quantity), 0),
			COALESCE(SUM(CAST(unit_price_sgd AS REAL) * quantity), 0),
			COALESCE(AVG(CAST(unit_price_cny AS REAL)), 0),
			COALESCE(SUM(quantity), 0),
			MIN(date),
			MAX(date)
		FROM purchases`).Scan(
		&summary.TotalPurchases,
		&totalCNY,
		&totalSGD,
		&avgPrice,
		&summary.TotalItems,
		&earliest,
		&latest,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}

	summary.TotalCNY = decimal.NewFromFloat(totalCNY).Round(2)
	summary.TotalSGD = decimal.NewFromFloat(totalSGD).Round(2)
	summary.AveragePrice = decimal.NewFromFloat(avgPrice).Round(2)

	// Aggregates lose the column's declared type, so the driver hands the
	// dates back as text.
	if earliest.Valid {
		summary.EarliestDate, err = parseStoredDate(earliest.String)
		if err != nil {
			return nil, err
		}
	}
	if latest.Valid {
		summary.LatestDate, err = parseStoredDate(latest.String)
		if err != nil {
			return nil, err
		}
	}
	return &summary, nil
}

func parseStoredDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad stored date %q: %w", s, err)
	}
	return t, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPurchase(row rowScanner) (*model.Purchase, error) {
	var (
		p        model.Purchase
		tracking sql.NullString
		company  sql.NullString
		status   sql.NullString
		priceCNY string
		priceSGD string
		rate     string
	)
	err := row.Scan(
		&p.ID,
		&p.SerialNumber,
		&p.Date,
		&tracking,
		&company,
		&p.ItemName,
		&p.Quantity,
		&priceCNY,
		&priceSGD,
		&rate,
		&status,
		&p.OrderID,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.TrackingNumber = tracking.String
	p.CompanyName = company.String
	p.ExportStatus = status.String

	if p.UnitPriceCNY, err = decimal.NewFromString(priceCNY); err != nil {
		return nil, fmt.Errorf("bad unit_price_cny %q: %w", priceCNY, err)
	}
	if p.UnitPriceSGD, err = decimal.NewFromString(priceSGD); err != nil {
		return nil, fmt.Errorf("bad unit_price_sgd %q: %w", priceSGD, err)
	}
	if p.ConversionRate, err = decimal.NewFromString(rate); err != nil {
		return nil, fmt.Errorf("bad conversion_rate %q: %w", rate, err)
	}
	return &p, nil
}

func scanPurchases(rows *sql.Rows) ([]model.Purchase, error) {
	var purchases []model.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		purchases = append(purchases, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate purchases: %w", err)
	}
	return purchases, nil
}
