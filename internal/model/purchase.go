// Package model defines the core domain types for the purchase tracker.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCNYToSGDRate is the CNY to SGD exchange rate applied at import
// time. It is persisted per record, so changing it never rewrites history.
var DefaultCNYToSGDRate = decimal.RequireFromString("0.1962")

// Purchase represents a single purchase recovered from a source export.
type Purchase struct {
	Date           time.Time
	CreatedAt      time.Time
	TrackingNumber string
	CompanyName    string
	ItemName       string
	ExportStatus   string
	OrderID        string
	UnitPriceCNY   decimal.Decimal
	UnitPriceSGD   decimal.Decimal
	ConversionRate decimal.Decimal
	ID             int64
	SerialNumber   int
	Quantity       int
}

// TotalCNY returns the line total in the source currency.
func (p *Purchase) TotalCNY() decimal.Decimal {
	return p.UnitPriceCNY.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// TotalSGD returns the line total in the converted currency.
func (p *Purchase) TotalSGD() decimal.Decimal {
	return p.UnitPriceSGD.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// Summary holds aggregate statistics over the purchases table.
type Summary struct {
	EarliestDate   time.Time
	LatestDate     time.Time
	TotalCNY       decimal.Decimal
	TotalSGD       decimal.Decimal
	AveragePrice   decimal.Decimal
	TotalPurchases int
	TotalItems     int
}
