package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPurchaseTotals(t *testing.T) {
	p := Purchase{
		Quantity:     3,
		UnitPriceCNY: decimal.RequireFromString("19.99"),
		UnitPriceSGD: decimal.RequireFromString("3.92"),
	}

	assert.Equal(t, "59.97", p.TotalCNY().StringFixed(2))
	assert.Equal(t, "11.76", p.TotalSGD().StringFixed(2))
}

func TestDefaultRate(t *testing.T) {
	// 1 CNY = 0.1962 SGD, frozen into each record at import time.
	assert.Equal(t, "0.1962", DefaultCNYToSGDRate.StringFixed(4))
}
