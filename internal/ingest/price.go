package ingest

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// PriceParser recovers a unit price from a raw price field.
// Implementations never fail: unrecoverable input yields 0.00.
type PriceParser interface {
	Parse(raw string) decimal.Decimal
}

// GluedPriceParser handles the export's concatenated price field, where
// several decimal numbers are run together with no separator, e.g.
// "173.310.000.0014.31173.31". It takes the first complete two-decimal
// number as the unit price and discards the rest. Whether that number is
// the unit price rather than a subtotal was never confirmed against the
// source system; the behavior is kept as-is so re-imports stay comparable
// with existing data.
type GluedPriceParser struct{}

var priceRe = regexp.MustCompile(`^\d+\.\d{2}`)

// Parse implements PriceParser.
func (GluedPriceParser) Parse(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)

	first := strings.Index(s, ".")
	if first == -1 {
		return decimal.New(0, -2)
	}

	// Anything past two digits after the second dot belongs to the next
	// glued number.
	if second := strings.Index(s[first+1:], "."); second != -1 {
		end := first + 1 + second + 3
		if end > len(s) {
			end = len(s)
		}
		s = s[:end]
	}

	if m := priceRe.FindString(s); m != "" {
		if d, err := decimal.NewFromString(m); err == nil {
			return d
		}
	}

	return decimal.New(0, -2)
}
