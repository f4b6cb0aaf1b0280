package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGluedPriceParser(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "glued prices and running total",
			raw:  "173.310.000.0014.31173.31",
			want: "173.31",
		},
		{
			name: "plain two-decimal price",
			raw:  "5.00",
			want: "5.00",
		},
		{
			name: "two glued numbers",
			raw:  "19.9939.98",
			want: "19.99",
		},
		{
			name: "no decimal point",
			raw:  "1999",
			want: "0.00",
		},
		{
			name: "empty string",
			raw:  "",
			want: "0.00",
		},
		{
			name: "non-numeric",
			raw:  "free",
			want: "0.00",
		},
		{
			name: "dot before any digits",
			raw:  ".50.25",
			want: "0.00",
		},
		{
			name: "single decimal place then glue",
			raw:  "12.3.45",
			want: "0.00",
		},
		{
			name: "surrounding whitespace",
			raw:  "  42.50  ",
			want: "42.50",
		},
	}

	var parser GluedPriceParser
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parser.Parse(tt.raw)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}
