// Package ingest recovers purchase records from the malformed pipe-delimited
// export and writes them to storage.
package ingest

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/seanloh/purchase-tracker/internal/model"
)

// Row-level skip reasons. The importer logs these and moves on; none of
// them abort a batch.
var (
	ErrBlankRow     = errors.New("blank row")
	ErrHeaderRow    = errors.New("repeated header row")
	ErrBadSerial    = errors.New("serial number is not numeric")
	ErrTooFewFields = errors.New("too few fields")
)

const delimiter = "|"

// headerPrefix identifies re-exported header lines by their first three
// column names.
const headerPrefix = "SN|date|tracking_number"

// RowParser rebuilds purchase records from the export's broken row format.
// The file's own field boundaries cannot be trusted: item names contain
// both commas and the pipe delimiter, so each row is re-joined into a raw
// line and parsed positionally from the right.
type RowParser struct {
	Prices PriceParser
}

// NewRowParser creates a row parser using the given price strategy.
func NewRowParser(prices PriceParser) *RowParser {
	return &RowParser{Prices: prices}
}

// ParseLine splits a raw line on the pipe delimiter and recovers a record
// from it.
func (rp *RowParser) ParseLine(line string) (*model.Purchase, error) {
	return rp.ParseRow(strings.Split(line, delimiter))
}

// ParseRow recovers a purchase record from one row's cells, or returns a
// skip reason. Returned records carry the source-currency price only; the
// importer applies the conversion rate.
func (rp *RowParser) ParseRow(cells []string) (*model.Purchase, error) {
	if isBlank(cells) {
		return nil, ErrBlankRow
	}

	line := strings.Join(cells, delimiter)

	if strings.Contains(line, headerPrefix) {
		return nil, ErrHeaderRow
	}

	parts := strings.Split(line, delimiter)
	if len(parts) < 2 {
		return nil, ErrTooFewFields
	}

	// An all-digit first segment is the primary filter against noise rows.
	if !isDigits(parts[0]) {
		return nil, ErrBadSerial
	}
	sn, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, ErrBadSerial
	}

	// A trailing all-numeric segment is the order id; everything between it
	// and the serial number is payload.
	remaining := strings.Join(parts[1:], delimiter)
	segments := strings.Split(remaining, delimiter)

	orderID := ""
	payload := remaining
	if last := segments[len(segments)-1]; isDigits(last) {
		orderID = last
		payload = strings.Join(segments[:len(segments)-1], delimiter)
	}

	// Right-anchored parse: the last three comma fields are date, quantity
	// and price; everything before them is the item name, commas included.
	fields := strings.Split(payload, ",")
	if len(fields) < 4 {
		return nil, ErrTooFewFields
	}

	itemName := strings.Join(fields[:len(fields)-3], ",")
	dateRaw := fields[len(fields)-3]
	quantityRaw := fields[len(fields)-2]
	priceRaw := fields[len(fields)-1]

	quantity := 1
	if isDigits(quantityRaw) {
		if n, convErr := strconv.Atoi(quantityRaw); convErr == nil && n >= 1 {
			quantity = n
		}
	}

	date, ok := ParseDate(dateRaw)
	if !ok {
		slog.Warn("Unparsable date, falling back to current date",
			"serial_number", sn,
			"raw", dateRaw)
	}

	return &model.Purchase{
		SerialNumber: sn,
		Date:         date,
		ItemName:     itemName,
		Quantity:     quantity,
		UnitPriceCNY: rp.Prices.Parse(priceRaw),
		OrderID:      orderID,
	}, nil
}

func isBlank(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
