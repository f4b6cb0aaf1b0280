package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seanloh/purchase-tracker/internal/common"
	"github.com/seanloh/purchase-tracker/internal/model"
	"github.com/seanloh/purchase-tracker/internal/storage"
)

type stubStore struct {
	purchases []model.Purchase
	summary   model.Summary
	lastOpts  storage.ListOptions
}

func (s *stubStore) ListPurchases(_ context.Context, opts storage.ListOptions) ([]model.Purchase, error) {
	s.lastOpts = opts
	return s.purchases, nil
}

func (s *stubStore) GetPurchase(_ context.Context, id int64) (*model.Purchase, error) {
	for i := range s.purchases {
		if s.purchases[i].ID == id {
			return &s.purchases[i], nil
		}
	}
	return nil, fmt.Errorf("%w: purchase %d", common.ErrNotFound, id)
}

func (s *stubStore) GetPurchasesByDateRange(_ context.Context, start, end time.Time) ([]model.Purchase, error) {
	if start.After(end) {
		return nil, errors.New("bad range")
	}
	return s.purchases, nil
}

func (s *stubStore) GetSummary(_ context.Context) (*model.Summary, error) {
	return &s.summary, nil
}

type stubImporter struct {
	count int
	err   error
	path  string
}

func (s *stubImporter) ImportFile(_ context.Context, path string) (int, error) {
	s.path = path
	return s.count, s.err
}

func samplePurchases() []model.Purchase {
	p := model.Purchase{
		ID:             1,
		SerialNumber:   42,
		Date:           time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		ItemName:       "Wireless Mouse",
		Quantity:       2,
		UnitPriceCNY:   decimalHundred(),
		UnitPriceSGD:   decimalHundred().Mul(model.DefaultCNYToSGDRate).Round(2),
		ConversionRate: model.DefaultCNYToSGDRate,
		OrderID:        "100234",
		CreatedAt:      time.Date(2024, 1, 11, 8, 0, 0, 0, time.UTC),
	}
	return []model.Purchase{p}
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestHealth(t *testing.T) {
	server := NewServer(&stubStore{}, &stubImporter{})

	resp, err := server.App().Test(newRequest("GET", "/health", ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListPurchases(t *testing.T) {
	store := &stubStore{purchases: samplePurchases()}
	server := NewServer(store, &stubImporter{})

	resp, err := server.App().Test(newRequest("GET", "/api/purchases/?search=mouse&limit=5000&offset=-2", ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, float64(1), body["count"])

	// Out-of-range paging inputs are clamped before they reach the store.
	assert.Equal(t, "mouse", store.lastOpts.Search)
	assert.Equal(t, 1000, store.lastOpts.Limit)
	assert.Equal(t, 0, store.lastOpts.Offset)

	purchases, ok := body["purchases"].([]any)
	require.True(t, ok)
	first, ok := purchases[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Wireless Mouse", first["item_name"])
	assert.Equal(t, "2024-01-10", first["date"])
}

func TestListPurchasesByDateRange(t *testing.T) {
	server := NewServer(&stubStore{purchases: samplePurchases()}, &stubImporter{})

	resp, err := server.App().Test(newRequest("GET", "/api/purchases/?from=2024-01-01&to=2024-02-01", ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = server.App().Test(newRequest("GET", "/api/purchases/?from=bogus&to=2024-02-01", ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetPurchase(t *testing.T) {
	server := NewServer(&stubStore{purchases: samplePurchases()}, &stubImporter{})

	resp, err := server.App().Test(newRequest("GET", "/api/purchases/1", ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, float64(42), body["serial_number"])
	assert.Equal(t, "100234", body["order_id"])
}

func TestGetPurchaseNotFound(t *testing.T) {
	server := NewServer(&stubStore{}, &stubImporter{})

	resp, err := server.App().Test(newRequest("GET", "/api/purchases/999", ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetSummary(t *testing.T) {
	store := &stubStore{summary: model.Summary{
		TotalPurchases: 3,
		TotalItems:     7,
		EarliestDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		LatestDate:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}}
	server := NewServer(store, &stubImporter{})

	resp, err := server.App().Test(newRequest("GET", "/api/purchases/stats/summary", ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, float64(3), body["total_purchases"])
	assert.Equal(t, "2024-01-01", body["earliest_date"])
}

func TestImportCSV(t *testing.T) {
	importer := &stubImporter{count: 10}
	server := NewServer(&stubStore{}, importer)

	resp, err := server.App().Test(newRequest("POST", "/api/purchases/import", `{"path":"/data/export.csv"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, float64(10), body["count"])
	assert.Equal(t, "/data/export.csv", importer.path)
}

func TestImportCSVBadRequests(t *testing.T) {
	t.Run("missing path", func(t *testing.T) {
		server := NewServer(&stubStore{}, &stubImporter{})
		resp, err := server.App().Test(newRequest("POST", "/api/purchases/import", `{}`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("importer failure", func(t *testing.T) {
		server := NewServer(&stubStore{}, &stubImporter{err: common.ErrBadSource})
		resp, err := server.App().Test(newRequest("POST", "/api/purchases/import", `{"path":"/missing.csv"}`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func decimalHundred() decimal.Decimal {
	return decimal.NewFromInt(100)
}

func newRequest(method, target, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, _ := http.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}
