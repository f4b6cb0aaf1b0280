package dashboard

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seanloh/purchase-tracker/internal/model"
	"github.com/seanloh/purchase-tracker/internal/storage"
)

type stubStore struct {
	purchases []model.Purchase
	summary   model.Summary
}

func (s *stubStore) ListPurchases(_ context.Context, _ storage.ListOptions) ([]model.Purchase, error) {
	return s.purchases, nil
}

func (s *stubStore) GetSummary(_ context.Context) (*model.Summary, error) {
	return &s.summary, nil
}

func samplePurchases() []model.Purchase {
	mk := func(item string, cny string) model.Purchase {
		price := decimal.RequireFromString(cny)
		return model.Purchase{
			Date:           time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			ItemName:       item,
			Quantity:       2,
			UnitPriceCNY:   price,
			UnitPriceSGD:   price.Mul(model.DefaultCNYToSGDRate).Round(2),
			ConversionRate: model.DefaultCNYToSGDRate,
			OrderID:        "100234",
		}
	}
	return []model.Purchase{
		mk("Wireless Mouse", "100.00"),
		mk("USB Cable", "10.00"),
		mk("Mouse Pad", "5.00"),
	}
}

func TestFilterPurchases(t *testing.T) {
	purchases := samplePurchases()

	assert.Len(t, filterPurchases(purchases, ""), 3)
	assert.Len(t, filterPurchases(purchases, "mouse"), 2)
	assert.Len(t, filterPurchases(purchases, "MOUSE"), 2)
	assert.Len(t, filterPurchases(purchases, "cable"), 1)
	assert.Empty(t, filterPurchases(purchases, "keyboard"))
}

func TestPurchaseRowCurrency(t *testing.T) {
	p := samplePurchases()[0]

	sgd := purchaseRow(&p, CurrencySGD)
	assert.Equal(t, "S$19.62", sgd[3])
	assert.Equal(t, "S$39.24", sgd[4])

	cny := purchaseRow(&p, CurrencyCNY)
	assert.Equal(t, "¥100.00", cny[3])
	assert.Equal(t, "¥200.00", cny[4])
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactlyten", truncate("exactlyten", 10))
	assert.Equal(t, "a long it…", truncate("a long item name", 10))
}

func TestModelLoadAndToggle(t *testing.T) {
	store := &stubStore{
		purchases: samplePurchases(),
		summary:   model.Summary{TotalPurchases: 3, TotalItems: 6},
	}
	m := New(store)

	msg := m.load()
	loaded, ok := msg.(loadedMsg)
	require.True(t, ok)

	updated, _ := m.Update(loaded)
	dash, ok := updated.(Model)
	require.True(t, ok)
	assert.True(t, dash.loaded)
	assert.Len(t, dash.filtered, 3)
	assert.Equal(t, CurrencySGD, dash.currency)

	// "c" flips the display currency.
	updated, _ = dash.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	dash, ok = updated.(Model)
	require.True(t, ok)
	assert.Equal(t, CurrencyCNY, dash.currency)

	view := dash.View()
	assert.Contains(t, view, "Purchase Tracker")
	assert.Contains(t, view, "Total (CNY)")
}
