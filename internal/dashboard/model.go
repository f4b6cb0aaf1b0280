// Package dashboard renders a read-only terminal dashboard over the
// purchase store: summary statistics, a browsable purchase table, item
// search, and a CNY/SGD display toggle.
package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/seanloh/purchase-tracker/internal/model"
	"github.com/seanloh/purchase-tracker/internal/storage"
)

// Store is the read surface the dashboard needs.
type Store interface {
	ListPurchases(ctx context.Context, opts storage.ListOptions) ([]model.Purchase, error)
	GetSummary(ctx context.Context) (*model.Summary, error)
}

// Currency selects which side of the conversion the dashboard displays.
type Currency int

// Display currencies.
const (
	CurrencySGD Currency = iota
	CurrencyCNY
)

func (c Currency) String() string {
	if c == CurrencyCNY {
		return "CNY"
	}
	return "SGD"
}

func (c Currency) symbol() string {
	if c == CurrencyCNY {
		return "¥"
	}
	return "S$"
}

// loadLimit caps how many purchases the dashboard pulls into memory.
const loadLimit = 1000

type loadedMsg struct {
	summary   *model.Summary
	purchases []model.Purchase
}

type errMsg struct {
	err error
}

// Model is the bubbletea model for the dashboard.
type Model struct {
	store     Store
	err       error
	purchases []model.Purchase
	filtered  []model.Purchase
	table     table.Model
	search    textinput.Model
	currency  Currency
	summary   *model.Summary
	width     int
	height    int
	searching bool
	loaded    bool
}

// New creates a dashboard model backed by store.
func New(store Store) Model {
	search := textinput.New()
	search.Placeholder = "search items..."
	search.CharLimit = 100

	return Model{
		store:  store,
		search: search,
		table:  newPurchaseTable(nil, CurrencySGD),
	}
}

// Init starts the initial data load.
func (m Model) Init() tea.Cmd {
	return m.load
}

func (m Model) load() tea.Msg {
	ctx := context.Background()

	purchases, err := m.store.ListPurchases(ctx, storage.ListOptions{Limit: loadLimit})
	if err != nil {
		return errMsg{err: err}
	}
	summary, err := m.store.GetSummary(ctx)
	if err != nil {
		return errMsg{err: err}
	}
	return loadedMsg{purchases: purchases, summary: summary}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.loaded = true
		m.purchases = msg.purchases
		m.summary = msg.summary
		m.applyFilter()
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(max(msg.Height-9, 3))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.String() {
		case "enter":
			m.searching = false
			m.search.Blur()
			m.applyFilter()
		case "esc":
			m.searching = false
			m.search.Blur()
			m.search.SetValue("")
			m.applyFilter()
		default:
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "/":
		m.searching = true
		return m, m.search.Focus()
	case "c":
		if m.currency == CurrencySGD {
			m.currency = CurrencyCNY
		} else {
			m.currency = CurrencySGD
		}
		m.rebuildTable()
		return m, nil
	case "r":
		return m, m.load
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) applyFilter() {
	m.filtered = filterPurchases(m.purchases, m.search.Value())
	m.rebuildTable()
}

func (m *Model) rebuildTable() {
	height := m.table.Height()
	m.table = newPurchaseTable(m.filtered, m.currency)
	if height > 0 {
		m.table.SetHeight(height)
	}
}

// filterPurchases returns the purchases whose item name contains query,
// case-insensitively. An empty query returns the input unchanged.
func filterPurchases(purchases []model.Purchase, query string) []model.Purchase {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return purchases
	}
	var out []model.Purchase
	for _, p := range purchases {
		if strings.Contains(strings.ToLower(p.ItemName), query) {
			out = append(out, p)
		}
	}
	return out
}

func newPurchaseTable(purchases []model.Purchase, currency Currency) table.Model {
	columns := []table.Column{
		{Title: "Date", Width: 10},
		{Title: "Item", Width: 44},
		{Title: "Qty", Width: 4},
		{Title: fmt.Sprintf("Unit (%s)", currency), Width: 12},
		{Title: fmt.Sprintf("Total (%s)", currency), Width: 12},
		{Title: "Order ID", Width: 14},
	}

	rows := make([]table.Row, 0, len(purchases))
	for i := range purchases {
		rows = append(rows, purchaseRow(&purchases[i], currency))
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
	)
	t.SetStyles(tableStyles())
	return t
}

func purchaseRow(p *model.Purchase, currency Currency) table.Row {
	unit := p.UnitPriceSGD
	total := p.TotalSGD()
	if currency == CurrencyCNY {
		unit = p.UnitPriceCNY
		total = p.TotalCNY()
	}
	return table.Row{
		p.Date.Format("2006-01-02"),
		truncate(p.ItemName, 44),
		fmt.Sprintf("%d", p.Quantity),
		currency.symbol() + unit.StringFixed(2),
		currency.symbol() + total.StringFixed(2),
		p.OrderID,
	}
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
