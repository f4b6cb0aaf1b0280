package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Padding(0, 1)

	statLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	statValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Padding(1, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)

	searchStyle = lipgloss.NewStyle().
			Padding(0, 1)
)

// View renders the dashboard.
func (m Model) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if !m.loaded {
		return helpStyle.Render("Loading purchases...")
	}

	sections := []string{
		titleStyle.Render("Purchase Tracker"),
		m.renderSummary(),
	}

	if m.searching || m.search.Value() != "" {
		sections = append(sections, searchStyle.Render("Search: "+m.search.View()))
	}

	sections = append(sections,
		m.table.View(),
		helpStyle.Render("↑/↓ scroll · / search · c currency · r reload · q quit"),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderSummary() string {
	if m.summary == nil || m.summary.TotalPurchases == 0 {
		return helpStyle.Render("No purchases yet. Run an import first.")
	}

	total := m.summary.TotalSGD
	if m.currency == CurrencyCNY {
		total = m.summary.TotalCNY
	}

	stats := []string{
		stat("Purchases", fmt.Sprintf("%d", m.summary.TotalPurchases)),
		stat("Items", fmt.Sprintf("%d", m.summary.TotalItems)),
		stat(fmt.Sprintf("Total (%s)", m.currency), m.currency.symbol()+total.StringFixed(2)),
		stat("Avg price (CNY)", "¥"+m.summary.AveragePrice.StringFixed(2)),
	}
	if !m.summary.EarliestDate.IsZero() {
		stats = append(stats, stat("Range",
			m.summary.EarliestDate.Format("2006-01-02")+" → "+m.summary.LatestDate.Format("2006-01-02")))
	}

	if len(m.filtered) != len(m.purchases) {
		stats = append(stats, stat("Showing", fmt.Sprintf("%d of %d", len(m.filtered), len(m.purchases))))
	}

	return searchStyle.Render(strings.Join(stats, "   "))
}

func stat(label, value string) string {
	return statLabelStyle.Render(label+": ") + statValueStyle.Render(value)
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		Bold(true).
		Foreground(lipgloss.Color("205")).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(lipgloss.Color("240"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	return s
}

// Run starts the dashboard program and blocks until the user quits.
func Run(store Store) error {
	p := tea.NewProgram(New(store), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
