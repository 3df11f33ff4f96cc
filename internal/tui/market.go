package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stocksage/sage/internal/inflight"
	"github.com/stocksage/sage/pkg/sageapi"
)

// MarketModel holds the state for the market summary view.
type MarketModel struct {
	State       LoadState
	Err         error
	Summary     *sageapi.MarketSummary
	LastUpdated time.Time
	Refreshing  bool

	tracker inflight.Tracker
}

// NewMarketModel creates a market model.
func NewMarketModel() *MarketModel {
	return &MarketModel{State: StateLoading}
}

// Load starts a fetch. A summary already on screen stays visible while the
// refresh is outstanding.
func (m *MarketModel) Load(parent context.Context, f Fetcher) tea.Cmd {
	ctx, ticket := m.tracker.Begin(parent)
	if m.Summary == nil {
		m.State = StateLoading
	}
	m.Refreshing = true
	return FetchMarket(ctx, ticket, f)
}

// Cancel aborts the outstanding fetch.
func (m *MarketModel) Cancel() {
	m.tracker.Cancel()
	m.Refreshing = false
}

// Update handles messages for the market view.
func (m *MarketModel) Update(msg tea.Msg) (*MarketModel, tea.Cmd) {
	switch msg := msg.(type) {
	case MarketLoadedMsg:
		if !m.tracker.Current(msg.Ticket) {
			return m, nil
		}
		m.State = StateLoaded
		m.Err = nil
		m.Summary = msg.Summary
		m.LastUpdated = time.Now()
		m.Refreshing = false

	case MarketErrorMsg:
		if !m.tracker.Current(msg.Ticket) {
			return m, nil
		}
		m.Err = msg.Err
		m.Refreshing = false
		if m.Summary == nil {
			m.State = StateError
		}
	}
	return m, nil
}

// View renders the market view.
func (m *MarketModel) View(interval time.Duration) string {
	switch m.State {
	case StateLoading:
		return "Loading market summary..."
	case StateError:
		return errorView(m.Err)
	}

	if m.Summary == nil || len(m.Summary.Summary) == 0 {
		return emptyView()
	}

	var b strings.Builder
	if m.Summary.Heading != "" {
		b.WriteString(TitleStyle.Render(m.Summary.Heading))
		b.WriteString("\n\n")
	}

	entries := m.Summary.Entries()
	keyWidth := 0
	for _, e := range entries {
		keyWidth = max(keyWidth, lipgloss.Width(e.Key))
	}
	for _, e := range entries {
		b.WriteString(LabelStyle.Render(fmt.Sprintf("%-*s", keyWidth, e.Key)))
		b.WriteString("  ")
		b.WriteString(ValueStyle.Render(e.Value))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(DescStyle.Render(fmt.Sprintf("Updated %s, refreshes every %s",
		m.LastUpdated.Format("15:04:05"), interval)))
	if m.Err != nil {
		b.WriteString("\n")
		b.WriteString(WarningStyle.Render("Refresh failed: " + m.Err.Error()))
	}
	return b.String()
}
