package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stocksage/sage/internal/inflight"
	"github.com/stocksage/sage/internal/listing"
	"github.com/stocksage/sage/pkg/sageapi"
)

// StocksMode represents the input mode of the stocks view.
type StocksMode int

const (
	StocksModeNormal StocksMode = iota
	StocksModeSearching
)

// StocksModel holds the state for the company listing view.
type StocksModel struct {
	State       LoadState
	Err         error
	Companies   []sageapi.Company
	SectorNames []string
	Filter      listing.FilterState
	Page        listing.Page[sageapi.Company]
	LastUpdated time.Time
	Table       table.Model
	Mode        StocksMode
	SearchInput textinput.Model

	tracker inflight.Tracker
}

// NewStocksModel creates a stocks model starting from the remembered filters.
func NewStocksModel(prefs *UIConfig) *StocksModel {
	cols := []table.Column{
		{Title: "Symbol", Width: 10},
		{Title: "Name", Width: 36},
		{Title: "Sector", Width: 24},
		{Title: "Price", Width: 12},
		{Title: "Market Cap", Width: 18},
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(TableStyles())

	ti := textinput.New()
	ti.Placeholder = "Symbol or name"
	ti.CharLimit = 40
	ti.Width = 30

	filter := listing.NewFilterState().
		WithSector(prefs.LastSector).
		WithSort(!prefs.SortDescending)

	return &StocksModel{
		State:       StateLoading,
		Filter:      filter,
		Table:       t,
		Mode:        StocksModeNormal,
		SearchInput: ti,
	}
}

// SetHeight sets the table height.
func (m *StocksModel) SetHeight(height int) {
	m.Table.SetHeight(height)
}

// Load starts a fetch, superseding any request still in flight.
func (m *StocksModel) Load(parent context.Context, f Fetcher) tea.Cmd {
	ctx, ticket := m.tracker.Begin(parent)
	m.State = StateLoading
	return FetchCompanies(ctx, ticket, f)
}

// Cancel aborts the outstanding fetch.
func (m *StocksModel) Cancel() {
	m.tracker.Cancel()
}

// Update handles messages for the stocks view.
// The bool reports whether a remembered preference changed.
func (m *StocksModel) Update(msg tea.Msg) (*StocksModel, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case CompaniesLoadedMsg:
		if !m.tracker.Current(msg.Ticket) {
			return m, nil, false
		}
		m.State = StateLoaded
		m.Err = nil
		m.Companies = listing.ValidCompanies(msg.Companies)
		m.SectorNames = sectorNames(m.Companies, msg.Sectors)
		m.LastUpdated = time.Now()
		m.resolveSector()
		m.refresh()
		return m, nil, false

	case CompaniesErrorMsg:
		if !m.tracker.Current(msg.Ticket) {
			return m, nil, false
		}
		m.State = StateError
		m.Err = msg.Err
		return m, nil, false

	case tea.KeyMsg:
		if m.Mode == StocksModeSearching {
			return m.updateSearch(msg)
		}
		if m.State != StateLoaded {
			return m, nil, false
		}

		switch msg.String() {
		case "/":
			m.Mode = StocksModeSearching
			m.SearchInput.SetValue(m.Filter.Search)
			return m, m.SearchInput.Focus(), false
		case "s":
			m.Filter = m.Filter.WithSector(m.nextSector())
			m.refresh()
			return m, nil, true
		case "o":
			m.Filter = m.Filter.ToggleSort()
			m.refresh()
			return m, nil, true
		case "x":
			m.Filter = listing.NewFilterState().WithSort(m.Filter.Ascending)
			m.SearchInput.SetValue("")
			m.refresh()
			return m, nil, true
		case "n", "right":
			m.Filter = m.Filter.NextPage(m.Page.TotalPages)
			m.refresh()
			return m, nil, false
		case "p", "left":
			m.Filter = m.Filter.PrevPage()
			m.refresh()
			return m, nil, false
		}

		var cmd tea.Cmd
		m.Table, cmd = m.Table.Update(msg)
		return m, cmd, false
	}

	return m, nil, false
}

func (m *StocksModel) updateSearch(msg tea.KeyMsg) (*StocksModel, tea.Cmd, bool) {
	switch msg.String() {
	case "enter":
		m.Mode = StocksModeNormal
		m.SearchInput.Blur()
		return m, nil, false
	case "esc":
		m.Mode = StocksModeNormal
		m.SearchInput.Blur()
		m.SearchInput.SetValue("")
		if m.Filter.Search != "" {
			m.Filter = m.Filter.WithSearch("")
			m.refresh()
		}
		return m, nil, false
	}

	var cmd tea.Cmd
	m.SearchInput, cmd = m.SearchInput.Update(msg)
	if v := m.SearchInput.Value(); v != m.Filter.Search {
		m.Filter = m.Filter.WithSearch(v)
		m.refresh()
	}
	return m, cmd, false
}

// refresh recomputes the visible page from the loaded companies.
func (m *StocksModel) refresh() {
	m.Page = listing.Companies(m.Companies, m.Filter)
	if m.Page.Page != m.Filter.Page {
		m.Filter = m.Filter.WithPage(m.Page.Page)
	}

	rows := make([]table.Row, 0, len(m.Page.Items))
	for _, c := range m.Page.Items {
		rows = append(rows, table.Row{
			c.Symbol,
			sageapi.Truncate(c.Name, 34),
			sageapi.Truncate(c.Sector, 22),
			sageapi.FormatNumber(c.MarketPrice),
			sageapi.FormatInteger(c.MarketCapitalization),
		})
	}
	m.Table.SetRows(rows)
	if m.Table.Cursor() >= len(rows) {
		m.Table.SetCursor(0)
	}
}

// resolveSector maps a remembered sector onto the canonical name, or clears
// it when the sector no longer exists.
func (m *StocksModel) resolveSector() {
	current := m.Filter.Sector
	if isAllSectors(current) {
		return
	}
	for _, name := range m.SectorNames {
		if strings.EqualFold(name, current) {
			if name != current {
				m.Filter = m.Filter.WithSector(name)
			}
			return
		}
	}
	m.Filter = m.Filter.WithSector("")
}

// nextSector returns the sector after the current one, cycling through "all".
func (m *StocksModel) nextSector() string {
	options := append([]string{""}, m.SectorNames...)
	idx := -1
	if isAllSectors(m.Filter.Sector) {
		idx = 0
	} else {
		for i, name := range options {
			if strings.EqualFold(name, m.Filter.Sector) {
				idx = i
				break
			}
		}
	}
	return options[(idx+1)%len(options)]
}

// SelectedCompany returns the company under the cursor, if any.
func (m *StocksModel) SelectedCompany() (sageapi.Company, bool) {
	i := m.Table.Cursor()
	if i < 0 || i >= len(m.Page.Items) {
		return sageapi.Company{}, false
	}
	return m.Page.Items[i], true
}

// View renders the stocks view.
func (m *StocksModel) View() string {
	switch m.State {
	case StateLoading:
		return "Loading companies..."
	case StateError:
		return errorView(m.Err)
	}

	var b strings.Builder
	b.WriteString(m.filterLine())
	b.WriteString("\n")
	if m.Mode == StocksModeSearching {
		b.WriteString(InputStyle.Render(m.SearchInput.View()))
		b.WriteString("\n")
	}

	if m.Page.Empty() {
		b.WriteString("\n")
		b.WriteString(emptyView())
		return b.String()
	}

	b.WriteString(m.Table.View())
	b.WriteString("\n")
	b.WriteString(LabelStyle.Render(fmt.Sprintf("Page %d of %d (%d companies)  Updated %s",
		m.Page.Page, m.Page.TotalPages, m.Page.TotalItems, m.LastUpdated.Format("15:04:05"))))
	return b.String()
}

func (m *StocksModel) filterLine() string {
	sector := "All"
	if !isAllSectors(m.Filter.Sector) {
		sector = m.Filter.Sector
	}
	order := "A-Z"
	if !m.Filter.Ascending {
		order = "Z-A"
	}
	search := "-"
	if s := strings.TrimSpace(m.Filter.Search); s != "" {
		search = s
	}
	return LabelStyle.Render("Sector: ") + ValueStyle.Render(sector) + "   " +
		LabelStyle.Render("Sort: ") + ValueStyle.Render(order) + "   " +
		LabelStyle.Render("Search: ") + ValueStyle.Render(search)
}

func isAllSectors(s string) bool {
	return s == "" || strings.EqualFold(s, listing.AllSectors)
}

// sectorNames merges the sectors present in companies with the catalogue,
// sorted by name.
func sectorNames(companies []sageapi.Company, catalogue []sageapi.Sector) []string {
	seen := make(map[string]bool)
	var names []string
	for _, s := range listing.Sectors(companies) {
		seen[strings.ToLower(s.Name)] = true
		names = append(names, s.Name)
	}
	for _, s := range catalogue {
		key := strings.ToLower(s.Name)
		if s.Name == "" || seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, s.Name)
	}
	sort.Strings(names)
	return names
}
