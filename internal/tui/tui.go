// Package tui implements the interactive terminal UI behind "sage ui".
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/stocksage/sage/pkg/sageapi"
)

// View represents the current active view in the TUI.
type View int

const (
	ViewStocks View = iota
	ViewNews
	ViewMarket
)

// LoadState represents the loading state of a view's data.
type LoadState int

const (
	StateLoading LoadState = iota
	StateLoaded
	StateError
)

// DefaultRefreshInterval is the market refresh interval when none is configured.
const DefaultRefreshInterval = 30 * time.Second

// Options configures a Model.
type Options struct {
	Fetcher         Fetcher
	Logger          *zap.Logger
	Prefs           *UIConfig
	PrefsPath       string
	RefreshInterval time.Duration
}

// Model is the main bubbletea model for the TUI.
type Model struct {
	currentView View
	width       int
	height      int
	ready       bool
	quitting    bool

	ctx       context.Context
	fetcher   Fetcher
	logger    *zap.Logger
	prefs     *UIConfig
	prefsPath string

	// Child view models
	stocks *StocksModel
	news   *NewsModel
	market *MarketModel

	refreshInterval time.Duration
}

// New creates a new TUI model. Fetches derive their context from ctx.
func New(ctx context.Context, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	prefs := opts.Prefs
	if prefs == nil {
		prefs = &UIConfig{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	interval := opts.RefreshInterval
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}

	return Model{
		currentView:     ViewStocks,
		ctx:             ctx,
		fetcher:         opts.Fetcher,
		logger:          logger,
		prefs:           prefs,
		prefsPath:       opts.PrefsPath,
		stocks:          NewStocksModel(prefs),
		news:            NewNewsModel(prefs),
		market:          NewMarketModel(),
		refreshInterval: interval,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.stocks.Load(m.ctx, m.fetcher),
		m.news.Load(m.ctx, m.fetcher),
		m.market.Load(m.ctx, m.fetcher),
		m.tickCmd(),
	)
}

// tickCmd returns a command that sends a tick message after the refresh interval.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}

		// Search input consumes all keys
		if m.currentView == ViewStocks && m.stocks.Mode == StocksModeSearching {
			m.stocks, cmd, _ = m.stocks.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "q":
			return m.quit()
		case "1":
			m.currentView = ViewStocks
			return m, nil
		case "2":
			m.currentView = ViewNews
			return m, nil
		case "3":
			m.currentView = ViewMarket
			return m, nil
		case "r":
			switch m.currentView {
			case ViewStocks:
				cmds = append(cmds, m.stocks.Load(m.ctx, m.fetcher))
			case ViewNews:
				cmds = append(cmds, m.news.Load(m.ctx, m.fetcher))
			case ViewMarket:
				cmds = append(cmds, m.market.Load(m.ctx, m.fetcher))
			}
			return m, tea.Batch(cmds...)
		}

		var changed bool
		switch m.currentView {
		case ViewStocks:
			m.stocks, cmd, changed = m.stocks.Update(msg)
			cmds = append(cmds, cmd)
			if changed {
				m.prefs.LastSector = m.stocks.Filter.Sector
				m.prefs.SortDescending = !m.stocks.Filter.Ascending
				cmds = append(cmds, m.savePrefs())
			}
		case ViewNews:
			m.news, cmd, changed = m.news.Update(msg)
			cmds = append(cmds, cmd)
			if changed {
				m.prefs.LastCategory = string(m.news.Filter.Category)
				cmds = append(cmds, m.news.Load(m.ctx, m.fetcher), m.savePrefs())
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		// header, footer, content padding and the filter/page lines
		tableHeight := m.height - 1 - 1 - 2 - 4
		if tableHeight < 3 {
			tableHeight = 3
		}
		m.stocks.SetHeight(tableHeight)
		m.news.SetSize(m.width-4, tableHeight)

	case CompaniesLoadedMsg, CompaniesErrorMsg:
		m.stocks, cmd, _ = m.stocks.Update(msg)
		cmds = append(cmds, cmd)

	case NewsLoadedMsg, NewsErrorMsg:
		m.news, cmd, _ = m.news.Update(msg)
		cmds = append(cmds, cmd)

	case MarketLoadedMsg:
		m.market, cmd = m.market.Update(msg)
		cmds = append(cmds, cmd)

	case MarketErrorMsg:
		m.logger.Warn("market refresh failed", zap.Error(msg.Err))
		m.market, cmd = m.market.Update(msg)
		cmds = append(cmds, cmd)

	case PrefsErrorMsg:
		m.logger.Warn("failed to save ui preferences", zap.Error(msg.Err))

	case TickMsg:
		if m.quitting {
			return m, nil
		}
		if m.currentView == ViewMarket && !m.market.Refreshing {
			cmds = append(cmds, m.market.Load(m.ctx, m.fetcher))
		}
		cmds = append(cmds, m.tickCmd())
	}

	return m, tea.Batch(cmds...)
}

// quit cancels outstanding fetches and stops the refresh tick.
func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.stocks.Cancel()
	m.news.Cancel()
	m.market.Cancel()
	return m, tea.Quit
}

func (m Model) savePrefs() tea.Cmd {
	if m.prefsPath == "" {
		return nil
	}
	return SavePrefs(m.prefsPath, *m.prefs)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.renderHeader()
	footer := m.renderFooter()
	content := m.renderContent()

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight

	contentLines := strings.Split(content, "\n")
	for len(contentLines) < contentHeight {
		contentLines = append(contentLines, "")
	}
	if contentHeight > 0 && len(contentLines) > contentHeight {
		contentLines = contentLines[:contentHeight]
	}
	content = strings.Join(contentLines, "\n")

	return header + "\n" + content + "\n" + footer
}

// renderHeader renders the header bar.
func (m Model) renderHeader() string {
	title := HeaderStyle.Render("sage")

	tabs := []struct {
		name   string
		key    string
		active bool
	}{
		{"Stocks", "1", m.currentView == ViewStocks},
		{"News", "2", m.currentView == ViewNews},
		{"Market", "3", m.currentView == ViewMarket},
	}

	var tabStrs []string
	for _, tab := range tabs {
		style := lipgloss.NewStyle().Padding(0, 1)
		if tab.active {
			style = style.Bold(true).Foreground(ColorPrimary)
		} else {
			style = style.Foreground(ColorMuted)
		}
		tabStrs = append(tabStrs, style.Render(fmt.Sprintf("[%s] %s", tab.key, tab.name)))
	}

	headerContent := title + "  " + strings.Join(tabStrs, " ")
	return m.fullWidth(headerContent)
}

// renderContent renders the main content area.
func (m Model) renderContent() string {
	var content string
	switch m.currentView {
	case ViewStocks:
		content = m.stocks.View()
	case ViewNews:
		content = m.news.View()
	case ViewMarket:
		content = m.market.View(m.refreshInterval)
	}
	return ContentStyle.Render(content)
}

type keyHint struct {
	key  string
	desc string
}

// renderFooter renders the footer bar with key hints.
func (m Model) renderFooter() string {
	keys := []keyHint{{"1-3", "switch view"}}

	switch m.currentView {
	case ViewStocks:
		if m.stocks.Mode == StocksModeSearching {
			keys = []keyHint{{"enter", "done"}, {"esc", "clear"}}
			break
		}
		keys = append(keys,
			keyHint{"↑/↓", "navigate"},
			keyHint{"/", "search"},
			keyHint{"s", "sector"},
			keyHint{"o", "sort"},
			keyHint{"n/p", "page"},
			keyHint{"r", "refresh"},
		)
	case ViewNews:
		if m.news.Mode == NewsModeReading {
			keys = []keyHint{{"esc", "back"}}
			break
		}
		keys = append(keys,
			keyHint{"↑/↓", "navigate"},
			keyHint{"enter", "read"},
			keyHint{"c", "category"},
			keyHint{"n/p", "page"},
			keyHint{"r", "refresh"},
		)
	case ViewMarket:
		keys = append(keys, keyHint{"r", "refresh"})
	}

	keys = append(keys, keyHint{"q", "quit"})

	var parts []string
	for _, k := range keys {
		parts = append(parts, KeyStyle.Render(k.key)+" "+DescStyle.Render(k.desc))
	}
	return m.fullWidth(strings.Join(parts, "  •  "))
}

func (m Model) fullWidth(s string) string {
	if padding := m.width - lipgloss.Width(s); padding > 0 {
		s += strings.Repeat(" ", padding)
	}
	return lipgloss.NewStyle().
		Background(ColorBackground).
		Width(m.width).
		Render(s)
}

func errorView(err error) string {
	msg := ErrorStyle.Render(fmt.Sprintf("Error: %v", err))
	if sageapi.IsUnreachable(err) {
		msg += "\n" + DescStyle.Render("Is the StockSage server running? Check api_base_url with: sage configure")
	}
	return msg + "\n\n" + DescStyle.Render("Press 'r' to retry")
}

func emptyView() string {
	return LabelStyle.Render("No results")
}
