package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stocksage/sage/internal/inflight"
	"github.com/stocksage/sage/internal/listing"
	"github.com/stocksage/sage/pkg/sageapi"
)

// NewsMode represents the input mode of the news view.
type NewsMode int

const (
	NewsModeList NewsMode = iota
	NewsModeReading
)

// NewsModel holds the state for the news view.
type NewsModel struct {
	State       LoadState
	Err         error
	Items       []sageapi.NewsItem
	Filter      listing.NewsState
	Page        listing.Page[sageapi.NewsItem]
	LastUpdated time.Time
	Table       table.Model
	Mode        NewsMode
	Reading     sageapi.NewsItem

	width   int
	tracker inflight.Tracker
}

// NewNewsModel creates a news model starting on the remembered category.
func NewNewsModel(prefs *UIConfig) *NewsModel {
	cols := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Title", Width: 64},
		{Title: "Source", Width: 18},
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(listing.NewsPageSize),
	)
	t.SetStyles(TableStyles())

	return &NewsModel{
		State:  StateLoading,
		Filter: listing.NewNewsState().WithCategory(prefs.Category()),
		Table:  t,
		Mode:   NewsModeList,
	}
}

// SetSize records the content width used to wrap article text.
func (m *NewsModel) SetSize(width, height int) {
	m.width = width
	m.Table.SetHeight(min(height, listing.NewsPageSize))
}

// Load fetches the current category, superseding any request still in flight.
func (m *NewsModel) Load(parent context.Context, f Fetcher) tea.Cmd {
	ctx, ticket := m.tracker.Begin(parent)
	m.State = StateLoading
	return FetchNews(ctx, ticket, f, m.Filter.Category)
}

// Cancel aborts the outstanding fetch.
func (m *NewsModel) Cancel() {
	m.tracker.Cancel()
}

// Update handles messages for the news view.
// The returned bool is true when the category changed and news must be refetched.
func (m *NewsModel) Update(msg tea.Msg) (*NewsModel, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case NewsLoadedMsg:
		if !m.tracker.Current(msg.Ticket) {
			return m, nil, false
		}
		m.State = StateLoaded
		m.Err = nil
		m.Items = msg.Items
		m.LastUpdated = time.Now()
		m.refresh()
		return m, nil, false

	case NewsErrorMsg:
		if !m.tracker.Current(msg.Ticket) {
			return m, nil, false
		}
		m.State = StateError
		m.Err = msg.Err
		return m, nil, false

	case tea.KeyMsg:
		if m.Mode == NewsModeReading {
			switch msg.String() {
			case "esc", "backspace", "enter":
				m.Mode = NewsModeList
			}
			return m, nil, false
		}

		switch msg.String() {
		case "c":
			m.Filter = m.Filter.WithCategory(nextCategory(m.Filter.Category))
			return m, nil, true
		}

		if m.State != StateLoaded {
			return m, nil, false
		}

		switch msg.String() {
		case "n", "right":
			m.Filter = m.Filter.NextPage(m.Page.TotalPages)
			m.refresh()
			return m, nil, false
		case "p", "left":
			m.Filter = m.Filter.PrevPage()
			m.refresh()
			return m, nil, false
		case "enter":
			if item, ok := m.SelectedItem(); ok {
				m.Reading = item
				m.Mode = NewsModeReading
			}
			return m, nil, false
		}

		var cmd tea.Cmd
		m.Table, cmd = m.Table.Update(msg)
		return m, cmd, false
	}

	return m, nil, false
}

func (m *NewsModel) refresh() {
	m.Page = listing.News(m.Items, m.Filter.Category, m.Filter.Page, listing.NewsPageSize)
	if m.Page.Page != m.Filter.Page {
		m.Filter = m.Filter.WithPage(m.Page.Page)
	}

	rows := make([]table.Row, 0, len(m.Page.Items))
	for _, item := range m.Page.Items {
		rows = append(rows, table.Row{
			item.Date,
			sageapi.Truncate(item.Title, 62),
			sageapi.Truncate(item.Source, 16),
		})
	}
	m.Table.SetRows(rows)
	if m.Table.Cursor() >= len(rows) {
		m.Table.SetCursor(0)
	}
}

// SelectedItem returns the article under the cursor, if any.
func (m *NewsModel) SelectedItem() (sageapi.NewsItem, bool) {
	i := m.Table.Cursor()
	if i < 0 || i >= len(m.Page.Items) {
		return sageapi.NewsItem{}, false
	}
	return m.Page.Items[i], true
}

func nextCategory(current sageapi.Category) sageapi.Category {
	for i, c := range sageapi.Categories {
		if c == current {
			return sageapi.Categories[(i+1)%len(sageapi.Categories)]
		}
	}
	return sageapi.CategoryAll
}

// View renders the news view.
func (m *NewsModel) View() string {
	categoryLine := LabelStyle.Render("Category: ") + ValueStyle.Render(m.Filter.Category.Title())

	switch m.State {
	case StateLoading:
		return categoryLine + "\n\n" + fmt.Sprintf("Loading %s news...", m.Filter.Category)
	case StateError:
		return categoryLine + "\n\n" + errorView(m.Err)
	}

	if m.Mode == NewsModeReading {
		return m.articleView()
	}

	var b strings.Builder
	b.WriteString(categoryLine)
	b.WriteString("\n")
	if m.Page.Empty() {
		b.WriteString("\n")
		b.WriteString(emptyView())
		return b.String()
	}
	b.WriteString(m.Table.View())
	b.WriteString("\n")
	b.WriteString(LabelStyle.Render(fmt.Sprintf("Page %d of %d (%d articles)  Updated %s",
		m.Page.Page, m.Page.TotalPages, m.Page.TotalItems, m.LastUpdated.Format("15:04:05"))))
	return b.String()
}

func (m *NewsModel) articleView() string {
	item := m.Reading
	width := m.width
	if width < 20 {
		width = 80
	}
	wrap := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	b.WriteString(wrap.Render(TitleStyle.Render(item.Title)))
	b.WriteString("\n")
	b.WriteString(LabelStyle.Render(fmt.Sprintf("%s | %s", item.Date, item.Source)))
	b.WriteString("\n\n")
	if text := sageapi.PlainText(item.Content); text != "" {
		b.WriteString(wrap.Render(text))
		b.WriteString("\n\n")
	}
	if item.URL != "" {
		b.WriteString(DescStyle.Render(item.URL))
	}
	return b.String()
}
