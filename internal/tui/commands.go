package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stocksage/sage/internal/inflight"
	"github.com/stocksage/sage/pkg/sageapi"
)

// Fetcher is the part of the API client the TUI reads from.
type Fetcher interface {
	CompaniesWithSectors(ctx context.Context) ([]sageapi.Company, []sageapi.Sector, error)
	News(ctx context.Context, category sageapi.Category) ([]sageapi.NewsItem, error)
	MarketSummary(ctx context.Context) (*sageapi.MarketSummary, error)
}

// FetchCompanies loads companies and the sector catalogue.
func FetchCompanies(ctx context.Context, ticket inflight.Ticket, f Fetcher) tea.Cmd {
	return func() tea.Msg {
		companies, sectors, err := f.CompaniesWithSectors(ctx)
		if err != nil {
			return CompaniesErrorMsg{Ticket: ticket, Err: err}
		}
		return CompaniesLoadedMsg{Ticket: ticket, Companies: companies, Sectors: sectors}
	}
}

// FetchNews loads the news of one category.
func FetchNews(ctx context.Context, ticket inflight.Ticket, f Fetcher, category sageapi.Category) tea.Cmd {
	return func() tea.Msg {
		items, err := f.News(ctx, category)
		if err != nil {
			return NewsErrorMsg{Ticket: ticket, Err: err}
		}
		return NewsLoadedMsg{Ticket: ticket, Category: category, Items: items}
	}
}

// FetchMarket loads the market summary.
func FetchMarket(ctx context.Context, ticket inflight.Ticket, f Fetcher) tea.Cmd {
	return func() tea.Msg {
		summary, err := f.MarketSummary(ctx)
		if err != nil {
			return MarketErrorMsg{Ticket: ticket, Err: err}
		}
		return MarketLoadedMsg{Ticket: ticket, Summary: summary}
	}
}

// SavePrefs writes the UI preferences in the background.
func SavePrefs(path string, cfg UIConfig) tea.Cmd {
	return func() tea.Msg {
		if err := SaveConfig(path, &cfg); err != nil {
			return PrefsErrorMsg{Err: err}
		}
		return PrefsSavedMsg{}
	}
}
