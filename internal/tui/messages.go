package tui

import (
	"time"

	"github.com/stocksage/sage/internal/inflight"
	"github.com/stocksage/sage/pkg/sageapi"
)

// Message types for async operations. Every fetch result carries the ticket
// it was issued under so superseded responses can be dropped.

// CompaniesLoadedMsg is sent when the company list and sector catalogue arrive.
type CompaniesLoadedMsg struct {
	Ticket    inflight.Ticket
	Companies []sageapi.Company
	Sectors   []sageapi.Sector
}

// CompaniesErrorMsg is sent when loading companies fails.
type CompaniesErrorMsg struct {
	Ticket inflight.Ticket
	Err    error
}

// NewsLoadedMsg is sent when the news of a category arrives.
type NewsLoadedMsg struct {
	Ticket   inflight.Ticket
	Category sageapi.Category
	Items    []sageapi.NewsItem
}

// NewsErrorMsg is sent when loading news fails.
type NewsErrorMsg struct {
	Ticket inflight.Ticket
	Err    error
}

// MarketLoadedMsg is sent when a market summary arrives.
type MarketLoadedMsg struct {
	Ticket  inflight.Ticket
	Summary *sageapi.MarketSummary
}

// MarketErrorMsg is sent when loading the market summary fails.
type MarketErrorMsg struct {
	Ticket inflight.Ticket
	Err    error
}

// PrefsSavedMsg is sent when ui.yaml has been written.
type PrefsSavedMsg struct{}

// PrefsErrorMsg is sent when ui.yaml could not be written.
type PrefsErrorMsg struct {
	Err error
}

// TickMsg is sent periodically for auto-refresh.
type TickMsg time.Time
