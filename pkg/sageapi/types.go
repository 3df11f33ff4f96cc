// Package sageapi defines the wire types of the StockSage REST API.
//
// This package can be imported by external projects that talk to a
// StockSage backend directly.
package sageapi

import (
	"sort"
	"strings"
)

// =============================================================================
// Listing Types
// =============================================================================

// Company is a listed company snapshot as served by /api/companies.
type Company struct {
	Symbol               string `json:"symbol"`
	Name                 string `json:"name"`
	Sector               string `json:"sector"`
	ListedShares         Number `json:"listed_shares"`
	PaidUp               Number `json:"paid_up"`
	TotalPaidUpCapital   Number `json:"total_paid_up_capital"`
	MarketCapitalization Number `json:"market_capitalization"`
	MarketPrice          Number `json:"market_price"`
	AsOf                 string `json:"as_of"`
	URL                  string `json:"url,omitempty"`
}

// Sector is an entry of /api/sectors.
type Sector struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Category is a news category.
type Category string

const (
	CategoryAll       Category = "all"
	CategoryMarket    Category = "market"
	CategoryCorporate Category = "corporate"
	CategoryCompany   Category = "company"
)

// Categories lists every known news category, "all" first.
var Categories = []Category{CategoryAll, CategoryMarket, CategoryCorporate, CategoryCompany}

// ParseCategory normalizes s into a Category. An empty string means "all".
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c == "" {
		return CategoryAll, nil
	}
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", &ValidationError{Field: "category", Reason: "must be one of all, market, corporate, company"}
}

// Title returns the category name with its first letter upper-cased.
func (c Category) Title() string {
	if c == "" {
		return "All"
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// NewsItem is a single article from /api/news.
type NewsItem struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	URL      string   `json:"url"`
	Date     string   `json:"date"`
	Source   string   `json:"source"`
	Category Category `json:"category,omitempty"`
}

// =============================================================================
// Market Types
// =============================================================================

// MarketSummary is the scraped market summary table.
type MarketSummary struct {
	Heading string            `json:"heading"`
	Summary map[string]string `json:"summary"`
}

// SummaryEntry is a single key/value row of a MarketSummary.
type SummaryEntry struct {
	Key   string
	Value string
}

// Entries returns the summary rows sorted by key.
func (m MarketSummary) Entries() []SummaryEntry {
	entries := make([]SummaryEntry, 0, len(m.Summary))
	for k, v := range m.Summary {
		entries = append(entries, SummaryEntry{Key: k, Value: v})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries
}

// StockReturn is an entry of /api/stock-returns.
type StockReturn struct {
	Symbol         string `json:"symbol"`
	CurrentPrice   Number `json:"current_price"`
	PredictedPrice Number `json:"predicted_price"`
	ExpectedReturn Number `json:"expected_return"`
	IsMock         bool   `json:"is_mock,omitempty"`
}

// Prediction is the response of /api/predict/:symbol.
type Prediction struct {
	Symbol         string `json:"symbol"`
	CurrentPrice   Number `json:"current_price"`
	PredictedPrice Number `json:"predicted_price"`
	ExpectedReturn Number `json:"expected_return"`
	Horizon        string `json:"horizon,omitempty"`
	GeneratedAt    string `json:"generated_at,omitempty"`
}

// AnalyzeRequest is the body of POST /api/analyze.
type AnalyzeRequest struct {
	Symbol string `json:"symbol"`
	Text   string `json:"text,omitempty"`
}

// Analysis is the response of POST /api/analyze.
type Analysis struct {
	Symbol    string `json:"symbol"`
	Sentiment string `json:"sentiment"`
	Score     Number `json:"score"`
	Summary   string `json:"summary"`
}

// =============================================================================
// Account Types
// =============================================================================

// User is the account snapshot returned on login and by /api/user/profile.
type User struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
}

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the response of POST /api/login.
type LoginResponse struct {
	Token   string `json:"token"`
	User    *User  `json:"user,omitempty"`
	Message string `json:"message,omitempty"`
}

// RegisterRequest is the body of POST /api/register.
type RegisterRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

// MessageResponse is a generic {"message": "..."} response.
type MessageResponse struct {
	Message string `json:"message"`
}

// AuthStatus is the response of GET /api/check-auth.
type AuthStatus struct {
	Authenticated bool  `json:"authenticated"`
	User          *User `json:"user,omitempty"`
}

// ProfileUpdate is the body of PUT /api/user/profile.
type ProfileUpdate struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	CurrentPassword string `json:"currentPassword,omitempty"`
	NewPassword     string `json:"newPassword,omitempty"`
}

// ContactMessage is the body of POST /api/contact.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}
