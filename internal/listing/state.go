package listing

import "github.com/stocksage/sage/pkg/sageapi"

// FilterState is the user-controlled part of the company listing.
// Values are immutable: every transition returns a new state.
type FilterState struct {
	Sector    string `json:"sector"`
	Search    string `json:"search"`
	Ascending bool   `json:"ascending"`
	Page      int    `json:"page"`
}

// NewFilterState returns the initial state: no filters, A-Z, page 1.
func NewFilterState() FilterState {
	return FilterState{Ascending: true, Page: 1}
}

// WithSector selects a sector and returns to page 1.
func (s FilterState) WithSector(sector string) FilterState {
	s.Sector = sector
	s.Page = 1
	return s
}

// WithSearch sets the search term and returns to page 1.
func (s FilterState) WithSearch(term string) FilterState {
	s.Search = term
	s.Page = 1
	return s
}

// WithSort sets the sort direction and returns to page 1.
func (s FilterState) WithSort(ascending bool) FilterState {
	s.Ascending = ascending
	s.Page = 1
	return s
}

// ToggleSort flips the sort direction and returns to page 1.
func (s FilterState) ToggleSort() FilterState {
	return s.WithSort(!s.Ascending)
}

// WithPage moves to page, clamped to at least 1.
func (s FilterState) WithPage(page int) FilterState {
	if page < 1 {
		page = 1
	}
	s.Page = page
	return s
}

// NextPage advances one page without passing totalPages.
func (s FilterState) NextPage(totalPages int) FilterState {
	if s.Page >= totalPages {
		return s
	}
	return s.WithPage(s.Page + 1)
}

// PrevPage goes back one page without passing page 1.
func (s FilterState) PrevPage() FilterState {
	return s.WithPage(s.Page - 1)
}

// NewsState is the user-controlled part of the news listing.
type NewsState struct {
	Category sageapi.Category `json:"category"`
	Page     int              `json:"page"`
}

// NewNewsState returns the initial news state: all categories, page 1.
func NewNewsState() NewsState {
	return NewsState{Category: sageapi.CategoryAll, Page: 1}
}

// WithCategory selects a category and returns to page 1.
func (s NewsState) WithCategory(c sageapi.Category) NewsState {
	s.Category = c
	s.Page = 1
	return s
}

// WithPage moves to page, clamped to at least 1.
func (s NewsState) WithPage(page int) NewsState {
	if page < 1 {
		page = 1
	}
	s.Page = page
	return s
}

// NextPage advances one page without passing totalPages.
func (s NewsState) NextPage(totalPages int) NewsState {
	if s.Page >= totalPages {
		return s
	}
	return s.WithPage(s.Page + 1)
}

// PrevPage goes back one page without passing page 1.
func (s NewsState) PrevPage() NewsState {
	return s.WithPage(s.Page - 1)
}
