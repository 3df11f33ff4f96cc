// Package listing turns a fetched company or news list plus the user's
// filter state into the page that gets displayed.
//
// Everything here is a pure function of its inputs: the same list and state
// always produce the same page, and input slices are never modified.
package listing

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/stocksage/sage/pkg/sageapi"
)

// Page sizes used by the different listings.
const (
	CompanyPageSize  = 30
	NewsPageSize     = 9
	CategoryPageSize = 10
)

// AllSectors is accepted as a sector selector meaning "no filter".
const AllSectors = "all"

// Page is one page of a filtered listing.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
	TotalItems int `json:"totalItems"`
	PageSize   int `json:"pageSize"`
}

// Empty reports whether the filtered listing has no items at all.
func (p Page[T]) Empty() bool {
	return p.TotalItems == 0
}

// HasNext reports whether a page follows this one.
func (p Page[T]) HasNext() bool {
	return p.Page < p.TotalPages
}

// HasPrev reports whether a page precedes this one.
func (p Page[T]) HasPrev() bool {
	return p.Page > 1
}

// TotalPages returns ceil(count/size), never less than 1.
func TotalPages(count, size int) int {
	if size <= 0 || count <= 0 {
		return 1
	}
	return (count + size - 1) / size
}

// Paginate slices items into the 1-based page of the given size.
// A page outside [1, TotalPages] falls back to page 1.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = 1
	}
	total := TotalPages(len(items), size)
	if page < 1 || page > total {
		page = 1
	}

	start := (page - 1) * size
	end := start + size
	if end > len(items) {
		end = len(items)
	}

	out := make([]T, end-start)
	copy(out, items[start:end])

	return Page[T]{
		Items:      out,
		Page:       page,
		TotalPages: total,
		TotalItems: len(items),
		PageSize:   size,
	}
}

// Companies runs the sector filter, search filter, name sort and pagination
// over list.
func Companies(list []sageapi.Company, state FilterState) Page[sageapi.Company] {
	return Paginate(FilterCompanies(list, state), state.Page, CompanyPageSize)
}

// FilterCompanies applies the sector filter, search filter and sort from
// state, without paginating.
func FilterCompanies(list []sageapi.Company, state FilterState) []sageapi.Company {
	sector := strings.TrimSpace(state.Sector)
	term := strings.ToLower(strings.TrimSpace(state.Search))

	results := make([]sageapi.Company, 0, len(list))
	for _, c := range list {
		if sector != "" && !strings.EqualFold(sector, AllSectors) && c.Sector != sector {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(c.Symbol), term) &&
			!strings.Contains(strings.ToLower(c.Name), term) {
			continue
		}
		results = append(results, c)
	}

	SortByName(results, state.Ascending)
	return results
}

// SortByName sorts companies in place by name using English collation.
// The sort is stable so equal names keep their fetch order.
func SortByName(companies []sageapi.Company, ascending bool) {
	// Collators keep internal buffers and are not safe for concurrent use.
	col := collate.New(language.English)
	sort.SliceStable(companies, func(i, j int) bool {
		if ascending {
			return col.CompareString(companies[i].Name, companies[j].Name) < 0
		}
		return col.CompareString(companies[j].Name, companies[i].Name) < 0
	})
}

// News filters list by category and paginates it with the given page size.
// Fetch order is preserved.
func News(list []sageapi.NewsItem, category sageapi.Category, page, size int) Page[sageapi.NewsItem] {
	return Paginate(FilterNews(list, category), page, size)
}

// FilterNews keeps the items of the given category. An empty category or
// "all" keeps everything.
func FilterNews(list []sageapi.NewsItem, category sageapi.Category) []sageapi.NewsItem {
	results := make([]sageapi.NewsItem, 0, len(list))
	for _, item := range list {
		if category != "" && category != sageapi.CategoryAll && item.Category != category {
			continue
		}
		results = append(results, item)
	}
	return results
}

// ValidCompanies drops entries missing a symbol, name or sector.
func ValidCompanies(list []sageapi.Company) []sageapi.Company {
	valid := make([]sageapi.Company, 0, len(list))
	for _, c := range list {
		if c.Symbol == "" || c.Name == "" || c.Sector == "" {
			continue
		}
		valid = append(valid, c)
	}
	return valid
}

// SectorCount is a sector name with the number of companies in it.
type SectorCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Sectors returns the distinct sectors of list in first-seen order.
func Sectors(list []sageapi.Company) []SectorCount {
	index := make(map[string]int)
	var sectors []SectorCount
	for _, c := range list {
		if c.Sector == "" {
			continue
		}
		if i, ok := index[c.Sector]; ok {
			sectors[i].Count++
			continue
		}
		index[c.Sector] = len(sectors)
		sectors = append(sectors, SectorCount{Name: c.Sector, Count: 1})
	}
	return sectors
}
