package types

import "math"

// Row is a single record keyed by column name.
type Row map[string]interface{}

// Page is a page-bounded result together with the information needed to
// render pagination for it.
type Page struct {
	Items       []Row `json:"data"`
	Total       int   `json:"total"`
	PerPage     int   `json:"per_page"`
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
}

// NewPage computes the page descriptor for a slice of items out of total.
func NewPage(items []Row, total, perPage, currentPage int) *Page {
	lastPage := 1
	if perPage > 0 && total > 0 {
		lastPage = (total + perPage - 1) / perPage
	}
	if currentPage < 1 {
		currentPage = 1
	}
	if items == nil {
		items = []Row{}
	}
	return &Page{
		Items:       items,
		Total:       total,
		PerPage:     perPage,
		CurrentPage: currentPage,
		LastPage:    lastPage,
	}
}

// Offset returns the number of rows preceding page for a page size. Pages
// too far out to be counted in an int saturate at math.MaxInt.
func Offset(page, perPage int) int {
	if page < 1 || perPage < 1 {
		return 0
	}
	if page-1 > math.MaxInt/perPage {
		return math.MaxInt
	}
	return (page - 1) * perPage
}

// HasMorePages reports whether pages exist after the current one.
func (p *Page) HasMorePages() bool {
	return p.CurrentPage < p.LastPage
}
