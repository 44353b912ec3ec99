package queryfilter

import (
	"context"
	"fmt"
	"strconv"

	"github.com/SanteonNL/queryfilter/cmd/fenix/types"
)

// ResultSet is the materialized result of a filter application. Page is nil
// when the result was not paginated.
type ResultSet struct {
	Rows []types.Row
	Page *types.Page
}

// Total returns the number of matching rows, across all pages.
func (rs *ResultSet) Total() int {
	if rs.Page != nil {
		return rs.Page.Total
	}
	return len(rs.Rows)
}

// Link is a pagination link expressed as the query string reproducing the
// applied filters on Page.
type Link struct {
	Rel   string
	Page  int
	Query string
}

// Results executes the filtered target once and returns the same ResultSet on
// every later call. A failed fetch is remembered as well.
func (f *Filters) Results(ctx context.Context) (*ResultSet, error) {
	if !f.filtered {
		return nil, ErrNotApplied
	}
	if f.materialized {
		return f.results, f.resultsErr
	}
	f.materialized = true

	if f.IsPaginated() {
		page, err := f.target.Paginate(ctx, f.pagination, f.page)
		if err != nil {
			f.resultsErr = fmt.Errorf("failed to fetch page %d of %s: %w", f.page, f.target.Table(), err)
			return nil, f.resultsErr
		}
		f.results = &ResultSet{Rows: page.Items, Page: page}
	} else {
		rows, err := f.target.Get(ctx)
		if err != nil {
			f.resultsErr = fmt.Errorf("failed to fetch %s: %w", f.target.Table(), err)
			return nil, f.resultsErr
		}
		f.results = &ResultSet{Rows: rows}
	}

	f.log.Debug().
		Str("table", f.target.Table()).
		Int("rows", len(f.results.Rows)).
		Int("total", f.results.Total()).
		Msg("Materialized filter results")

	return f.results, nil
}

// Run applies the filters to target and materializes the results.
func (f *Filters) Run(ctx context.Context, target Target) (*ResultSet, error) {
	if err := f.Apply(ctx, target); err != nil {
		return nil, err
	}
	return f.Results(ctx)
}

// AppliedParams returns the consumed filters with the prefix applied again,
// ready to be appended to a link.
func (f *Filters) AppliedParams() []types.Param {
	params := make([]types.Param, 0, len(f.consumed))
	for _, p := range f.consumed {
		params = append(params, types.Param{Key: f.cfg.Prefix + p.Key, Value: p.Value})
	}
	return params
}

// PageQuery returns the query string reproducing the applied filters on page.
func (f *Filters) PageQuery(page int) string {
	pageKey := f.cfg.Prefix + "page"

	params := make([]types.Param, 0, len(f.consumed)+1)
	for _, p := range f.AppliedParams() {
		if p.Key == pageKey {
			continue
		}
		params = append(params, p)
	}
	params = append(params, types.Param{Key: pageKey, Value: strconv.Itoa(page)})
	return EncodeParams(params)
}

// Links materializes the results and returns self, first, previous, next and
// last links. Unpaginated results or disabled links give no links.
func (f *Filters) Links(ctx context.Context) ([]Link, error) {
	if !f.cfg.Links {
		return nil, nil
	}
	rs, err := f.Results(ctx)
	if err != nil {
		return nil, err
	}
	if rs.Page == nil {
		return nil, nil
	}

	page := rs.Page
	link := func(rel string, n int) Link {
		return Link{Rel: rel, Page: n, Query: f.PageQuery(n)}
	}

	links := []Link{link("self", page.CurrentPage)}
	if page.CurrentPage > 1 {
		links = append(links, link("first", 1))
		prev := page.CurrentPage - 1
		if prev > page.LastPage {
			prev = page.LastPage
		}
		links = append(links, link("previous", prev))
	}
	if page.HasMorePages() {
		links = append(links, link("next", page.CurrentPage+1))
	}
	if page.Total > 0 {
		links = append(links, link("last", page.LastPage))
	}
	return links, nil
}
