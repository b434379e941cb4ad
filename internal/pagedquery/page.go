// Package pagedquery runs a query one page at a time: it resolves the total
// row count (cheaply when it can), builds the pager metadata and fetches
// only the rows of the requested page.
package pagedquery

import (
	"context"

	"github.com/maxviazov/pagedquery/internal/pager"
)

// CountStrategy tells how Page.TotalItems was obtained.
type CountStrategy string

const (
	CountProvided CountStrategy = "provided"
	CountRewrite  CountStrategy = "rewrite"
	CountSubquery CountStrategy = "subquery"
	CountFullScan CountStrategy = "full_scan"
	CountModel    CountStrategy = "model"
	CountCached   CountStrategy = "cached"
)

// Window is the slice of rows a fetch must return. All is set when
// pagination is disabled; Limit then equals the total row count.
type Window struct {
	Offset int
	Limit  int
	All    bool
}

// CountFunc resolves the total number of rows.
type CountFunc func(ctx context.Context) (int, CountStrategy, error)

// FetchFunc returns the rows inside w, in source order.
type FetchFunc[T any] func(ctx context.Context, w Window) ([]T, error)

// SelectBox asks for a rendered per-page select element.
type SelectBox struct {
	Start int
	End   int
	Step  int
}

// Request carries everything but the query itself.
type Request struct {
	Options   pager.Options
	Disabled  bool
	SelectBox *SelectBox
}

// PageNumbers is the current and total page pair.
type PageNumbers struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// Page is one page of rows plus its pagination metadata.
type Page[T any] struct {
	Rows             []T           `json:"data"`
	TotalItems       int           `json:"total_items"`
	PageNumbers      PageNumbers   `json:"page_numbers"`
	From             int           `json:"from"`
	To               int           `json:"to"`
	Limit            int           `json:"limit"`
	Links            string        `json:"links"`
	PerPageSelectBox string        `json:"per_page_select_box,omitempty"`
	CountStrategy    CountStrategy `json:"count_strategy"`
}
