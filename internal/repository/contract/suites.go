package contract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/maxviazov/pagedquery/internal/pagedquery"
	"github.com/maxviazov/pagedquery/internal/pager"
)

// ItemCount is the number of rows Seed inserts: ids 1..ItemCount with grp = id % 3.
const ItemCount = 25

// Seed returns the statements that (re)create and fill the items table.
// Only literal values are used so every SQL dialect accepts them.
func Seed() []string {
	return []string{
		"DROP TABLE IF EXISTS items",
		"CREATE TABLE items (id BIGINT PRIMARY KEY, grp BIGINT NOT NULL)",
		InsertItems(),
	}
}

// InsertItems fills an empty items table.
func InsertItems() string {
	values := make([]string, 0, ItemCount)
	for id := 1; id <= ItemCount; id++ {
		values = append(values, fmt.Sprintf("(%d, %d)", id, id%3))
	}
	return "INSERT INTO items (id, grp) VALUES " + strings.Join(values, ", ")
}

// PaginateFunc runs one paginated query whose rows are the first column as int64.
type PaginateFunc func(ctx context.Context, q pagedquery.Query, req pagedquery.Request) (*pagedquery.Page[int64], error)

// Factory returns a PaginateFunc over a freshly seeded items table.
type Factory func(t *testing.T) (PaginateFunc, func())

func ids(from, to int64) []int64 {
	out := make([]int64, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

// checkRows fails t with a diff when got differs from want.
func checkRows(t testing.TB, what string, want, got []int64) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("%s mismatch (-want +got):\n%s", what, diff)
	}
}

func req(perPage, current int) pagedquery.Request {
	return pagedquery.Request{Options: pager.Options{PerPage: perPage, CurrentPage: current}}
}

// RunPaginationContract checks an adapter end to end against the seeded table.
// placeholder is the dialect's first bind parameter, e.g. "$1" or "?".
func RunPaginationContract(t *testing.T, makePaginate Factory, placeholder string) {
	t.Helper()
	ordered := pagedquery.Query{SQL: "SELECT id FROM items ORDER BY id"}

	t.Run("second_page", func(t *testing.T) {
		paginate, cleanup := makePaginate(t)
		t.Cleanup(cleanup)
		page, err := paginate(context.Background(), ordered, req(10, 2))
		if err != nil {
			t.Fatalf("paginate: %v", err)
		}
		if page.TotalItems != ItemCount || page.From != 11 || page.To != 20 {
			t.Fatalf("unexpected bounds: total=%d from=%d to=%d", page.TotalItems, page.From, page.To)
		}
		checkRows(t, "rows", ids(11, 20), page.Rows)
		if page.CountStrategy != pagedquery.CountRewrite {
			t.Fatalf("expected rewrite count, got %s", page.CountStrategy)
		}
		if page.PageNumbers != (pagedquery.PageNumbers{Current: 2, Total: 3}) {
			t.Fatalf("unexpected page numbers: %+v", page.PageNumbers)
		}
	})

	t.Run("last_partial_page", func(t *testing.T) {
		paginate, cleanup := makePaginate(t)
		t.Cleanup(cleanup)
		page, err := paginate(context.Background(), ordered, req(10, 3))
		if err != nil {
			t.Fatalf("paginate: %v", err)
		}
		checkRows(t, "last page rows", ids(21, 25), page.Rows)
		if page.Limit != 5 {
			t.Fatalf("unexpected last page limit: %d", page.Limit)
		}
	})

	t.Run("grouped_query_counts_full_result", func(t *testing.T) {
		paginate, cleanup := makePaginate(t)
		t.Cleanup(cleanup)
		q := pagedquery.Query{SQL: "SELECT grp FROM items GROUP BY grp ORDER BY grp"}
		page, err := paginate(context.Background(), q, req(2, 1))
		if err != nil {
			t.Fatalf("paginate: %v", err)
		}
		if page.TotalItems != 3 || page.CountStrategy != pagedquery.CountFullScan {
			t.Fatalf("unexpected grouped count: total=%d strategy=%s", page.TotalItems, page.CountStrategy)
		}
		checkRows(t, "grouped rows", []int64{0, 1}, page.Rows)
	})

	t.Run("bind_parameters", func(t *testing.T) {
		paginate, cleanup := makePaginate(t)
		t.Cleanup(cleanup)
		q := pagedquery.Query{
			SQL:  "SELECT id FROM items WHERE grp = " + placeholder + " ORDER BY id",
			Args: []any{0},
		}
		page, err := paginate(context.Background(), q, req(5, 2))
		if err != nil {
			t.Fatalf("paginate: %v", err)
		}
		if page.TotalItems != 8 {
			t.Fatalf("unexpected filtered total: %d", page.TotalItems)
		}
		checkRows(t, "filtered rows", []int64{18, 21, 24}, page.Rows)
	})

	t.Run("disabled_returns_everything", func(t *testing.T) {
		paginate, cleanup := makePaginate(t)
		t.Cleanup(cleanup)
		r := req(10, 2)
		r.Disabled = true
		page, err := paginate(context.Background(), ordered, r)
		if err != nil {
			t.Fatalf("paginate: %v", err)
		}
		checkRows(t, "disabled rows", ids(1, ItemCount), page.Rows)
		if page.TotalItems != ItemCount {
			t.Fatalf("disabled total: got %d want %d", page.TotalItems, ItemCount)
		}
		if page.Links != "" || page.PageNumbers != (pagedquery.PageNumbers{Current: 1, Total: 1}) {
			t.Fatalf("disabled override not applied: %+v links=%q", page.PageNumbers, page.Links)
		}
	})

	t.Run("provided_total_and_repeatable", func(t *testing.T) {
		paginate, cleanup := makePaginate(t)
		t.Cleanup(cleanup)
		r := req(10, 3)
		r.Options = r.Options.WithTotal(ItemCount)
		first, err := paginate(context.Background(), ordered, r)
		if err != nil {
			t.Fatalf("paginate: %v", err)
		}
		second, err := paginate(context.Background(), ordered, r)
		if err != nil {
			t.Fatalf("paginate again: %v", err)
		}
		if first.CountStrategy != pagedquery.CountProvided {
			t.Fatalf("expected provided count, got %s", first.CountStrategy)
		}
		checkRows(t, "repeated rows", first.Rows, second.Rows)
	})

	t.Run("invalid_query_is_data_source_error", func(t *testing.T) {
		paginate, cleanup := makePaginate(t)
		t.Cleanup(cleanup)
		_, err := paginate(context.Background(), pagedquery.Query{SQL: "SELECT id FROM missing_table"}, req(10, 1))
		if err == nil {
			t.Fatalf("expected error for unknown table")
		}
		if !isDataSource(err) {
			t.Fatalf("expected data source error, got %v", err)
		}
	})
}

func isDataSource(err error) bool { return errors.Is(err, pagedquery.ErrDataSource) }
