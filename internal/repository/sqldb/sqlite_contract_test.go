package sqldb

import (
	"context"
	"database/sql"
	"testing"

	"github.com/maxviazov/pagedquery/internal/pagedquery"
	"github.com/maxviazov/pagedquery/internal/pager"
	"github.com/maxviazov/pagedquery/internal/repository/contract"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openSQLite(t *testing.T, stmts ...string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// every connection would get its own empty in-memory database
	db.SetMaxOpenConns(1)
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}
	return db
}

func makeSQLitePaginate(t *testing.T) (contract.PaginateFunc, func()) {
	t.Helper()
	db := openSQLite(t, contract.Seed()...)
	paginate := func(ctx context.Context, q pagedquery.Query, req pagedquery.Request) (*pagedquery.Page[int64], error) {
		return Paginate(ctx, nil, db, ScanValue[int64], q, req)
	}
	return paginate, func() { _ = db.Close() }
}

func TestPaginate_SQLiteContract(t *testing.T) {
	contract.RunPaginationContract(t, makeSQLitePaginate, "?")
}

// staleCache answers every count with a fixed total.
type staleCache struct{ total int }

func (c staleCache) Wrap(string, pagedquery.CountFunc) pagedquery.CountFunc {
	return func(context.Context) (int, pagedquery.CountStrategy, error) {
		return c.total, pagedquery.CountCached, nil
	}
}

func TestPaginate_SQLiteDisabledIgnoresStaleCache(t *testing.T) {
	db := openSQLite(t,
		"CREATE TABLE small (id BIGINT PRIMARY KEY)",
		"INSERT INTO small (id) VALUES (1), (2), (3), (4), (5)")
	t.Cleanup(func() { _ = db.Close() })
	p := pagedquery.NewPaginator(zerolog.Nop(), pagedquery.WithCountCache(staleCache{total: 2}))
	q := pagedquery.Query{SQL: "SELECT id FROM small ORDER BY id"}

	paged, err := Paginate(context.Background(), p, db, ScanValue[int64], q, request(2, 1))
	require.NoError(t, err)
	assert.Equal(t, pagedquery.CountCached, paged.CountStrategy)
	assert.Equal(t, 2, paged.TotalItems)
	assert.Equal(t, []int64{1, 2}, paged.Rows)

	req := request(10, 1)
	req.Disabled = true
	all, err := Paginate(context.Background(), p, db, ScanValue[int64], q, req)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, all.Rows)
	assert.Equal(t, 5, all.TotalItems)
	assert.Equal(t, pagedquery.CountRewrite, all.CountStrategy)
}

func TestPaginate_SQLiteDisabledHugeTotal(t *testing.T) {
	db := openSQLite(t, contract.Seed()...)
	t.Cleanup(func() { _ = db.Close() })

	req := pagedquery.Request{
		Options:  pager.Options{PerPage: 10, CurrentPage: 1}.WithTotal(1 << 50),
		Disabled: true,
	}
	var page *pagedquery.Page[int64]
	require.NotPanics(t, func() {
		var err error
		page, err = Paginate(context.Background(), nil, db, ScanValue[int64],
			pagedquery.Query{SQL: "SELECT id FROM items ORDER BY id"}, req)
		require.NoError(t, err)
	})
	assert.Len(t, page.Rows, contract.ItemCount)
	assert.Equal(t, contract.ItemCount, page.TotalItems)
	assert.Equal(t, pagedquery.CountProvided, page.CountStrategy)
}
