package gopg

import (
	"context"
	"os"
	"testing"

	"github.com/go-pg/pg/v10"
	"github.com/go-pg/pg/v10/orm"
	"github.com/maxviazov/pagedquery/internal/pagedquery"
	"github.com/maxviazov/pagedquery/internal/pager"
	"github.com/maxviazov/pagedquery/internal/repository/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T) *pg.DB {
	t.Helper()
	if os.Getenv("CONTRACT_TESTS") != "1" {
		t.Skip("set CONTRACT_TESTS=1 to run Postgres contract tests")
	}
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL is not set")
	}
	opts, err := pg.ParseURL(dsn)
	require.NoError(t, err)
	db := pg.Connect(opts)
	t.Cleanup(func() { _ = db.Close() })

	for _, s := range contract.Seed() {
		_, err := db.Exec(s)
		require.NoError(t, err)
	}
	return db
}

func TestPaginate_GoPGContract(t *testing.T) {
	db := connect(t)
	ctx := context.Background()
	byGroup := func(q *orm.Query) (*orm.Query, error) {
		return q.Where("grp = ?", 0).Order("id"), nil
	}

	page, err := Paginate[item](ctx, nil, db, pagedquery.Request{
		Options: pager.Options{PerPage: 5, CurrentPage: 2},
	}, byGroup)
	require.NoError(t, err)
	assert.Equal(t, 8, page.TotalItems)
	assert.Equal(t, []item{{ID: 18}, {ID: 21}, {ID: 24}}, page.Rows)
	assert.Equal(t, pagedquery.CountModel, page.CountStrategy)

	all, err := Paginate[item](ctx, nil, db, pagedquery.Request{
		Options:  pager.Options{PerPage: 5, CurrentPage: 2},
		Disabled: true,
	}, byGroup)
	require.NoError(t, err)
	assert.Len(t, all.Rows, 8)
	assert.Equal(t, pagedquery.PageNumbers{Current: 1, Total: 1}, all.PageNumbers)

	_, err = Paginate[item](ctx, nil, db, pagedquery.Request{Options: pager.Options{PerPage: 5, CurrentPage: 1}},
		func(q *orm.Query) (*orm.Query, error) { return q.Where("missing_column = 1"), nil })
	assert.ErrorIs(t, err, pagedquery.ErrDataSource)
}
