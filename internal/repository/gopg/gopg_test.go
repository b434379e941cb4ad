package gopg

import (
	"testing"

	"github.com/go-pg/pg/v10/orm"
	"github.com/maxviazov/pagedquery/internal/pagedquery"
	"github.com/stretchr/testify/assert"
)

type item struct {
	ID  int64
	Grp int64
}

func selectSQL(t *testing.T, fns ...ApplyFn) string {
	t.Helper()
	q := orm.NewQuery(nil, &[]item{})
	for _, fn := range fns {
		q = q.Apply(fn)
	}
	return orm.NewSelectQuery(q).String()
}

func TestWindow(t *testing.T) {
	sql := selectSQL(t, Window(pagedquery.Window{Offset: 20, Limit: 10}))
	assert.Contains(t, sql, `FROM "items"`)
	assert.Contains(t, sql, "LIMIT 10")
	assert.Contains(t, sql, "OFFSET 20")

	sql = selectSQL(t, Window(pagedquery.Window{Limit: 25, All: true}))
	assert.NotContains(t, sql, "LIMIT")
	assert.NotContains(t, sql, "OFFSET")
}

func TestWindow_KeepsFilters(t *testing.T) {
	byGroup := func(q *orm.Query) (*orm.Query, error) {
		return q.Where("grp = ?", 1).Order("id"), nil
	}
	sql := selectSQL(t, byGroup, Window(pagedquery.Window{Offset: 5, Limit: 5}))
	assert.Contains(t, sql, "WHERE (grp = 1)")
	assert.Contains(t, sql, "ORDER BY")
	assert.Contains(t, sql, "LIMIT 5")
}
