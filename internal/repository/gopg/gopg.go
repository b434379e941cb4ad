// Package gopg paginates go-pg ORM models.
package gopg

import (
	"context"

	"github.com/go-pg/pg/v10/orm"
	"github.com/maxviazov/pagedquery/internal/pagedquery"
)

// ApplyFn shapes the model query, compatible with orm.Query.Apply.
type ApplyFn = func(q *orm.Query) (*orm.Query, error)

// Window bounds a query to the rows of w. A disabled window leaves the
// query unbounded.
func Window(w pagedquery.Window) ApplyFn {
	return func(q *orm.Query) (*orm.Query, error) {
		if w.All {
			return q, nil
		}
		return q.Offset(w.Offset).Limit(w.Limit), nil
	}
}

// Paginate returns the requested page of T. Filters are applied to both
// the count and the fetch.
func Paginate[T any](ctx context.Context, p *pagedquery.Paginator, db orm.DB, req pagedquery.Request, filters ...ApplyFn) (*pagedquery.Page[T], error) {
	apply := func(q *orm.Query) *orm.Query {
		for _, fn := range filters {
			q = q.Apply(fn)
		}
		return q
	}
	count := func(ctx context.Context) (int, pagedquery.CountStrategy, error) {
		n, err := apply(db.ModelContext(ctx, (*T)(nil))).Count()
		return n, pagedquery.CountModel, err
	}
	fetch := func(ctx context.Context, w pagedquery.Window) ([]T, error) {
		var out []T
		if err := apply(db.ModelContext(ctx, &out)).Apply(Window(w)).Select(); err != nil {
			return nil, err
		}
		return out, nil
	}
	return pagedquery.Paginate(ctx, p, req, count, fetch)
}
