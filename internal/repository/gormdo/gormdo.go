// Package gormdo paginates gorm models.
package gormdo

import (
	"context"

	"github.com/maxviazov/pagedquery/internal/pagedquery"
	"gorm.io/gorm"
)

// Scope narrows the model query, e.g. with Where or Order.
type Scope = func(db *gorm.DB) *gorm.DB

// Window bounds a query to the rows of w. A disabled window leaves the
// query unbounded.
func Window(w pagedquery.Window) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if w.All {
			return db
		}
		return db.Offset(w.Offset).Limit(w.Limit)
	}
}

// Paginate returns the requested page of T. The model counts itself with
// the same scopes that shape the fetch.
func Paginate[T any](ctx context.Context, p *pagedquery.Paginator, db *gorm.DB, req pagedquery.Request, scopes ...Scope) (*pagedquery.Page[T], error) {
	query := func(ctx context.Context) *gorm.DB {
		return db.WithContext(ctx).Model(new(T)).Scopes(scopes...)
	}
	count := func(ctx context.Context) (int, pagedquery.CountStrategy, error) {
		var n int64
		if err := query(ctx).Count(&n).Error; err != nil {
			return 0, pagedquery.CountModel, err
		}
		return int(n), pagedquery.CountModel, nil
	}
	fetch := func(ctx context.Context, w pagedquery.Window) ([]T, error) {
		var out []T
		if err := query(ctx).Scopes(Window(w)).Find(&out).Error; err != nil {
			return nil, err
		}
		return out, nil
	}
	return pagedquery.Paginate(ctx, p, req, count, fetch)
}
