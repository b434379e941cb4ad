// Package sqldb paginates raw SQL over database/sql.
package sqldb

import (
	"context"
	"database/sql"

	"github.com/maxviazov/pagedquery/internal/pagedquery"
	"github.com/maxviazov/pagedquery/internal/repository"
)

// Querier is implemented by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ScanFunc reads the current row.
type ScanFunc[T any] func(rows *sql.Rows) (T, error)

// Source runs paged queries over database/sql. Postgres errors reached
// through pgx's stdlib driver are mapped like the native adapters do.
type Source[T any] struct {
	db   Querier
	scan ScanFunc[T]
}

func NewSource[T any](db Querier, scan ScanFunc[T]) *Source[T] {
	return &Source[T]{db: db, scan: scan}
}

func (s *Source[T]) QueryOne(ctx context.Context, query string, args ...any) (int, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, repository.MapPgError(err)
	}
	return int(n), nil
}

func (s *Source[T]) CountRows(ctx context.Context, query string, args ...any) (int, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, repository.MapPgError(err)
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		n++
	}
	return n, rows.Err()
}

func (s *Source[T]) LimitQuery(ctx context.Context, query string, w pagedquery.Window, args ...any) ([]T, error) {
	rows, err := s.db.QueryContext(ctx, pagedquery.LimitClause(query, w), args...)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := s.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Paginate returns the requested page of q read from db.
func Paginate[T any](ctx context.Context, p *pagedquery.Paginator, db Querier, scan ScanFunc[T], q pagedquery.Query, req pagedquery.Request) (*pagedquery.Page[T], error) {
	return pagedquery.NewExecutor[T](NewSource(db, scan), p).Execute(ctx, q, req)
}
