package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/maxviazov/pagedquery/internal/pagedquery"
	"github.com/maxviazov/pagedquery/internal/repository"
)

// Querier is the query surface shared by pgxpool.Pool, pgx.Conn and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Source runs paged queries over pgx, scanning rows with scan.
type Source[T any] struct {
	db   Querier
	scan pgx.RowToFunc[T]
}

// NewSource returns a Source over db. Queries join the transaction started by
// TxManager.WithinTx when ctx carries one.
func NewSource[T any](db Querier, scan pgx.RowToFunc[T]) *Source[T] {
	return &Source[T]{db: db, scan: scan}
}

func (s *Source[T]) QueryOne(ctx context.Context, sql string, args ...any) (int, error) {
	var n int64
	if err := getQ(ctx, s.db).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, repository.MapPgError(err)
	}
	return int(n), nil
}

func (s *Source[T]) CountRows(ctx context.Context, sql string, args ...any) (int, error) {
	rows, err := getQ(ctx, s.db).Query(ctx, sql, args...)
	if err != nil {
		return 0, repository.MapPgError(err)
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		n++
	}
	if err := rows.Err(); err != nil {
		return 0, repository.MapPgError(err)
	}
	return n, nil
}

func (s *Source[T]) LimitQuery(ctx context.Context, sql string, w pagedquery.Window, args ...any) ([]T, error) {
	rows, err := getQ(ctx, s.db).Query(ctx, pagedquery.LimitClause(sql, w), args...)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	out, err := pgx.CollectRows(rows, s.scan)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	return out, nil
}

// Paginate returns the requested page of q read from db.
func Paginate[T any](ctx context.Context, p *pagedquery.Paginator, db Querier, scan pgx.RowToFunc[T], q pagedquery.Query, req pagedquery.Request) (*pagedquery.Page[T], error) {
	return pagedquery.NewExecutor[T](NewSource(db, scan), p).Execute(ctx, q, req)
}

var _ pagedquery.Source[map[string]any] = (*Source[map[string]any])(nil)
