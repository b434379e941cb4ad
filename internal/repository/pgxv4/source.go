// Package pgxv4 paginates raw SQL over pgx v4 connections and pools.
package pgxv4

import (
	"context"
	"fmt"

	"github.com/jackc/pgproto3/v2"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/log/zerologadapter"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/maxviazov/pagedquery/internal/config"
	"github.com/maxviazov/pagedquery/internal/pagedquery"
	"github.com/maxviazov/pagedquery/internal/repository"
	"github.com/rs/zerolog"
)

// Querier is implemented by pgxpool.Pool, pgx.Conn and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// ScanFunc reads the current row.
type ScanFunc[T any] func(rows pgx.Rows) (T, error)

type Source[T any] struct {
	db   Querier
	scan ScanFunc[T]
}

func NewSource[T any](db Querier, scan ScanFunc[T]) *Source[T] {
	return &Source[T]{db: db, scan: scan}
}

func (s *Source[T]) QueryOne(ctx context.Context, sql string, args ...any) (int, error) {
	var n int64
	if err := s.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, repository.MapPgError(err)
	}
	return int(n), nil
}

func (s *Source[T]) CountRows(ctx context.Context, sql string, args ...any) (int, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return 0, repository.MapPgError(err)
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		n++
	}
	return n, repository.MapPgError(rows.Err())
}

func (s *Source[T]) LimitQuery(ctx context.Context, sql string, w pagedquery.Window, args ...any) ([]T, error) {
	rows, err := s.db.Query(ctx, pagedquery.LimitClause(sql, w), args...)
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
		return nil, repository.MapPgError(err)
	}
	return out, nil
}

// Paginate returns the requested page of q read from db.
func Paginate[T any](ctx context.Context, p *pagedquery.Paginator, db Querier, scan ScanFunc[T], q pagedquery.Query, req pagedquery.Request) (*pagedquery.Page[T], error) {
	return pagedquery.NewExecutor[T](NewSource(db, scan), p).Execute(ctx, q, req)
}

// ScanMap reads a row as column name to decoded value.
func ScanMap(rows pgx.Rows) (map[string]any, error) {
	return rowMap(rows)
}

// ScanValue reads a single-column row into T.
func ScanValue[T any](rows pgx.Rows) (T, error) {
	var v T
	err := rows.Scan(&v)
	return v, err
}

type describedRow interface {
	FieldDescriptions() []pgproto3.FieldDescription
	Values() ([]interface{}, error)
}

func rowMap(row describedRow) (map[string]any, error) {
	vals, err := row.Values()
	if err != nil {
		return nil, err
	}
	fields := row.FieldDescriptions()
	if len(fields) != len(vals) {
		return nil, fmt.Errorf("row has %d values for %d columns", len(vals), len(fields))
	}
	m := make(map[string]any, len(fields))
	for i, f := range fields {
		m[string(f.Name)] = vals[i]
	}
	return m, nil
}

// Connect opens a pgx v4 pool for cfg and logs queries through logger.
func Connect(ctx context.Context, cfg config.PostgresConfig, logger zerolog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(repository.DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse pool config: %w", err)
	}
	poolConfig.ConnConfig.Logger = zerologadapter.NewLogger(logger.With().Str("component", "pgx").Logger())
	poolConfig.ConnConfig.LogLevel = logLevel(logger.GetLevel())
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}

	pool, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	return pool, nil
}

func logLevel(l zerolog.Level) pgx.LogLevel {
	switch l {
	case zerolog.TraceLevel:
		return pgx.LogLevelTrace
	case zerolog.DebugLevel:
		return pgx.LogLevelDebug
	case zerolog.InfoLevel:
		return pgx.LogLevelInfo
	case zerolog.WarnLevel:
		return pgx.LogLevelWarn
	default:
		return pgx.LogLevelError
	}
}
