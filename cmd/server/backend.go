package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/maxviazov/pagedquery/internal/config"
	"github.com/maxviazov/pagedquery/internal/pagedquery"
	"github.com/maxviazov/pagedquery/internal/repository"
	"github.com/maxviazov/pagedquery/internal/repository/pgxv4"
	"github.com/maxviazov/pagedquery/internal/repository/postgres"
	"github.com/maxviazov/pagedquery/internal/repository/sqldb"
	"github.com/maxviazov/pagedquery/internal/service"
)

// backend binds the configured database to the query service.
type backend struct {
	run    service.Runner
	pinger repository.Pinger
	close  func()
}

func openBackend(ctx context.Context, cfg *config.Config, log zerolog.Logger, p *pagedquery.Paginator) (*backend, error) {
	switch cfg.Database.Driver {
	case "postgres":
		repo, err := repository.New(ctx, cfg, &log)
		if err != nil {
			return nil, err
		}
		tm := postgres.NewTxManager(repo.Pool())
		run := func(ctx context.Context, q pagedquery.Query, req pagedquery.Request) (page *pagedquery.Page[service.Row], err error) {
			err = tm.WithinTx(ctx, func(ctx context.Context) error {
				page, err = postgres.Paginate(ctx, p, repo.Pool(), pgx.RowToMap, q, req)
				return err
			})
			return page, err
		}
		return &backend{run: run, pinger: repo, close: repo.Close}, nil

	case "pgxv4":
		pool, err := pgxv4.Connect(ctx, cfg.Postgres, log)
		if err != nil {
			return nil, err
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to ping postgres: %w", err)
		}
		run := func(ctx context.Context, q pagedquery.Query, req pagedquery.Request) (*pagedquery.Page[service.Row], error) {
			return pgxv4.Paginate(ctx, p, pool, pgxv4.ScanMap, q, req)
		}
		return &backend{run: run, pinger: repository.PingFunc(pool.Ping), close: pool.Close}, nil

	case "stdlib":
		connConfig, err := pgx.ParseConfig(repository.DSN(cfg.Postgres))
		if err != nil {
			return nil, fmt.Errorf("failed to parse postgres config: %w", err)
		}
		return sqlBackend(ctx, stdlib.OpenDB(*connConfig), p)

	case "sqlite":
		db, err := sql.Open("sqlite", cfg.Database.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		// in-memory databases are per connection
		db.SetMaxOpenConns(1)
		return sqlBackend(ctx, db, p)
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
}

// sqlBackend serves queries through database/sql.
func sqlBackend(ctx context.Context, db *sql.DB, p *pagedquery.Paginator) (*backend, error) {
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	run := func(ctx context.Context, q pagedquery.Query, req pagedquery.Request) (*pagedquery.Page[service.Row], error) {
		return sqldb.Paginate(ctx, p, db, sqldb.ScanMap, q, req)
	}
	return &backend{
		run:    run,
		pinger: repository.PingFunc(db.PingContext),
		close:  func() { _ = db.Close() },
	}, nil
}
