package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/maxviazov/pagedquery/internal/repository"
)

type txKey struct{}

func withTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func getQ(ctx context.Context, db Querier) Querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok && tx != nil {
		return tx
	}
	return db
}

// Beginner starts transactions; pgxpool.Pool and pgx.Conn implement it.
type Beginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// TxFunc runs inside a transaction carried by ctx.
type TxFunc func(ctx context.Context) error

// TxManager runs the count and the page fetch of a call in one snapshot.
type TxManager struct {
	db   Beginner
	opts pgx.TxOptions
}

// NewTxManager opens read-only repeatable-read transactions on db, so the
// total and the rows of a page come from the same snapshot.
func NewTxManager(db Beginner) *TxManager {
	return &TxManager{db: db, opts: pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	}}
}

func (m *TxManager) WithinTx(ctx context.Context, fn TxFunc) error {
	tx, err := m.db.BeginTx(ctx, m.opts)
	if err != nil {
		return repository.MapPgError(err)
	}
	defer func() {
		// no-op once committed
		_ = tx.Rollback(context.Background())
	}()

	if err := fn(withTx(ctx, tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return repository.MapPgError(err)
	}
	return nil
}
