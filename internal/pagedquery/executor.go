package pagedquery

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/rs/zerolog"
)

// Query is raw SQL plus its placeholder arguments.
type Query struct {
	SQL  string
	Args []any
}

// Source is a data source that can run raw SQL.
type Source[T any] interface {
	// QueryOne runs a query returning a single integer.
	QueryOne(ctx context.Context, sql string, args ...any) (int, error)
	// CountRows runs a query in full and returns how many rows it produced.
	CountRows(ctx context.Context, sql string, args ...any) (int, error)
	// LimitQuery runs sql bounded to the rows of w.
	LimitQuery(ctx context.Context, sql string, w Window, args ...any) ([]T, error)
}

// Executor paginates raw SQL against a Source.
type Executor[T any] struct {
	src Source[T]
	p   *Paginator
}

// NewExecutor binds src to the shared paginator p.
func NewExecutor[T any](src Source[T], p *Paginator) *Executor[T] {
	if p == nil {
		p = NewPaginator(zerolog.Nop())
	}
	return &Executor[T]{src: src, p: p}
}

// Execute returns the page of q described by req.
func (e *Executor[T]) Execute(ctx context.Context, q Query, req Request) (*Page[T], error) {
	fetch := func(ctx context.Context, w Window) ([]T, error) {
		return e.src.LimitQuery(ctx, q.SQL, w, q.Args...)
	}
	return Paginate(ctx, e.p, req, e.counter(q, req.Disabled), fetch)
}

// counter picks the cheapest way to count q's rows. Disabled requests
// fetch every row, so their total bypasses the count cache.
func (e *Executor[T]) counter(q Query, disabled bool) CountFunc {
	fn := func(ctx context.Context) (int, CountStrategy, error) {
		if sql, ok := CountQuery(q.SQL); ok {
			n, err := e.src.QueryOne(ctx, sql, q.Args...)
			return n, CountRewrite, err
		}
		if e.p.grouped == GroupedSubquery {
			n, err := e.src.QueryOne(ctx, WrapCountQuery(q.SQL), q.Args...)
			return n, CountSubquery, err
		}
		e.p.log.Warn().Str("sql", q.SQL).Msg("query cannot be rewritten to COUNT(*), counting rows of the full result")
		n, err := e.src.CountRows(ctx, q.SQL, q.Args...)
		return n, CountFullScan, err
	}
	if e.p.cache != nil && !disabled {
		return e.p.cache.Wrap(CacheKey(q), fn)
	}
	return fn
}

// CacheKey identifies q's total in a count cache.
func CacheKey(q Query) string {
	h := sha256.New()
	h.Write([]byte(q.SQL))
	for _, a := range q.Args {
		fmt.Fprintf(h, "\x00%T:%v", a, a)
	}
	return hex.EncodeToString(h.Sum(nil))
}
