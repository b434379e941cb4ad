package pagedquery

import (
	"context"
	"errors"
	"time"

	"github.com/maxviazov/pagedquery/internal/pager"
	"github.com/rs/zerolog"
)

// GroupedCount selects how totals are resolved for queries the COUNT(*)
// rewrite cannot handle.
type GroupedCount int

const (
	// GroupedFullScan runs the original query and counts the returned rows.
	GroupedFullScan GroupedCount = iota
	// GroupedSubquery wraps the original query in SELECT COUNT(*) FROM (...).
	GroupedSubquery
)

// CountCache memoizes count results under a key.
type CountCache interface {
	Wrap(key string, fn CountFunc) CountFunc
}

// Paginator holds the shared collaborators of every paginated call.
// It is immutable after construction and safe for concurrent use.
type Paginator struct {
	log     zerolog.Logger
	metrics *Metrics
	grouped GroupedCount
	cache   CountCache
}

// Option configures a Paginator.
type Option func(*Paginator)

// WithMetrics reports every call to m.
func WithMetrics(m *Metrics) Option { return func(p *Paginator) { p.metrics = m } }

// WithGroupedCount picks the fallback used for non-rewritable queries.
func WithGroupedCount(g GroupedCount) Option { return func(p *Paginator) { p.grouped = g } }

// WithCountCache caches SQL count results.
func WithCountCache(c CountCache) Option { return func(p *Paginator) { p.cache = c } }

// NewPaginator builds a Paginator logging through logger.
func NewPaginator(logger zerolog.Logger, opts ...Option) *Paginator {
	p := &Paginator{
		log: logger.With().Str("module", "pagedquery").Logger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Paginate resolves the total with count (unless the request carries one),
// builds the pager and fetches the rows of the current page with fetch.
// Any failure aborts the call; no partial page is returned.
func Paginate[T any](ctx context.Context, p *Paginator, req Request, count CountFunc, fetch FetchFunc[T]) (*Page[T], error) {
	if p == nil {
		p = NewPaginator(zerolog.Nop())
	}
	page, err := paginate(ctx, p, req, count, fetch)
	if err != nil {
		p.metrics.recordError(err)
		return nil, err
	}
	p.metrics.recordRows(len(page.Rows))
	return page, nil
}

func paginate[T any](ctx context.Context, p *Paginator, req Request, count CountFunc, fetch FetchFunc[T]) (*Page[T], error) {
	start := time.Now()
	opts := req.Options
	strategy := CountProvided
	if opts.TotalItems == nil {
		total, s, err := count(ctx)
		if err != nil {
			return nil, dataSourceError("count", err)
		}
		opts = opts.WithTotal(total)
		strategy = s
	}
	p.metrics.recordCount(strategy)

	pg, err := pager.New(opts)
	if err != nil {
		return nil, constructionError(err)
	}

	from, to := pg.OffsetByPageID()
	w := Window{Offset: max(from-1, 0), Limit: pg.PerPage()}
	if req.Disabled {
		w = Window{Offset: 0, Limit: pg.TotalItems(), All: true}
	}
	rows, err := fetch(ctx, w)
	if err != nil {
		return nil, dataSourceError("fetch", err)
	}
	if rows == nil {
		rows = []T{}
	}

	page := &Page[T]{
		Rows:       rows,
		TotalItems: pg.TotalItems(),
		PageNumbers: PageNumbers{
			Current: pg.CurrentPage(),
			Total:   pg.NumPages(),
		},
		From:          from,
		To:            to,
		Links:         pg.Links(),
		CountStrategy: strategy,
	}
	if to > 0 {
		page.Limit = to - from + 1
	}
	if req.SelectBox != nil {
		page.PerPageSelectBox = pg.PerPageSelectBox(req.SelectBox.Start, req.SelectBox.End, req.SelectBox.Step)
	}
	if req.Disabled {
		page.TotalItems = len(rows)
		page.Links = ""
		page.PageNumbers = PageNumbers{Current: 1, Total: 1}
	}

	p.log.Debug().
		Str("count_strategy", string(strategy)).
		Int("total_items", page.TotalItems).
		Int("page", page.PageNumbers.Current).
		Int("pages", page.PageNumbers.Total).
		Int("offset", w.Offset).
		Int("limit", w.Limit).
		Bool("disabled", req.Disabled).
		Int("rows", len(rows)).
		Dur("took", time.Since(start)).
		Msg("page fetched")
	return page, nil
}

func isConstruction(err error) bool { return errors.Is(err, ErrConstruction) }
