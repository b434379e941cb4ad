package service

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/maxviazov/pagedquery/internal/config"
	"github.com/maxviazov/pagedquery/internal/pagedquery"
	"github.com/maxviazov/pagedquery/internal/pager"
	"github.com/maxviazov/pagedquery/internal/repository"
	"github.com/rs/zerolog"
)

// Row is one result row keyed by column name.
type Row = map[string]any

// Runner executes one paged query against the configured database.
type Runner func(ctx context.Context, q pagedquery.Query, req pagedquery.Request) (*pagedquery.Page[Row], error)

// PageParams is what a client may choose about a page. Zero values mean defaults.
type PageParams struct {
	Page      int
	PerPage   int
	All       bool
	SelectBox bool
	Path      string
	Extra     url.Values
}

// QueryService serves the named queries of the configuration one page at a time.
type QueryService interface {
	Names() []string
	URLVar() string
	Run(ctx context.Context, name string, params PageParams) (*pagedquery.Page[Row], error)
}

type queryService struct {
	run     Runner
	queries map[string]string
	cfg     config.PagerConfig
	log     zerolog.Logger
}

func NewQueryService(run Runner, queries map[string]string, cfg config.PagerConfig, logger zerolog.Logger) QueryService {
	l := logger.With().Str("module", "service").Str("component", "query").Logger()
	return &queryService{run: run, queries: queries, cfg: cfg, log: l}
}

func (s *queryService) Names() []string {
	names := make([]string, 0, len(s.queries))
	for n := range s.queries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (s *queryService) URLVar() string { return s.cfg.URLVar }

func (s *queryService) Run(ctx context.Context, name string, params PageParams) (*pagedquery.Page[Row], error) {
	start := time.Now()
	name = strings.TrimSpace(name)

	var ferrs []FieldError
	if name == "" {
		ferrs = append(ferrs, FieldError{Field: "name", Message: "must not be empty"})
	}
	if params.Page < 0 {
		ferrs = append(ferrs, FieldError{Field: s.cfg.URLVar, Message: "must be > 0"})
	}
	if params.PerPage < 0 || params.PerPage > s.cfg.MaxPerPage {
		ferrs = append(ferrs, FieldError{Field: "perPage", Message: fmt.Sprintf("must be between 1 and %d", s.cfg.MaxPerPage)})
	}
	if err := newInvalidInput(ferrs); err != nil {
		s.log.Debug().Str("query", name).Interface("field_errors", ferrs).Msg("page request validation failed")
		return nil, err
	}

	sql, ok := s.queries[name]
	if !ok {
		return nil, repository.ErrNotFound
	}

	perPage := params.PerPage
	if perPage == 0 {
		perPage = s.cfg.PerPage
	}
	req := pagedquery.Request{
		Options: pager.Options{
			PerPage:     perPage,
			CurrentPage: params.Page,
			Mode:        pager.Mode(s.cfg.Mode),
			Delta:       s.cfg.Delta,
			URLVar:      s.cfg.URLVar,
			Path:        params.Path,
			ExtraVars:   params.Extra,
		},
		Disabled: params.All,
	}
	if params.SelectBox {
		req.SelectBox = &pagedquery.SelectBox{Start: s.cfg.PerPage, End: s.cfg.MaxPerPage, Step: s.cfg.PerPage}
	}

	page, err := s.run(ctx, pagedquery.Query{SQL: sql}, req)
	if err != nil {
		// pagedquery errors already carry the failing step
		s.log.Error().Err(err).Str("query", name).Int("page", params.Page).Int("per_page", perPage).Msg("paged query failed")
		return nil, err
	}
	s.log.Info().
		Dur("took", time.Since(start)).
		Str("query", name).
		Int("page", page.PageNumbers.Current).
		Int("rows", len(page.Rows)).
		Str("count_strategy", string(page.CountStrategy)).
		Msg("page served")
	return page, nil
}
