package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/pagedquery/internal/config"
	"github.com/maxviazov/pagedquery/internal/pagedquery"
	"github.com/maxviazov/pagedquery/internal/pager"
)

func TestOpenBackend_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{Database: config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "items.db"),
	}}
	b, err := openBackend(ctx, cfg, zerolog.Nop(), pagedquery.NewPaginator(zerolog.Nop()))
	require.NoError(t, err)
	defer b.close()
	require.NoError(t, b.pinger.Ping(ctx))

	page, err := b.run(ctx, pagedquery.Query{SQL: "SELECT 1 AS one"}, pagedquery.Request{
		Options: pager.Options{PerPage: 10, CurrentPage: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalItems)
	assert.Equal(t, pagedquery.CountFullScan, page.CountStrategy)
	assert.EqualValues(t, 1, page.Rows[0]["one"])
}

func TestOpenBackend_UnknownDriver(t *testing.T) {
	_, err := openBackend(context.Background(), &config.Config{Database: config.DatabaseConfig{Driver: "oracle"}}, zerolog.Nop(), nil)
	assert.Error(t, err)
}

func TestGroupedCount(t *testing.T) {
	assert.Equal(t, pagedquery.GroupedSubquery, groupedCount("subquery"))
	assert.Equal(t, pagedquery.GroupedFullScan, groupedCount("full_scan"))
}
