package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/maxviazov/pagedquery/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestConfigLoad_FromYAMLAndEnv(t *testing.T) {
	yaml := `
app:
  name: pagedquery
  version: 0.1.0
  env: test
  port: 18080

logger:
  level: info
  format: json
  output_target: stdout
  time_format: rfc3339

postgres:
  host: 127.0.0.1
  port: 5432
  sslmode: disable
  max_conns: 5

pager:
  per_page: 20
  mode: Sliding
  delta: 3

queries:
  teams: SELECT id, name FROM teams ORDER BY id
`
	path := writeTempConfig(t, yaml)

	t.Setenv("APP_POSTGRES_USER", "testuser")
	t.Setenv("APP_POSTGRES_PASSWORD", "testpass")
	t.Setenv("APP_POSTGRES_DB", "testdb")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 18080, cfg.App.Port)
	assert.Equal(t, "testuser", cfg.Postgres.User)
	assert.Equal(t, "testpass", cfg.Postgres.Password)
	assert.Equal(t, "testdb", cfg.Postgres.DBName)
	assert.Equal(t, "127.0.0.1", cfg.Postgres.Host)
	assert.Equal(t, int32(5), cfg.Postgres.MaxConns)
	assert.True(t, cfg.Postgres.Enabled)

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "stdout", cfg.Logger.OutputTarget)

	assert.Equal(t, 20, cfg.Pager.PerPage)
	assert.Equal(t, 100, cfg.Pager.MaxPerPage)
	assert.Equal(t, "Sliding", cfg.Pager.Mode)
	assert.Equal(t, 3, cfg.Pager.Delta)
	assert.Equal(t, "pageID", cfg.Pager.URLVar)
	assert.Equal(t, "full_scan", cfg.Pager.GroupedCount)

	assert.Equal(t, "SELECT id, name FROM teams ORDER BY id", cfg.Queries["teams"])
}

func TestConfigLoad_MissingRequiredEnvFails(t *testing.T) {
	yaml := `
app:
  port: 18080
postgres:
  host: localhost
`
	path := writeTempConfig(t, yaml)

	t.Setenv("APP_POSTGRES_USER", "")
	t.Setenv("APP_POSTGRES_PASSWORD", "")
	t.Setenv("APP_POSTGRES_DB", "")

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestConfigLoad_SQLiteNeedsNoPostgres(t *testing.T) {
	yaml := `
database:
  driver: sqlite
  sqlite_path: /tmp/items.db
`
	path := writeTempConfig(t, yaml)
	t.Setenv("APP_POSTGRES_USER", "")
	t.Setenv("APP_POSTGRES_PASSWORD", "")
	t.Setenv("APP_POSTGRES_DB", "")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Postgres.Enabled)
	assert.Equal(t, "/tmp/items.db", cfg.Database.SQLitePath)
}

func TestConfigLoad_InvalidPager(t *testing.T) {
	yaml := `
database:
  driver: sqlite
  sqlite_path: items.db
pager:
  per_page: 50
  max_per_page: 10
`
	_, err := config.Load(writeTempConfig(t, yaml))
	assert.Error(t, err)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigLoad_PgxV4DriverNeedsPostgres(t *testing.T) {
	yaml := `
database:
  driver: pgxv4
`
	path := writeTempConfig(t, yaml)
	t.Setenv("APP_POSTGRES_USER", "")
	t.Setenv("APP_POSTGRES_PASSWORD", "")
	t.Setenv("APP_POSTGRES_DB", "")

	_, err := config.Load(path)
	assert.Error(t, err)

	t.Setenv("APP_POSTGRES_USER", "u")
	t.Setenv("APP_POSTGRES_PASSWORD", "p")
	t.Setenv("APP_POSTGRES_DB", "d")
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Postgres.Enabled)
	assert.Equal(t, "pgxv4", cfg.Database.Driver)
}
