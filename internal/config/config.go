package config

import (
	"github.com/maxviazov/pagedquery/internal/logger"
)

type Config struct {
	App      AppConfig           `mapstructure:"app"`
	Logger   logger.LoggerConfig `mapstructure:"logger" validate:"-"`
	Database DatabaseConfig      `mapstructure:"database"`
	Postgres PostgresConfig      `mapstructure:"postgres"`
	Redis    RedisConfig         `mapstructure:"redis"`
	Pager    PagerConfig         `mapstructure:"pager"`
	// Queries maps a public name to the SQL served under /queries/:name.
	Queries map[string]string `mapstructure:"queries" validate:"dive,required"`
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Env     string `mapstructure:"env"`
	Port    int    `mapstructure:"port" validate:"gte=1,lte=65535"`
}

// DatabaseConfig selects the backend the named queries run against:
// postgres (pgx v5 pool), pgxv4 (pgx v4 pool), stdlib (database/sql over
// pgx) or sqlite.
type DatabaseConfig struct {
	Driver     string `mapstructure:"driver" validate:"oneof=postgres pgxv4 stdlib sqlite"`
	SQLitePath string `mapstructure:"sqlite_path" validate:"required_if=Driver sqlite"`
}

type PostgresConfig struct {
	Host              string `mapstructure:"host" validate:"required_if=Enabled true"`
	Port              int    `mapstructure:"port"`
	User              string `mapstructure:"user" validate:"required_if=Enabled true"`
	Password          string `mapstructure:"password" validate:"required_if=Enabled true"`
	DBName            string `mapstructure:"db" validate:"required_if=Enabled true"`
	SSLMode           string `mapstructure:"sslmode"`
	MaxConns          int32  `mapstructure:"max_conns"`
	MinConns          int32  `mapstructure:"min_conns"`
	MaxConnLifetime   int    `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   int    `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod int    `mapstructure:"health_check_period"`
	// ConnectTimeout bounds the startup ping retries, in seconds.
	ConnectTimeout int `mapstructure:"connect_timeout"`
	// Enabled is derived from Database.Driver by Load.
	Enabled bool `mapstructure:"-"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// CountTTL is how long cached totals live, in seconds.
	CountTTL int    `mapstructure:"count_ttl" validate:"gte=0"`
	Prefix   string `mapstructure:"prefix"`
}

type PagerConfig struct {
	PerPage      int    `mapstructure:"per_page" validate:"gte=1"`
	MaxPerPage   int    `mapstructure:"max_per_page" validate:"gtefield=PerPage"`
	Mode         string `mapstructure:"mode" validate:"oneof=Jumping Sliding"`
	Delta        int    `mapstructure:"delta" validate:"gte=1"`
	URLVar       string `mapstructure:"url_var" validate:"required"`
	GroupedCount string `mapstructure:"grouped_count" validate:"oneof=full_scan subquery"`
}
