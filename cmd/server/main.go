package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/maxviazov/pagedquery/internal/config"
	"github.com/maxviazov/pagedquery/internal/countcache"
	"github.com/maxviazov/pagedquery/internal/handler"
	"github.com/maxviazov/pagedquery/internal/logger"
	"github.com/maxviazov/pagedquery/internal/pagedquery"
	"github.com/maxviazov/pagedquery/internal/service"
)

func main() {
	configPath := flag.String("config", envOr("APP_CONFIG", "config.yaml"), "path to the config file")
	flag.Parse()

	// Load application config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *configPath).Msg("❌ Config loading failed")
	}

	// Initialize logger
	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Logger initialization failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	opts := []pagedquery.Option{
		pagedquery.WithMetrics(pagedquery.NewMetrics(reg)),
		pagedquery.WithGroupedCount(groupedCount(cfg.Pager.GroupedCount)),
	}
	if client := countcache.NewClient(cfg.Redis); client != nil {
		defer client.Close()
		ttl := time.Duration(cfg.Redis.CountTTL) * time.Second
		opts = append(opts, pagedquery.WithCountCache(countcache.New(client, ttl, cfg.Redis.Prefix, appLogger)))
		appLogger.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", ttl).Msg("count cache enabled")
	}
	paginator := pagedquery.NewPaginator(appLogger, opts...)

	backend, err := openBackend(ctx, cfg, appLogger, paginator)
	if err != nil {
		appLogger.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("❌ Database connection failed")
	}
	defer backend.close()

	querySvc := service.NewQueryService(backend.run, cfg.Queries, cfg.Pager, appLogger)

	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), handler.RequestLogger(appLogger))
	handler.Register(r, backend.pinger, querySvc, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.App.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			appLogger.Error().Err(err).Msg("graceful shutdown failed")
		}
	}()

	appLogger.Info().
		Str("addr", srv.Addr).
		Str("driver", cfg.Database.Driver).
		Int("queries", len(cfg.Queries)).
		Msg("🚀 Service started")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		appLogger.Error().Err(err).Msg("http server stopped")
	}
	appLogger.Info().Msg("service stopped")
}

func groupedCount(name string) pagedquery.GroupedCount {
	if name == "subquery" {
		return pagedquery.GroupedSubquery
	}
	return pagedquery.GroupedFullScan
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
