package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/pagedquery/internal/service"
)

// Register mounts all public routes on the given engine.
// metrics serves /metrics; nil leaves it unmounted.
func Register(r *gin.Engine, repo Pinger, querySvc service.QueryService, metrics http.Handler) {
	h := NewHealthHandler(repo)

	// Health probes
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)

	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics))
	}

	api := r.Group(APIV1Prefix)
	{
		health := api.Group("/health")
		{
			health.GET("/live", h.Liveness)
			health.GET("/ready", h.Readiness)
		}
		NewQueryHandler(querySvc).Register(api)
	}
}
