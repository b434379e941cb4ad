package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/pagedquery/internal/pager"
	"github.com/maxviazov/pagedquery/internal/service"
	"github.com/maxviazov/pagedquery/pkg/response"
)

type QueryHandler struct {
	svc service.QueryService
}

func NewQueryHandler(svc service.QueryService) *QueryHandler { return &QueryHandler{svc: svc} }

func (h *QueryHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/queries")
	{
		g.GET("", h.list)
		g.GET(":name", h.page)
	}
}

func (h *QueryHandler) list(c *gin.Context) {
	response.WriteData(c, http.StatusOK, gin.H{"queries": h.svc.Names()})
}

// page serves one page of a named query. The page number comes from the
// configured url variable; setPerPage is what the per-page select box submits.
func (h *QueryHandler) page(c *gin.Context) {
	opts := pager.Options{URLVar: h.svc.URLVar()}.FromRequest(c.Request)
	params := service.PageParams{
		Page:      opts.CurrentPage,
		PerPage:   intQuery(c, "perPage", "setPerPage"),
		All:       boolQuery(c, "all"),
		SelectBox: boolQuery(c, "selectBox"),
		Path:      opts.Path,
		Extra:     opts.ExtraVars,
	}
	if raw := c.Query(h.svc.URLVar()); raw != "" && opts.CurrentPage == 0 {
		params.Page = -1
	}

	page, err := h.svc.Run(c.Request.Context(), c.Param("name"), params)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, page)
}

// intQuery returns the first of keys present. Malformed numbers become -1
// so validation rejects them instead of silently using the default.
func intQuery(c *gin.Context, keys ...string) int {
	for _, k := range keys {
		raw, ok := c.GetQuery(k)
		if !ok || raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return -1
		}
		return n
	}
	return 0
}

func boolQuery(c *gin.Context, key string) bool {
	v, _ := strconv.ParseBool(c.Query(key))
	return v
}
