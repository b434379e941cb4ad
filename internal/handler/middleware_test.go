package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/pagedquery/internal/handler"
	"github.com/maxviazov/pagedquery/internal/repository"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handler.RequestLogger(zerolog.New(&buf)))
	handler.Register(r, stubPinger{}, &stubQueryService{err: repository.ErrNotFound}, nil)

	w := serve(r, "/api/v1/queries/coaches?pageID=2")
	require.Equal(t, http.StatusNotFound, w.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "/api/v1/queries/:name", entry["path"])
	assert.Equal(t, "pageID=2", entry["query"])
	assert.EqualValues(t, 404, entry["status"])

	buf.Reset()
	assert.Equal(t, http.StatusNotFound, serve(r, "/metrics").Code)
}
