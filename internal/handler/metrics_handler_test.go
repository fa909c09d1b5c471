package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type pingerStub struct {
	err error
}

func (p *pingerStub) PingContext(ctx context.Context) error { return p.err }

func buildProbeRouter(db Pinger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewMetricsHandler(nil, db)

	router := gin.New()
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
	return router
}

func TestHealthAlwaysOK(t *testing.T) {
	router := buildProbeRouter(nil)

	resp := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"status":"ok"`)
}

func TestReadyWithReachableDatabase(t *testing.T) {
	router := buildProbeRouter(&pingerStub{})

	resp := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/ready", nil)
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"status":"ready"`)
}

func TestReadyWithUnreachableDatabase(t *testing.T) {
	router := buildProbeRouter(&pingerStub{err: errors.New("connection refused")})

	resp := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/ready", nil)
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
	require.Contains(t, resp.Body.String(), `"status":"unavailable"`)
}
