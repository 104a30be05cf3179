package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/abhi-singhs/copilot-metrics-analysis/internal/observability"
	"github.com/stretchr/testify/require"
)

type fixedCount int

func (f fixedCount) Len() int { return int(f) }

func TestHealth(t *testing.T) {
	s := New("127.0.0.1:0", "release", fixedCount(3), nil, "")

	resp := httptest.NewRecorder()
	s.Engine.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Status     string `json:"status"`
		Workspaces int    `json:"workspaces"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, "healthy", body.Status)
	require.Equal(t, 3, body.Workspaces)
}

func TestMetricsEndpoint(t *testing.T) {
	metrics, err := observability.NewMetrics()
	require.NoError(t, err)
	s := New("127.0.0.1:0", "release", fixedCount(0), metrics, "/metrics")

	s.Engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	resp := httptest.NewRecorder()
	s.Engine.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	require.True(t, strings.Contains(resp.Body.String(), `copilot_metrics_http_requests_total{method="GET",route="/health",status="200"} 1`))
}

func TestMetricsEndpointDisabled(t *testing.T) {
	s := New("127.0.0.1:0", "release", fixedCount(0), nil, "/metrics")

	resp := httptest.NewRecorder()
	s.Engine.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusNotFound, resp.Code)
}
