package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	s := newTestServer(t, &stubEngine{result: okResult()}, &stubOrchestrator{})

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.NotEmpty(t, resp.Time)
}

func TestHealthHandler_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t, &stubEngine{result: okResult()}, &stubOrchestrator{})

	rec := doRequest(s, httptest.NewRequest(http.MethodPost, "/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestStatusHandler(t *testing.T) {
	s := newTestServer(t, &stubEngine{result: okResult()}, &stubOrchestrator{})

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool           `json:"success"`
		Data    StatusResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "ledgerlens", resp.Data.Service)
	assert.True(t, resp.Data.ClassifierTrained)
	assert.Positive(t, resp.Data.TrainingExamples)
	assert.Contains(t, resp.Data.Languages, "eng")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, &stubEngine{result: okResult()}, &stubOrchestrator{})

	// Drive one request through the middleware so the counter exists.
	doRequest(s, httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ledgerlens_http_requests_total")
}
