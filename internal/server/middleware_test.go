package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_CORSHeaders(t *testing.T) {
	s := newTestServer(t, &stubEngine{result: okResult()}, &stubOrchestrator{})

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestMiddleware_CustomOrigin(t *testing.T) {
	s := newTestServer(t, &stubEngine{result: okResult()}, &stubOrchestrator{})
	s.cfg.Server.CORSOrigin = "https://app.example.com"

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMiddleware_PreflightShortCircuits(t *testing.T) {
	s := newTestServer(t, &stubEngine{result: okResult()}, &stubOrchestrator{})

	rec := doRequest(s, httptest.NewRequest(http.MethodOptions, "/api/categorize/transaction", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestMiddleware_AssignsRequestID(t *testing.T) {
	s := newTestServer(t, &stubEngine{result: okResult()}, &stubOrchestrator{})

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestMiddleware_PreservesRequestID(t *testing.T) {
	s := newTestServer(t, &stubEngine{result: okResult()}, &stubOrchestrator{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-abc-123")

	rec := doRequest(s, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-abc-123", rec.Header().Get("X-Request-ID"))
}
