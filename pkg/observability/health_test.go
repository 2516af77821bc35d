package observability

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheckGatewayReachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	h := NewHealthChecker(nil).WithGatewayCheck(ts.URL, ts.Client())
	status := h.Check(context.Background())

	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "reachable", status.Checks["gateway"])
	assert.Equal(t, "not configured", status.Checks["database"])
}

// An HTTP error from the gateway still proves reachability; only transport
// failures count against it.
func TestHealthCheckGatewayErrorStillReachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	h := NewHealthChecker(nil).WithGatewayCheck(ts.URL, ts.Client())
	status := h.Check(context.Background())

	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "reachable", status.Checks["gateway"])
}

func TestHealthCheckGatewayUnreachableDegrades(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // connections now refused

	h := NewHealthChecker(nil).WithGatewayCheck(ts.URL, &http.Client{Timeout: time.Second})
	status := h.Check(context.Background())

	assert.Equal(t, "degraded", status.Status)
	assert.Contains(t, status.Checks["gateway"], "unreachable")
}

// Gateway trouble must not take the webhook host out of rotation.
func TestHealthHandlerDegradedAnswers200(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close()

	h := NewHealthChecker(nil).WithGatewayCheck(ts.URL, &http.Client{Timeout: time.Second})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.HealthHandler()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
}

func TestReadyWithoutDatabase(t *testing.T) {
	h := NewHealthChecker(nil)
	assert.True(t, h.Ready(context.Background()))
}
