package observability

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// HealthStatus represents the health status of the service
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// HealthChecker probes the callback service's dependencies: the database
// that records callbacks and, optionally, the payment gateway itself.
type HealthChecker struct {
	dbPool     *pgxpool.Pool
	gatewayURL string
	httpClient *http.Client
}

// NewHealthChecker creates a new HealthChecker
func NewHealthChecker(dbPool *pgxpool.Pool) *HealthChecker {
	return &HealthChecker{
		dbPool: dbPool,
	}
}

// WithGatewayCheck adds a reachability probe against the gateway base URL.
// Gateway trouble degrades the report without failing it: the webhook host
// stays useful while the gateway is down, callbacks just stop arriving.
func (h *HealthChecker) WithGatewayCheck(baseURL string, client *http.Client) *HealthChecker {
	h.gatewayURL = baseURL
	h.httpClient = client
	if h.httpClient == nil {
		h.httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return h
}

// Check performs health checks and returns the status
func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	checks := make(map[string]string)
	overallStatus := "healthy"

	if h.dbPool != nil {
		dbCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		if err := h.dbPool.Ping(dbCtx); err != nil {
			checks["database"] = "unhealthy: " + err.Error()
			overallStatus = "unhealthy"
		} else {
			checks["database"] = "healthy"
		}
	} else {
		checks["database"] = "not configured"
	}

	if h.gatewayURL != "" {
		if err := h.probeGateway(ctx); err != nil {
			checks["gateway"] = "unreachable: " + err.Error()
			if overallStatus == "healthy" {
				overallStatus = "degraded"
			}
		} else {
			checks["gateway"] = "reachable"
		}
	}

	return HealthStatus{
		Status:    overallStatus,
		Timestamp: time.Now(),
		Checks:    checks,
	}
}

// probeGateway issues a HEAD request against the gateway base URL. Any HTTP
// answer counts as reachable; only transport failures do not.
func (h *HealthChecker) probeGateway(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodHead, h.gatewayURL, nil)
	if err != nil {
		return err
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// Ready reports whether the service can accept callbacks. Readiness needs
// the database; the gateway is not consulted, since inbound callbacks do
// not depend on it.
func (h *HealthChecker) Ready(ctx context.Context) bool {
	if h.dbPool == nil {
		return true
	}

	dbCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return h.dbPool.Ping(dbCtx) == nil
}

// HealthHandler returns an HTTP handler for health checks. A degraded
// report still answers 200; only an unhealthy one returns 503.
func (h *HealthChecker) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := h.Check(r.Context())

		w.Header().Set("Content-Type", "application/json")
		if status.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		json.NewEncoder(w).Encode(status)
	}
}
