package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Gateway request metrics
	gatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liqpay_gateway_requests_total",
			Help: "Total number of gateway API requests",
		},
		[]string{"action", "outcome"},
	)

	gatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "liqpay_gateway_request_duration_seconds",
			Help:    "Duration of gateway API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"action"},
	)

	// Callback verification metrics
	callbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liqpay_callbacks_total",
			Help: "Total number of callback verification attempts",
		},
		[]string{"outcome"},
	)
)

// Request outcomes
const (
	OutcomeOK           = "ok"
	OutcomeGatewayError = "gateway_error"
	OutcomeTransport    = "transport_error"
	OutcomeValidation   = "validation_error"
)

// Callback outcomes
const (
	CallbackVerified        = "verified"
	CallbackBadSignature    = "bad_signature"
	CallbackMalformed       = "malformed"
	CallbackStoreFailed     = "store_failed"
	CallbackMissingEnvelope = "missing_envelope"
)

// ObserveGatewayRequest records one gateway exchange
func ObserveGatewayRequest(action, outcome string, duration time.Duration) {
	gatewayRequestsTotal.WithLabelValues(action, outcome).Inc()
	gatewayRequestDuration.WithLabelValues(action).Observe(duration.Seconds())
}

// ObserveCallback records one callback verification attempt
func ObserveCallback(outcome string) {
	callbacksTotal.WithLabelValues(outcome).Inc()
}
