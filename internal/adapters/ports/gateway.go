package ports

import (
	"context"

	"github.com/kevin07696/liqpay-client/internal/domain"
)

// GatewayClient is the port for server-to-server gateway exchanges.
// Implementations own transport concerns; callers supply semantic
// parameters and receive the decoded response envelope.
type GatewayClient interface {
	// Request posts a signed request for the action and returns the
	// decoded JSON response envelope. A verified response whose status
	// indicates a business failure is returned as a *domain.GatewayError.
	Request(ctx context.Context, action domain.Action, params map[string]interface{}) (domain.Params, error)

	// RequestRaw posts a signed request and returns the raw response
	// body. Used for report exports (csv, xml) that are not JSON.
	RequestRaw(ctx context.Context, action domain.Action, params map[string]interface{}) ([]byte, error)

	// Checkout posts a signed checkout request and resolves the hosted
	// payment page URL the browser should be redirected to.
	Checkout(ctx context.Context, action domain.Action, params map[string]interface{}) (string, error)

	// CheckoutURL builds the redirect URL locally without contacting the
	// gateway.
	CheckoutURL(action domain.Action, params map[string]interface{}) (string, error)
}

// CallbackVerifier is the port handed to the webhook host: it
// authenticates an inbound (data, signature) pair and decodes it.
type CallbackVerifier interface {
	Verify(data, signature string) (*domain.CallbackResult, error)
}

// CallbackStore persists verified callbacks. Implementations must be
// idempotent: storing the same callback twice leaves one record.
type CallbackStore interface {
	SaveCallback(ctx context.Context, result *domain.CallbackResult) error

	// LatestByOrder returns the most recently received callback for an
	// order, or nil when none was recorded.
	LatestByOrder(ctx context.Context, orderID string) (*StoredCallback, error)
}

// StoredCallback is a persisted callback record
type StoredCallback struct {
	OrderID    string
	PaymentID  int64
	Action     string
	Status     string
	Amount     string
	Currency   string
	ErrCode    string
	Payload    []byte
	ReceivedAt string
}
