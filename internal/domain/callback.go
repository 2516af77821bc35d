package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Params is a canonical parameter set. Values are restricted to string and
// json.Number so that encoding is deterministic and decode(encode(p)) == p.
type Params map[string]interface{}

// String returns a string-typed field, or "" when absent or not a string
func (p Params) String(key string) string {
	s, _ := p[key].(string)
	return s
}

// Number returns a numeric field as json.Number
func (p Params) Number(key string) (json.Number, bool) {
	n, ok := p[key].(json.Number)
	return n, ok
}

// Int64 returns a numeric field as int64
func (p Params) Int64(key string) (int64, bool) {
	n, ok := p.Number(key)
	if !ok {
		return 0, false
	}
	v, err := n.Int64()
	if err != nil {
		return 0, false
	}
	return v, true
}

// Decimal returns a numeric field as an exact decimal
func (p Params) Decimal(key string) (decimal.Decimal, bool) {
	n, ok := p.Number(key)
	if !ok {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// CallbackResult is the decoded content of a verified gateway callback or
// response. It exists only after signature verification succeeds; a result
// that failed verification is never constructed.
type CallbackResult struct {
	params Params
}

// NewCallbackResult wraps verified, decoded parameters
func NewCallbackResult(params Params) *CallbackResult {
	return &CallbackResult{params: params}
}

// Params returns the full decoded parameter set, including fields this
// client does not model. Unknown fields are preserved for forward
// compatibility.
func (r *CallbackResult) Params() Params {
	return r.params
}

// Action returns the operation the callback reports on
func (r *CallbackResult) Action() Action {
	return Action(r.params.String("action"))
}

// Status returns the gateway-assigned transaction status, verbatim
func (r *CallbackResult) Status() Status {
	return Status(r.params.String("status"))
}

// OrderID returns the merchant order identifier
func (r *CallbackResult) OrderID() string {
	return r.params.String("order_id")
}

// PaymentID returns the gateway-assigned payment identifier
func (r *CallbackResult) PaymentID() (int64, bool) {
	return r.params.Int64("payment_id")
}

// Amount returns the transaction amount
func (r *CallbackResult) Amount() (decimal.Decimal, bool) {
	return r.params.Decimal("amount")
}

// Currency returns the transaction currency
func (r *CallbackResult) Currency() string {
	return r.params.String("currency")
}

// ErrCode returns the gateway error code, if any
func (r *CallbackResult) ErrCode() string {
	return r.params.String("err_code")
}

// ErrDescription returns the gateway error description, if any
func (r *CallbackResult) ErrDescription() string {
	return r.params.String("err_description")
}

// CreateDate returns the transaction creation time, reported by the
// gateway as epoch milliseconds
func (r *CallbackResult) CreateDate() (time.Time, bool) {
	return r.millis("create_date")
}

// EndDate returns the transaction completion time
func (r *CallbackResult) EndDate() (time.Time, bool) {
	return r.millis("end_date")
}

func (r *CallbackResult) millis(key string) (time.Time, bool) {
	ms, ok := r.params.Int64(key)
	if !ok {
		return time.Time{}, false
	}
	return time.UnixMilli(ms).UTC(), true
}

// Err maps a failure status to a structured GatewayError carrying the
// gateway-provided code and description. Non-failure statuses yield nil;
// the status itself is never invented or rewritten.
func (r *CallbackResult) Err() error {
	status := r.Status()
	if !status.IsFailure() {
		return nil
	}
	code := r.ErrCode()
	if code == "" {
		code = "unknown"
	}
	return NewGatewayError(code, TranslateErrDescription(r.ErrDescription()), status)
}
