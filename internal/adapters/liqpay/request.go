package liqpay

import (
	"encoding/json"
	"net/url"

	"github.com/kevin07696/liqpay-client/internal/domain"
)

// Protocol constants. Version 3 is the only protocol revision this client
// speaks; the endpoints are fixed by the gateway.
const (
	Version = 3

	DefaultBaseURL = "https://www.liqpay.ua"
	RequestPath    = "/api/request"
	CheckoutPath   = "/api/3/checkout"
)

// SignedRequest is the outgoing envelope: the encoded payload plus its
// signature, posted as form fields `data` and `signature`.
type SignedRequest struct {
	Data      string
	Signature string
}

// Form returns the request body as form values
func (r *SignedRequest) Form() url.Values {
	form := url.Values{}
	form.Set("data", r.Data)
	form.Set("signature", r.Signature)
	return form
}

// Assembler turns a semantic operation into a signed request envelope.
// It owns no mutable state: credentials are captured once at construction
// and the normalizer is pure, so concurrent use needs no locking.
type Assembler struct {
	creds      Credentials
	normalizer *Normalizer
	baseURL    string
}

// NewAssembler creates an assembler against the production gateway
func NewAssembler(creds Credentials, normalizer *Normalizer) *Assembler {
	return NewAssemblerWithBaseURL(creds, normalizer, DefaultBaseURL)
}

// NewAssemblerWithBaseURL creates an assembler with a custom gateway base
// URL, used by tests and local gateway stubs
func NewAssemblerWithBaseURL(creds Credentials, normalizer *Normalizer, baseURL string) *Assembler {
	return &Assembler{creds: creds, normalizer: normalizer, baseURL: baseURL}
}

// Build normalizes raw parameters for the action, injects the protocol
// fields (action, public_key, version) and returns the encoded, signed
// envelope. Validation failures propagate unchanged; nothing is ever
// substituted silently.
func (a *Assembler) Build(action domain.Action, raw map[string]interface{}) (*SignedRequest, error) {
	params, err := a.normalizer.Normalize(action, raw)
	if err != nil {
		return nil, err
	}

	params["action"] = string(action)
	params["public_key"] = a.creds.PublicKey
	params["version"] = json.Number("3")

	data, err := Encode(params)
	if err != nil {
		return nil, err
	}

	return &SignedRequest{
		Data:      data,
		Signature: Sign(data, a.creds.PrivateKey),
	}, nil
}

// CheckoutURL builds a browser-redirect URL for the hosted checkout page,
// embedding data and signature as query parameters. Only checkout-capable
// actions are accepted.
func (a *Assembler) CheckoutURL(action domain.Action, raw map[string]interface{}) (string, error) {
	spec, err := domain.SpecFor(action)
	if err != nil {
		return "", err
	}
	if !spec.Checkout {
		return "", domain.NewValidationError("action", "not supported for hosted checkout")
	}

	req, err := a.Build(action, raw)
	if err != nil {
		return "", err
	}

	u, err := url.Parse(a.baseURL + CheckoutPath)
	if err != nil {
		return "", domain.WrapError(domain.ErrorCodeConfigError, "invalid gateway base URL", err)
	}
	u.RawQuery = req.Form().Encode()
	return u.String(), nil
}
