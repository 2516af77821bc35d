package liqpay

import (
	"github.com/kevin07696/liqpay-client/internal/domain"
)

// Verifier authenticates and decodes asynchronous gateway callbacks.
// It is stateless and reentrant: verifying the same (data, signature)
// pair twice yields structurally equal results with no side effects.
type Verifier struct {
	creds Credentials
}

// NewVerifier creates a callback verifier for the given credentials
func NewVerifier(creds Credentials) *Verifier {
	return &Verifier{creds: creds}
}

// Verify authenticates an inbound (data, signature) pair and decodes it
// into a CallbackResult.
//
// The signature is checked over the raw data bytes before any decoding, so
// a payload that fails authentication is never even parsed and no partially
// trusted state exists. A correctly signed but malformed payload fails with
// DECODE_FAILED.
func (v *Verifier) Verify(data, signature string) (*domain.CallbackResult, error) {
	if !VerifySignature(data, signature, v.creds.PrivateKey) {
		return nil, domain.ErrSignatureMismatch
	}

	params, err := Decode(data)
	if err != nil {
		return nil, err
	}

	return domain.NewCallbackResult(params), nil
}
