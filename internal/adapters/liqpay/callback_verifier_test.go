package liqpay

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevin07696/liqpay-client/internal/domain"
)

func signedCallback(t *testing.T, creds Credentials, params domain.Params) (string, string) {
	t.Helper()
	data, err := Encode(params)
	require.NoError(t, err)
	return data, Sign(data, creds.PrivateKey)
}

func TestVerifierAcceptsValidCallback(t *testing.T) {
	creds := testCredentials(t)
	v := NewVerifier(creds)

	data, signature := signedCallback(t, creds, domain.Params{
		"action":   "pay",
		"status":   "success",
		"order_id": "order-9",
	})

	result, err := v.Verify(data, signature)
	require.NoError(t, err)
	assert.Equal(t, "order-9", result.OrderID())
	assert.Equal(t, domain.StatusSuccess, result.Status())
}

func TestVerifierRejectsTamperedPayload(t *testing.T) {
	creds := testCredentials(t)
	v := NewVerifier(creds)

	_, signature := signedCallback(t, creds, domain.Params{
		"status":   "success",
		"order_id": "order-9",
	})

	// Re-encode a modified payload but keep the original signature
	tampered, err := Encode(domain.Params{
		"status":   "success",
		"order_id": "attacker-order",
	})
	require.NoError(t, err)

	result, err := v.Verify(tampered, signature)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, domain.ErrSignatureMismatch) || domain.GetErrorCode(err) == domain.ErrorCodeSignatureMismatch)
}

func TestVerifierRejectsWrongKeySignature(t *testing.T) {
	creds := testCredentials(t)
	v := NewVerifier(creds)

	data, err := Encode(domain.Params{"status": "success"})
	require.NoError(t, err)

	result, err := v.Verify(data, Sign(data, "some-other-key"))
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, domain.ErrorCodeSignatureMismatch, domain.GetErrorCode(err))
}

// A payload signed with the right key but carrying garbage decodes to a
// DECODE error: authentication passed, parsing did not.
func TestVerifierRejectsSignedGarbage(t *testing.T) {
	creds := testCredentials(t)
	v := NewVerifier(creds)

	garbage := base64.StdEncoding.EncodeToString([]byte("not json at all"))
	signature := Sign(garbage, creds.PrivateKey)

	result, err := v.Verify(garbage, signature)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, domain.ErrorCodeDecodeFailed, domain.GetErrorCode(err))
}

// Verification order matters: an unsigned malformed payload must be
// reported as a signature failure, not a decode failure, so the error
// never leaks whether the payload parsed.
func TestVerifierChecksSignatureBeforeDecoding(t *testing.T) {
	v := NewVerifier(testCredentials(t))

	_, err := v.Verify("%%%not-even-base64%%%", "bogus")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorCodeSignatureMismatch, domain.GetErrorCode(err))
}

func TestVerifierIsIdempotent(t *testing.T) {
	creds := testCredentials(t)
	v := NewVerifier(creds)

	data, signature := signedCallback(t, creds, domain.Params{
		"status":   "success",
		"order_id": "order-9",
	})

	first, err := v.Verify(data, signature)
	require.NoError(t, err)
	second, err := v.Verify(data, signature)
	require.NoError(t, err)

	assert.Equal(t, first.Params(), second.Params())
}
