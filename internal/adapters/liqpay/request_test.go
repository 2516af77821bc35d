package liqpay

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevin07696/liqpay-client/internal/domain"
)

func testCredentials(t *testing.T) Credentials {
	t.Helper()
	creds, err := NewCredentials("sandbox_i1", "sandbox_private")
	require.NoError(t, err)
	return creds
}

func testAssembler(t *testing.T) *Assembler {
	t.Helper()
	return NewAssembler(testCredentials(t), NewNormalizerAt(testClock))
}

func TestAssemblerBuild(t *testing.T) {
	a := testAssembler(t)

	req, err := a.Build(domain.ActionPay, validPayParams())
	require.NoError(t, err)

	// Envelope signature must verify against the same key
	assert.True(t, VerifySignature(req.Data, req.Signature, "sandbox_private"))

	// Protocol fields are injected by the assembler
	params, err := Decode(req.Data)
	require.NoError(t, err)
	assert.Equal(t, "pay", params.String("action"))
	assert.Equal(t, "sandbox_i1", params.String("public_key"))

	version, ok := params.Number("version")
	require.True(t, ok)
	assert.Equal(t, json.Number("3"), version)
}

func TestAssemblerBuildDeterministic(t *testing.T) {
	a := testAssembler(t)

	first, err := a.Build(domain.ActionStatus, map[string]interface{}{"order_id": "o1"})
	require.NoError(t, err)
	second, err := a.Build(domain.ActionStatus, map[string]interface{}{"order_id": "o1"})
	require.NoError(t, err)

	assert.Equal(t, first.Data, second.Data)
	assert.Equal(t, first.Signature, second.Signature)
}

func TestAssemblerBuildPropagatesValidation(t *testing.T) {
	a := testAssembler(t)

	raw := validPayParams()
	raw["amount"] = "-1"

	_, err := a.Build(domain.ActionPay, raw)
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
}

func TestSignedRequestForm(t *testing.T) {
	req := &SignedRequest{Data: "payload", Signature: "sig"}
	form := req.Form()

	assert.Equal(t, "payload", form.Get("data"))
	assert.Equal(t, "sig", form.Get("signature"))
}

func TestCheckoutURL(t *testing.T) {
	a := testAssembler(t)

	link, err := a.CheckoutURL(domain.ActionPay, validPayParams())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(link, DefaultBaseURL+CheckoutPath+"?"), link)

	u, err := url.Parse(link)
	require.NoError(t, err)

	data := u.Query().Get("data")
	signature := u.Query().Get("signature")
	require.NotEmpty(t, data)
	require.NotEmpty(t, signature)
	assert.True(t, VerifySignature(data, signature, "sandbox_private"))

	params, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "pay", params.String("action"))
}

func TestCheckoutURLRejectsNonCheckoutAction(t *testing.T) {
	a := testAssembler(t)

	_, err := a.CheckoutURL(domain.ActionStatus, map[string]interface{}{"order_id": "o1"})
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
}

func TestCheckoutURLCustomBase(t *testing.T) {
	a := NewAssemblerWithBaseURL(testCredentials(t), NewNormalizerAt(testClock), "https://sandbox.example.test")

	link, err := a.CheckoutURL(domain.ActionPay, validPayParams())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "https://sandbox.example.test"+CheckoutPath))
}
