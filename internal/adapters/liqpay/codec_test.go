package liqpay

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevin07696/liqpay-client/internal/domain"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	params := domain.Params{
		"action":   "pay",
		"amount":   json.Number("10.5"),
		"currency": "UAH",
		"order_id": "order-1",
		"version":  json.Number("3"),
	}

	data, err := Encode(params)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, params, decoded)
}

// Two maps with equal content must encode to identical bytes regardless of
// insertion order: the signature is computed over these bytes.
func TestEncodeDeterministic(t *testing.T) {
	a := domain.Params{}
	a["zebra"] = "1"
	a["alpha"] = "2"
	a["mid"] = json.Number("3")

	b := domain.Params{}
	b["mid"] = json.Number("3")
	b["alpha"] = "2"
	b["zebra"] = "1"

	encodedA, err := Encode(a)
	require.NoError(t, err)
	encodedB, err := Encode(b)
	require.NoError(t, err)

	assert.Equal(t, encodedA, encodedB)

	raw, err := base64.StdEncoding.DecodeString(encodedA)
	require.NoError(t, err)
	assert.JSONEq(t, `{"alpha":"2","mid":3,"zebra":"1"}`, string(raw))
}

func TestEncodeOutputIsBase64JSON(t *testing.T) {
	data, err := Encode(domain.Params{"action": "status", "order_id": "o1"})
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(data)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "status", decoded["action"])
}

func TestDecodeRejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not base64", data: "%%%not-base64%%%"},
		{name: "base64 of non-JSON", data: base64.StdEncoding.EncodeToString([]byte("hello world"))},
		{name: "base64 of JSON array", data: base64.StdEncoding.EncodeToString([]byte(`["a","b"]`))},
		{name: "truncated JSON", data: base64.StdEncoding.EncodeToString([]byte(`{"a":`))},
		{name: "trailing garbage", data: base64.StdEncoding.EncodeToString([]byte(`{"a":1}{"b":2}`))},
		{name: "empty payload", data: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			require.Error(t, err)
			assert.Equal(t, domain.ErrorCodeDecodeFailed, domain.GetErrorCode(err))
		})
	}
}

// Numbers survive the round trip exactly: no float drift, no formatting
// changes.
func TestDecodePreservesNumberText(t *testing.T) {
	params := domain.Params{
		"amount":     json.Number("0.1000"),
		"payment_id": json.Number("9007199254740993"),
	}

	data, err := Encode(params)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)

	amount, ok := decoded.Number("amount")
	require.True(t, ok)
	assert.Equal(t, json.Number("0.1000"), amount)

	id, ok := decoded.Number("payment_id")
	require.True(t, ok)
	assert.Equal(t, json.Number("9007199254740993"), id)
}
