package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallbackResultAccessors(t *testing.T) {
	result := NewCallbackResult(Params{
		"action":      "pay",
		"status":      "success",
		"order_id":    "order-42",
		"payment_id":  json.Number("1652311773"),
		"amount":      json.Number("10.50"),
		"currency":    "UAH",
		"create_date": json.Number("1591021800000"),
		// Forward compatibility: unmodeled fields stay reachable
		"acq_id": json.Number("414963"),
	})

	assert.Equal(t, ActionPay, result.Action())
	assert.Equal(t, StatusSuccess, result.Status())
	assert.Equal(t, "order-42", result.OrderID())

	paymentID, ok := result.PaymentID()
	require.True(t, ok)
	assert.Equal(t, int64(1652311773), paymentID)

	amount, ok := result.Amount()
	require.True(t, ok)
	assert.Equal(t, "10.5", amount.String())

	created, ok := result.CreateDate()
	require.True(t, ok)
	assert.Equal(t, time.Date(2020, 6, 1, 14, 30, 0, 0, time.UTC), created)

	n, ok := result.Params().Number("acq_id")
	require.True(t, ok)
	assert.Equal(t, json.Number("414963"), n)

	require.NoError(t, result.Err())
}

func TestCallbackResultErr(t *testing.T) {
	t.Run("failure maps to gateway error", func(t *testing.T) {
		result := NewCallbackResult(Params{
			"status":          "failure",
			"err_code":        "limit",
			"err_description": "Transaction declined",
		})

		err := result.Err()
		require.Error(t, err)

		var gwErr *GatewayError
		require.ErrorAs(t, err, &gwErr)
		assert.Equal(t, "limit", gwErr.ErrCode)
		assert.Equal(t, CategoryAntiFraud, gwErr.Category)
		assert.Equal(t, StatusFailure, gwErr.Status)
	})

	t.Run("failure without code gets unknown", func(t *testing.T) {
		result := NewCallbackResult(Params{"status": "error"})

		var gwErr *GatewayError
		require.ErrorAs(t, result.Err(), &gwErr)
		assert.Equal(t, "unknown", gwErr.ErrCode)
	})

	t.Run("wait status is not an error", func(t *testing.T) {
		result := NewCallbackResult(Params{"status": "processing"})
		assert.NoError(t, result.Err())
	})
}

func TestParamsAccessorsOnMissingFields(t *testing.T) {
	p := Params{"s": "text", "n": json.Number("7")}

	assert.Equal(t, "", p.String("missing"))
	assert.Equal(t, "", p.String("n"))

	_, ok := p.Number("s")
	assert.False(t, ok)

	v, ok := p.Int64("n")
	require.True(t, ok)
	assert.Equal(t, int64(7), v)

	d, ok := p.Decimal("n")
	require.True(t, ok)
	assert.Equal(t, "7", d.String())
}
