package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyErrCode(t *testing.T) {
	tests := []struct {
		code string
		want GatewayErrorCategory
	}{
		{"limit", CategoryAntiFraud},
		{"frod", CategoryAntiFraud},
		{"decline", CategoryAntiFraud},

		{"4", CategoryFinancial},
		{"105", CategoryFinancial},
		{"2903", CategoryFinancial},
		// "5" is reserved by the gateway and is not a financial decline
		{"5", CategoryUnknown},

		{"expired_phone", CategoryExpired},
		{"expired_3ds", CategoryExpired},

		{"invalid_signature", CategoryRequest},
		{"public_key_not_found", CategoryRequest},
		{"order_id_empty", CategoryRequest},
		{"amount_limit", CategoryRequest},
		{"wrong_amount_currency", CategoryRequest},

		{"err_cache", CategoryNonFinancial},
		{"shop_blocked", CategoryNonFinancial},
		{"payment_not_found", CategoryNonFinancial},
		{"token_not_found", CategoryNonFinancial},
		{"amount_limit_day", CategoryUnknown},

		{"", CategoryUnknown},
		{"unknown", CategoryUnknown},
		{"something_else", CategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyErrCode(tt.code))
		})
	}
}

func TestTranslateErrDescription(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "known translation", in: "Платеж не найден", want: "Payment not found"},
		{name: "trailing period trimmed", in: "Платеж не найден.", want: "Payment not found"},
		{name: "unknown passes through", in: "Some english text", want: "Some english text"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TranslateErrDescription(tt.in))
		})
	}
}

func TestGatewayErrorRetriable(t *testing.T) {
	assert.True(t, NewGatewayError("105", "", StatusFailure).Retriable())
	assert.True(t, NewGatewayError("unknown", "", StatusError).Retriable())
	assert.False(t, NewGatewayError("frod", "", StatusFailure).Retriable())
	assert.False(t, NewGatewayError("invalid_signature", "", StatusError).Retriable())
	assert.False(t, NewGatewayError("expired_3ds", "", StatusError).Retriable())
}
