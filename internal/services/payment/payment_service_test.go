package payment

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevin07696/liqpay-client/internal/adapters/ports"
	"github.com/kevin07696/liqpay-client/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...ports.Field)  {}
func (nopLogger) Error(string, ...ports.Field) {}
func (nopLogger) Warn(string, ...ports.Field)  {}
func (nopLogger) Debug(string, ...ports.Field) {}

type mockGateway struct {
	lastAction domain.Action
	lastParams map[string]interface{}
	envelope   domain.Params
	raw        []byte
	url        string
	err        error
}

func (m *mockGateway) Request(_ context.Context, action domain.Action, params map[string]interface{}) (domain.Params, error) {
	m.lastAction = action
	m.lastParams = params
	return m.envelope, m.err
}

func (m *mockGateway) RequestRaw(_ context.Context, action domain.Action, params map[string]interface{}) ([]byte, error) {
	m.lastAction = action
	m.lastParams = params
	return m.raw, m.err
}

func (m *mockGateway) Checkout(_ context.Context, action domain.Action, params map[string]interface{}) (string, error) {
	m.lastAction = action
	m.lastParams = params
	return m.url, m.err
}

func (m *mockGateway) CheckoutURL(action domain.Action, params map[string]interface{}) (string, error) {
	m.lastAction = action
	m.lastParams = params
	return m.url, m.err
}

func newTestService(gw *mockGateway) *Service {
	return NewService(gw, nil, nopLogger{})
}

func TestServicePay(t *testing.T) {
	gw := &mockGateway{envelope: domain.Params{"status": "success", "order_id": "o1"}}
	svc := newTestService(gw)

	result, err := svc.Pay(context.Background(), ChargeRequest{
		OrderID:     "o1",
		Amount:      decimal.RequireFromString("10.50"),
		Currency:    "UAH",
		Description: "Test order",
		Extra:       map[string]interface{}{"language": "en"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, result.Status())

	assert.Equal(t, domain.ActionPay, gw.lastAction)
	assert.Equal(t, "o1", gw.lastParams["order_id"])
	assert.Equal(t, "UAH", gw.lastParams["currency"])
	assert.Equal(t, "en", gw.lastParams["language"])
	_, hasCard := gw.lastParams["card"]
	assert.False(t, hasCard)
}

func TestServicePayWithCard(t *testing.T) {
	gw := &mockGateway{envelope: domain.Params{"status": "success"}}
	svc := newTestService(gw)

	_, err := svc.Pay(context.Background(), ChargeRequest{
		OrderID:      "o1",
		Amount:       decimal.NewFromInt(5),
		Currency:     "USD",
		Description:  "Card charge",
		Card:         "4242424242424242",
		CardExpMonth: "03",
		CardExpYear:  "30",
		CardCVV:      "123",
	})
	require.NoError(t, err)

	assert.Equal(t, "4242424242424242", gw.lastParams["card"])
	assert.Equal(t, "123", gw.lastParams["card_cvv"])
}

func TestServiceHoldAndDonate(t *testing.T) {
	gw := &mockGateway{envelope: domain.Params{"status": "hold_wait"}}
	svc := newTestService(gw)

	req := ChargeRequest{
		OrderID:     "o1",
		Amount:      decimal.NewFromInt(5),
		Currency:    "UAH",
		Description: "x",
	}

	_, err := svc.Hold(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.ActionHold, gw.lastAction)

	_, err = svc.Donate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.ActionPayDonate, gw.lastAction)
}

func TestServiceRefund(t *testing.T) {
	gw := &mockGateway{envelope: domain.Params{"status": "reversed"}}
	svc := newTestService(gw)

	t.Run("partial", func(t *testing.T) {
		result, err := svc.Refund(context.Background(), "o1", decimal.RequireFromString("3.25"))
		require.NoError(t, err)
		assert.Equal(t, domain.ActionRefund, gw.lastAction)
		assert.Equal(t, domain.StatusReversed, result.Status())

		amount, ok := gw.lastParams["amount"].(decimal.Decimal)
		require.True(t, ok)
		assert.Equal(t, "3.25", amount.String())
	})

	t.Run("full refund omits amount", func(t *testing.T) {
		_, err := svc.Refund(context.Background(), "o1", decimal.Zero)
		require.NoError(t, err)
		_, hasAmount := gw.lastParams["amount"]
		assert.False(t, hasAmount)
	})
}

func TestServiceStatus(t *testing.T) {
	gw := &mockGateway{envelope: domain.Params{
		"status":     "success",
		"order_id":   "o1",
		"payment_id": json.Number("42"),
	}}
	svc := newTestService(gw)

	result, err := svc.Status(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, domain.ActionStatus, gw.lastAction)
	assert.Equal(t, map[string]interface{}{"order_id": "o1"}, gw.lastParams)

	id, ok := result.PaymentID()
	require.True(t, ok)
	assert.Equal(t, int64(42), id)
}

func TestServiceSubscribe(t *testing.T) {
	gw := &mockGateway{envelope: domain.Params{"status": "subscribed"}}
	svc := newTestService(gw)

	start := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.Subscribe(context.Background(), SubscribeRequest{
		OrderID:     "o1",
		Amount:      decimal.NewFromInt(9),
		Currency:    "USD",
		Description: "Monthly plan",
		Periodicity: "month",
		DateStart:   start,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ActionSubscribe, gw.lastAction)
	assert.Equal(t, "month", gw.lastParams["subscribe_periodicity"])
	assert.Equal(t, start, gw.lastParams["subscribe_date_start"])
}

func TestServiceUnsubscribe(t *testing.T) {
	gw := &mockGateway{envelope: domain.Params{"status": "unsubscribed"}}
	svc := newTestService(gw)

	result, err := svc.Unsubscribe(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, domain.ActionUnsubscribe, gw.lastAction)
	assert.Equal(t, domain.StatusUnsubscribed, result.Status())
}

func TestServiceAttachInfoAndReceipt(t *testing.T) {
	gw := &mockGateway{envelope: domain.Params{"status": "success"}}
	svc := newTestService(gw)

	_, err := svc.AttachInfo(context.Background(), "o1", "shipment 5512")
	require.NoError(t, err)
	assert.Equal(t, domain.ActionData, gw.lastAction)
	assert.Equal(t, "shipment 5512", gw.lastParams["info"])

	_, err = svc.SendReceipt(context.Background(), "o1", "customer@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.ActionReceipt, gw.lastAction)
	assert.Equal(t, "customer@example.com", gw.lastParams["email"])
}

func TestServiceReports(t *testing.T) {
	gw := &mockGateway{raw: []byte("order_id,status\n")}
	svc := newTestService(gw)

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)

	t.Run("csv", func(t *testing.T) {
		body, err := svc.Reports(context.Background(), ReportsRequest{
			DateFrom: from,
			DateTo:   to,
			Format:   "csv",
		})
		require.NoError(t, err)
		assert.Equal(t, "order_id,status\n", string(body))
		assert.Equal(t, domain.ActionReports, gw.lastAction)
		assert.Equal(t, "csv", gw.lastParams["resp_format"])
	})

	t.Run("json omits resp_format", func(t *testing.T) {
		_, err := svc.Reports(context.Background(), ReportsRequest{DateFrom: from, DateTo: to})
		require.NoError(t, err)
		_, hasFormat := gw.lastParams["resp_format"]
		assert.False(t, hasFormat)
	})
}

func TestServiceCheckoutLinks(t *testing.T) {
	gw := &mockGateway{url: "https://www.liqpay.ua/api/3/checkout?data=x&signature=y"}
	svc := newTestService(gw)

	link, err := svc.CheckoutLink(ChargeRequest{
		OrderID:     "o1",
		Amount:      decimal.NewFromInt(10),
		Currency:    "UAH",
		Description: "x",
	})
	require.NoError(t, err)
	assert.Equal(t, gw.url, link)
	assert.Equal(t, domain.ActionPay, gw.lastAction)

	_, err = svc.SubscriptionCheckoutLink(SubscribeRequest{
		OrderID:     "o1",
		Amount:      decimal.NewFromInt(10),
		Currency:    "UAH",
		Description: "x",
		Periodicity: "year",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ActionSubscribe, gw.lastAction)
	assert.Equal(t, "year", gw.lastParams["subscribe_periodicity"])
}

func TestServicePropagatesGatewayError(t *testing.T) {
	gw := &mockGateway{err: domain.NewGatewayError("limit", "Declined", domain.StatusFailure)}
	svc := newTestService(gw)

	_, err := svc.Status(context.Background(), "o1")
	require.Error(t, err)

	var gwErr *domain.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, "limit", gwErr.ErrCode)
}

func TestServiceLatestCallbackWithoutStore(t *testing.T) {
	svc := newTestService(&mockGateway{})

	_, err := svc.LatestCallback(context.Background(), "o1")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorCodeStorageError, domain.GetErrorCode(err))
}
