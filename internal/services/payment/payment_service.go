package payment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kevin07696/liqpay-client/internal/adapters/ports"
	"github.com/kevin07696/liqpay-client/internal/domain"
)

// Service exposes gateway operations as typed use cases. It owns no
// transport or signing concerns; those live behind the GatewayClient port.
type Service struct {
	gateway ports.GatewayClient
	store   ports.CallbackStore
	logger  ports.Logger
}

// NewService creates a new payment service. The callback store is optional;
// pass nil when callbacks are not persisted.
func NewService(gateway ports.GatewayClient, store ports.CallbackStore, logger ports.Logger) *Service {
	return &Service{
		gateway: gateway,
		store:   store,
		logger:  logger,
	}
}

// ChargeRequest describes a one-off charge or an authorization hold
type ChargeRequest struct {
	OrderID     string
	Amount      decimal.Decimal
	Currency    string
	Description string

	// Card fields for direct server-to-server charges. Leave empty when
	// using hosted checkout.
	Card         string
	CardExpMonth string
	CardExpYear  string
	CardCVV      string

	// Extra carries optional gateway parameters (phone, language,
	// result_url, server_url, ...) passed through validation untouched.
	Extra map[string]interface{}
}

// SubscribeRequest describes a recurring charge enrollment
type SubscribeRequest struct {
	OrderID     string
	Amount      decimal.Decimal
	Currency    string
	Description string
	Periodicity string    // "month" or "year"
	DateStart   time.Time // zero value means start now

	Card         string
	CardExpMonth string
	CardExpYear  string
	CardCVV      string

	Extra map[string]interface{}
}

// ReportsRequest bounds a report export. Format is "json", "csv" or "xml";
// empty means json.
type ReportsRequest struct {
	DateFrom time.Time
	DateTo   time.Time
	Format   string
}

// Pay performs a direct charge
func (s *Service) Pay(ctx context.Context, req ChargeRequest) (*domain.CallbackResult, error) {
	return s.exchange(ctx, domain.ActionPay, s.chargeParams(req))
}

// Hold authorizes funds without capturing them
func (s *Service) Hold(ctx context.Context, req ChargeRequest) (*domain.CallbackResult, error) {
	return s.exchange(ctx, domain.ActionHold, s.chargeParams(req))
}

// Donate performs a donation charge
func (s *Service) Donate(ctx context.Context, req ChargeRequest) (*domain.CallbackResult, error) {
	return s.exchange(ctx, domain.ActionPayDonate, s.chargeParams(req))
}

// Refund returns funds for a completed payment. A zero amount refunds the
// full payment.
func (s *Service) Refund(ctx context.Context, orderID string, amount decimal.Decimal) (*domain.CallbackResult, error) {
	params := map[string]interface{}{
		"order_id": orderID,
	}
	if !amount.IsZero() {
		params["amount"] = amount
	}
	return s.exchange(ctx, domain.ActionRefund, params)
}

// Status queries the current state of a payment
func (s *Service) Status(ctx context.Context, orderID string) (*domain.CallbackResult, error) {
	return s.exchange(ctx, domain.ActionStatus, map[string]interface{}{
		"order_id": orderID,
	})
}

// Subscribe enrolls a recurring charge
func (s *Service) Subscribe(ctx context.Context, req SubscribeRequest) (*domain.CallbackResult, error) {
	params := s.chargeParams(ChargeRequest{
		OrderID:      req.OrderID,
		Amount:       req.Amount,
		Currency:     req.Currency,
		Description:  req.Description,
		Card:         req.Card,
		CardExpMonth: req.CardExpMonth,
		CardExpYear:  req.CardExpYear,
		CardCVV:      req.CardCVV,
		Extra:        req.Extra,
	})
	params["subscribe_periodicity"] = req.Periodicity
	if !req.DateStart.IsZero() {
		params["subscribe_date_start"] = req.DateStart
	}
	return s.exchange(ctx, domain.ActionSubscribe, params)
}

// Unsubscribe cancels a recurring charge
func (s *Service) Unsubscribe(ctx context.Context, orderID string) (*domain.CallbackResult, error) {
	return s.exchange(ctx, domain.ActionUnsubscribe, map[string]interface{}{
		"order_id": orderID,
	})
}

// AttachInfo adds a note to an existing payment
func (s *Service) AttachInfo(ctx context.Context, orderID, info string) (*domain.CallbackResult, error) {
	return s.exchange(ctx, domain.ActionData, map[string]interface{}{
		"order_id": orderID,
		"info":     info,
	})
}

// SendReceipt emails a fiscal receipt for a payment
func (s *Service) SendReceipt(ctx context.Context, orderID, email string) (*domain.CallbackResult, error) {
	return s.exchange(ctx, domain.ActionReceipt, map[string]interface{}{
		"order_id": orderID,
		"email":    email,
	})
}

// Reports exports the merchant transaction registry for a period. JSON
// exports are decoded; csv and xml come back as raw bytes.
func (s *Service) Reports(ctx context.Context, req ReportsRequest) ([]byte, error) {
	params := map[string]interface{}{
		"date_from": req.DateFrom,
		"date_to":   req.DateTo,
	}
	if req.Format != "" && req.Format != "json" {
		params["resp_format"] = req.Format
	}
	return s.gateway.RequestRaw(ctx, domain.ActionReports, params)
}

// CheckoutLink builds the hosted payment page URL locally. The customer
// completes the payment in the browser; the outcome arrives as a callback.
func (s *Service) CheckoutLink(req ChargeRequest) (string, error) {
	params := s.chargeParams(req)
	return s.gateway.CheckoutURL(domain.ActionPay, params)
}

// SubscriptionCheckoutLink builds a hosted checkout URL that enrolls a
// recurring charge.
func (s *Service) SubscriptionCheckoutLink(req SubscribeRequest) (string, error) {
	params := s.chargeParams(ChargeRequest{
		OrderID:     req.OrderID,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Description: req.Description,
		Extra:       req.Extra,
	})
	params["subscribe_periodicity"] = req.Periodicity
	if !req.DateStart.IsZero() {
		params["subscribe_date_start"] = req.DateStart
	}
	return s.gateway.CheckoutURL(domain.ActionSubscribe, params)
}

// LatestCallback returns the most recent persisted callback for an order
func (s *Service) LatestCallback(ctx context.Context, orderID string) (*ports.StoredCallback, error) {
	if s.store == nil {
		return nil, domain.NewDomainError(domain.ErrorCodeStorageError, "callback store not configured")
	}
	return s.store.LatestByOrder(ctx, orderID)
}

func (s *Service) exchange(ctx context.Context, action domain.Action, params map[string]interface{}) (*domain.CallbackResult, error) {
	envelope, err := s.gateway.Request(ctx, action, params)
	if err != nil {
		return nil, err
	}

	result := domain.NewCallbackResult(envelope)
	s.logger.Info("Gateway operation complete",
		ports.String("action", string(action)),
		ports.String("order_id", result.OrderID()),
		ports.String("status", string(result.Status())),
	)
	return result, nil
}

func (s *Service) chargeParams(req ChargeRequest) map[string]interface{} {
	params := make(map[string]interface{}, len(req.Extra)+8)
	for k, v := range req.Extra {
		params[k] = v
	}

	params["order_id"] = req.OrderID
	params["amount"] = req.Amount
	params["currency"] = req.Currency
	params["description"] = req.Description

	if req.Card != "" {
		params["card"] = req.Card
		params["card_exp_month"] = req.CardExpMonth
		params["card_exp_year"] = req.CardExpYear
		params["card_cvv"] = req.CardCVV
	}
	return params
}
