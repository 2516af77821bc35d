package liqpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kevin07696/liqpay-client/internal/adapters/ports"
	"github.com/kevin07696/liqpay-client/internal/domain"
	"github.com/kevin07696/liqpay-client/pkg/observability"
)

// Client implements the GatewayClient port against the LiqPay HTTP API.
// It posts the signed (data, signature) envelope form-encoded and decodes
// the JSON response envelope, tolerating fields it does not model.
type Client struct {
	assembler  *Assembler
	httpClient ports.HTTPClient
	logger     ports.Logger
	baseURL    string
}

// NewClient creates a gateway client with dependency injection
func NewClient(creds Credentials, httpClient ports.HTTPClient, logger ports.Logger) *Client {
	return NewClientWithBaseURL(creds, httpClient, logger, DefaultBaseURL)
}

// NewClientWithBaseURL creates a gateway client against a custom base URL
func NewClientWithBaseURL(creds Credentials, httpClient ports.HTTPClient, logger ports.Logger, baseURL string) *Client {
	return &Client{
		assembler:  NewAssemblerWithBaseURL(creds, NewNormalizer(), baseURL),
		httpClient: httpClient,
		logger:     logger,
		baseURL:    baseURL,
	}
}

// Request posts a signed request for the action and returns the decoded
// response envelope. A response whose result/status reports a business
// failure is mapped to *domain.GatewayError carrying the gateway's
// err_code and err_description.
func (c *Client) Request(ctx context.Context, action domain.Action, raw map[string]interface{}) (domain.Params, error) {
	body, elapsed, err := c.post(ctx, action, raw, RequestPath)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var envelope domain.Params
	if err := dec.Decode(&envelope); err != nil {
		observability.ObserveGatewayRequest(string(action), observability.OutcomeTransport, elapsed)
		return nil, domain.WrapError(domain.ErrorCodeTransportError, "gateway response is not JSON", err)
	}

	if gwErr := envelopeError(envelope); gwErr != nil {
		c.logger.Warn("Gateway reported failure",
			ports.String("action", string(action)),
			ports.String("err_code", gwErr.ErrCode),
			ports.String("status", string(gwErr.Status)),
		)
		observability.ObserveGatewayRequest(string(action), observability.OutcomeGatewayError, elapsed)
		return nil, gwErr
	}

	observability.ObserveGatewayRequest(string(action), observability.OutcomeOK, elapsed)
	return envelope, nil
}

// RequestRaw posts a signed request and returns the raw response body.
// Report exports in csv or xml come back this way.
func (c *Client) RequestRaw(ctx context.Context, action domain.Action, raw map[string]interface{}) ([]byte, error) {
	body, elapsed, err := c.post(ctx, action, raw, RequestPath)
	if err != nil {
		return nil, err
	}
	observability.ObserveGatewayRequest(string(action), observability.OutcomeOK, elapsed)
	return body, nil
}

// Checkout posts a signed checkout request without following the redirect
// and resolves the hosted payment page URL for the browser.
func (c *Client) Checkout(ctx context.Context, action domain.Action, raw map[string]interface{}) (string, error) {
	req, err := c.assembler.Build(action, raw)
	if err != nil {
		return "", err
	}
	spec, err := domain.SpecFor(action)
	if err != nil {
		return "", err
	}
	if !spec.Checkout {
		return "", domain.NewValidationError("action", "not supported for hosted checkout")
	}

	resp, err := c.do(ctx, CheckoutPath, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 && resp.StatusCode < 400 {
		location := resp.Header.Get("Location")
		if location == "" {
			return "", domain.NewDomainError(domain.ErrorCodeTransportError, "checkout redirect without Location header")
		}
		return location, nil
	}
	return "", domain.NewDomainError(domain.ErrorCodeTransportError,
		fmt.Sprintf("unexpected checkout response status %d", resp.StatusCode))
}

// CheckoutURL builds the redirect URL locally without contacting the gateway
func (c *Client) CheckoutURL(action domain.Action, raw map[string]interface{}) (string, error) {
	return c.assembler.CheckoutURL(action, raw)
}

// post performs the signed exchange and reports how long the wire round
// trip took, body read included, so every outcome is observed with the
// real elapsed time.
func (c *Client) post(ctx context.Context, action domain.Action, raw map[string]interface{}, path string) ([]byte, time.Duration, error) {
	req, err := c.assembler.Build(action, raw)
	if err != nil {
		observability.ObserveGatewayRequest(string(action), observability.OutcomeValidation, 0)
		return nil, 0, err
	}

	start := time.Now()
	resp, err := c.do(ctx, path, req)
	if err != nil {
		elapsed := time.Since(start)
		observability.ObserveGatewayRequest(string(action), observability.OutcomeTransport, elapsed)
		return nil, elapsed, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	if err != nil {
		observability.ObserveGatewayRequest(string(action), observability.OutcomeTransport, elapsed)
		return nil, elapsed, domain.WrapError(domain.ErrorCodeTransportError, "failed to read gateway response", err)
	}

	c.logger.Debug("Gateway exchange complete",
		ports.String("action", string(action)),
		ports.Int("http_status", resp.StatusCode),
	)

	if resp.StatusCode != http.StatusOK {
		observability.ObserveGatewayRequest(string(action), observability.OutcomeTransport, elapsed)
		return nil, elapsed, domain.NewDomainError(domain.ErrorCodeTransportError,
			fmt.Sprintf("gateway returned HTTP %d", resp.StatusCode))
	}
	return body, elapsed, nil
}

func (c *Client) do(ctx context.Context, path string, signed *SignedRequest) (*http.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path,
		strings.NewReader(signed.Form().Encode()))
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeTransportError, "failed to create HTTP request", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeTransportError, "gateway request failed", err)
	}
	return resp, nil
}

// envelopeError inspects a decoded response envelope and returns a
// GatewayError when result/status report a failure. Statuses are taken
// verbatim; nothing is invented on the client side.
func envelopeError(envelope domain.Params) *domain.GatewayError {
	result := envelope.String("result")
	status := domain.Status(envelope.String("status"))

	if result != "error" && !status.IsFailure() {
		return nil
	}

	code := envelope.String("err_code")
	if code == "" {
		code = "unknown"
	}
	return domain.NewGatewayError(code, domain.TranslateErrDescription(envelope.String("err_description")), status)
}
