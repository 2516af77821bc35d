package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kevin07696/liqpay-client/internal/adapters/ports"
	"github.com/kevin07696/liqpay-client/internal/domain"
)

// Schema holds the DDL for the callback table. Applied by cmd/server at
// startup; safe to re-run.
const Schema = `
CREATE TABLE IF NOT EXISTS gateway_callbacks (
    order_id    TEXT        NOT NULL,
    payment_id  BIGINT      NOT NULL DEFAULT 0,
    action      TEXT        NOT NULL DEFAULT '',
    status      TEXT        NOT NULL,
    amount      TEXT        NOT NULL DEFAULT '',
    currency    TEXT        NOT NULL DEFAULT '',
    err_code    TEXT        NOT NULL DEFAULT '',
    payload     JSONB       NOT NULL,
    received_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (order_id, payment_id, status)
)`

// CallbackRepository implements ports.CallbackStore on PostgreSQL.
// Writes are idempotent upserts: re-delivering the same callback updates
// the existing record instead of accumulating duplicates.
type CallbackRepository struct {
	db     *pgxpool.Pool
	logger ports.Logger
}

// NewCallbackRepository creates a new callback repository
func NewCallbackRepository(db *pgxpool.Pool, logger ports.Logger) *CallbackRepository {
	return &CallbackRepository{db: db, logger: logger}
}

// EnsureSchema creates the callback table when it does not exist
func (r *CallbackRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure callback schema: %w", err)
	}
	return nil
}

// SaveCallback persists a verified callback
func (r *CallbackRepository) SaveCallback(ctx context.Context, result *domain.CallbackResult) error {
	payload, err := json.Marshal(result.Params())
	if err != nil {
		return domain.WrapError(domain.ErrorCodeStorageError, "marshal callback payload", err)
	}

	paymentID, _ := result.PaymentID()
	amount := ""
	if a, ok := result.Amount(); ok {
		amount = a.String()
	}

	const q = `
		INSERT INTO gateway_callbacks
			(order_id, payment_id, action, status, amount, currency, err_code, payload, received_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (order_id, payment_id, status) DO UPDATE
			SET payload = EXCLUDED.payload`

	_, err = r.db.Exec(ctx, q,
		result.OrderID(),
		paymentID,
		string(result.Action()),
		string(result.Status()),
		amount,
		result.Currency(),
		result.ErrCode(),
		payload,
		time.Now().UTC(),
	)
	if err != nil {
		return domain.WrapError(domain.ErrorCodeStorageError, "save callback", err)
	}

	r.logger.Debug("Callback persisted",
		ports.String("order_id", result.OrderID()),
		ports.String("status", string(result.Status())),
	)
	return nil
}

// LatestByOrder returns the most recently received callback for an order,
// or nil when none was recorded.
func (r *CallbackRepository) LatestByOrder(ctx context.Context, orderID string) (*ports.StoredCallback, error) {
	const q = `
		SELECT order_id, payment_id, action, status, amount, currency, err_code, payload, received_at
		FROM gateway_callbacks
		WHERE order_id = $1
		ORDER BY received_at DESC
		LIMIT 1`

	var (
		stored     ports.StoredCallback
		receivedAt time.Time
	)
	err := r.db.QueryRow(ctx, q, orderID).Scan(
		&stored.OrderID,
		&stored.PaymentID,
		&stored.Action,
		&stored.Status,
		&stored.Amount,
		&stored.Currency,
		&stored.ErrCode,
		&stored.Payload,
		&receivedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeStorageError, "load callback", err)
	}

	stored.ReceivedAt = receivedAt.UTC().Format(time.RFC3339)
	return &stored, nil
}
