package callback

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kevin07696/liqpay-client/internal/adapters/ports"
	"github.com/kevin07696/liqpay-client/internal/domain"
	"github.com/kevin07696/liqpay-client/pkg/observability"
)

// Handler receives gateway callbacks over HTTP. The gateway POSTs a
// form-encoded (data, signature) pair; nothing in the body is trusted until
// the signature verifies.
type Handler struct {
	verifier ports.CallbackVerifier
	store    ports.CallbackStore
	logger   ports.Logger
}

// NewHandler creates a callback handler. The store is optional.
func NewHandler(verifier ports.CallbackVerifier, store ports.CallbackStore, logger ports.Logger) *Handler {
	return &Handler{
		verifier: verifier,
		store:    store,
		logger:   logger,
	}
}

// Register mounts the callback routes on a chi router
func (h *Handler) Register(r chi.Router) {
	r.Post("/callback", h.HandleCallback)
	r.Get("/callbacks/{orderID}", h.HandleLatestCallback)
}

// HandleCallback verifies and records one gateway callback.
// The gateway retries on non-200, so only unrecoverable verification
// failures return 4xx; storage trouble returns 500 to trigger a retry.
func (h *Handler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		observability.ObserveCallback(observability.CallbackMalformed)
		writeError(w, http.StatusBadRequest, "malformed form body")
		return
	}

	data := r.PostFormValue("data")
	signature := r.PostFormValue("signature")
	if data == "" || signature == "" {
		observability.ObserveCallback(observability.CallbackMissingEnvelope)
		writeError(w, http.StatusBadRequest, "data and signature are required")
		return
	}

	result, err := h.verifier.Verify(data, signature)
	if err != nil {
		switch domain.GetErrorCode(err) {
		case domain.ErrorCodeSignatureMismatch:
			h.logger.Warn("Rejected callback with bad signature",
				ports.String("remote_addr", r.RemoteAddr),
			)
			observability.ObserveCallback(observability.CallbackBadSignature)
			writeError(w, http.StatusUnauthorized, "signature verification failed")
		case domain.ErrorCodeDecodeFailed:
			observability.ObserveCallback(observability.CallbackMalformed)
			writeError(w, http.StatusBadRequest, "payload is not well-formed")
		default:
			observability.ObserveCallback(observability.CallbackMalformed)
			writeError(w, http.StatusBadRequest, "callback rejected")
		}
		return
	}

	if h.store != nil {
		if err := h.store.SaveCallback(r.Context(), result); err != nil {
			h.logger.Error("Failed to persist callback",
				ports.String("order_id", result.OrderID()),
				ports.Err(err),
			)
			observability.ObserveCallback(observability.CallbackStoreFailed)
			writeError(w, http.StatusInternalServerError, "failed to record callback")
			return
		}
	}

	h.logger.Info("Callback accepted",
		ports.String("order_id", result.OrderID()),
		ports.String("action", string(result.Action())),
		ports.String("status", string(result.Status())),
	)
	observability.ObserveCallback(observability.CallbackVerified)

	writeJSON(w, http.StatusOK, map[string]string{"result": "ok"})
}

// HandleLatestCallback returns the most recent recorded callback for an order
func (h *Handler) HandleLatestCallback(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusNotFound, "callback store not configured")
		return
	}

	orderID := chi.URLParam(r, "orderID")
	stored, err := h.store.LatestByOrder(r.Context(), orderID)
	if err != nil {
		h.logger.Error("Failed to load callback",
			ports.String("order_id", orderID),
			ports.Err(err),
		)
		writeError(w, http.StatusInternalServerError, "failed to load callback")
		return
	}
	if stored == nil {
		writeError(w, http.StatusNotFound, "no callback recorded for order")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"order_id":    stored.OrderID,
		"payment_id":  stored.PaymentID,
		"action":      stored.Action,
		"status":      stored.Status,
		"amount":      stored.Amount,
		"currency":    stored.Currency,
		"err_code":    stored.ErrCode,
		"payload":     json.RawMessage(stored.Payload),
		"received_at": stored.ReceivedAt,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
