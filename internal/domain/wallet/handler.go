package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/holidaysri/promo-api/internal/middleware"
	"github.com/holidaysri/promo-api/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

type walletRequest struct {
	Currency    Currency `json:"currency"`
	Amount      int64    `json:"amount"`
	ReferenceID string   `json:"reference_id"`
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) TopUp(w http.ResponseWriter, r *http.Request) {
	h.handleMutation(w, r, h.svc.TopUp)
}

func (h *Handler) Refund(w http.ResponseWriter, r *http.Request) {
	h.handleMutation(w, r, h.svc.Refund)
}

func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	currency := Currency(r.URL.Query().Get("currency"))
	if currency == "" {
		currency = CurrencyHSC
	}

	balance, err := h.svc.GetBalance(r.Context(), userID, currency)
	if err != nil {
		if errors.Is(err, ErrInvalidCurrency) {
			response.BadRequest(w, "unknown currency")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]interface{}{"currency": currency, "balance": balance})
}

func (h *Handler) handleMutation(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, userID uuid.UUID, currency Currency, amount int64, referenceID string) error) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req walletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if req.Currency == "" {
		req.Currency = CurrencyHSC
	}

	err := fn(r.Context(), userID, req.Currency, req.Amount, req.ReferenceID)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCurrency):
			response.BadRequest(w, "unknown currency")
		case errors.Is(err, ErrInvalidAmount):
			response.BadRequest(w, "amount must be greater than zero and reference_id is required")
		case errors.Is(err, ErrInsufficientFunds):
			response.Conflict(w, "insufficient wallet balance")
		case errors.Is(err, ErrReferenceConflict):
			response.Conflict(w, "reference_id already used with a different amount")
		default:
			response.InternalError(w)
		}
		return
	}

	balance, err := h.svc.GetBalance(r.Context(), userID, req.Currency)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]interface{}{"currency": req.Currency, "balance": balance})
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Post("/topup", h.TopUp)
	r.Post("/refund", h.Refund)
	r.Get("/balance", h.Balance)
	return r
}
