package discount

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/holidaysri/promo-api/internal/domain/wallet"
	"github.com/holidaysri/promo-api/internal/pkg/response"
	"github.com/holidaysri/promo-api/internal/pkg/validator"
)

type Handler struct {
	svc *Service
}

type quoteRequest struct {
	PurchaseType       string `json:"purchase_type" validate:"required,purchase_type"`
	OriginalAmount     int64  `json:"original_amount" validate:"gte=0"`
	Currency           string `json:"currency" validate:"required,currency"`
	CandidatePromoCode string `json:"candidate_promo_code,omitempty" validate:"omitempty,min=4,max=16"`
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	q, err := h.svc.Quote(r.Context(), PurchaseContext{
		PurchaseType:       PurchaseType(req.PurchaseType),
		OriginalAmount:     req.OriginalAmount,
		Currency:           wallet.Currency(req.Currency),
		CandidatePromoCode: req.CandidatePromoCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCode):
			response.UnprocessableEntity(w, "INVALID_CODE", "promo code does not exist", map[string]string{"field": "candidate_promo_code"})
		case errors.Is(err, ErrExpiredCode):
			response.UnprocessableEntity(w, "EXPIRED_CODE", "promo code belongs to an expired or inactive agent", map[string]string{"field": "candidate_promo_code"})
		case errors.Is(err, ErrIneligibleCurrency):
			response.UnprocessableEntity(w, "INELIGIBLE_CURRENCY", "promo discounts only apply to HSC purchases", map[string]string{"field": "currency", "eligible_currency": "HSC"})
		case errors.Is(err, ErrInvalidPurchaseType), errors.Is(err, ErrInvalidAmount):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, q)
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Post("/quote", h.Quote)
	return r
}
