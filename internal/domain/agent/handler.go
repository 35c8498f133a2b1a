package agent

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/holidaysri/promo-api/internal/domain/tier"
	"github.com/holidaysri/promo-api/internal/middleware"
	"github.com/holidaysri/promo-api/internal/pkg/response"
	"github.com/holidaysri/promo-api/internal/pkg/validator"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	a, err := h.svc.Create(r.Context(), userID, tier.Tier(req.Tier), req.ReferredByCode)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateActiveCode):
			response.Conflict(w, "user already holds an active promo code")
		case errors.Is(err, ErrInvalidReferralCode):
			response.UnprocessableEntity(w, "INVALID_REFERRAL_CODE", "referral code does not belong to an active agent", map[string]string{"field": "referred_by_code"})
		case errors.Is(err, tier.ErrInvalidTier):
			response.BadRequest(w, "unknown tier")
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, a)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	a, err := h.svc.GetByUserID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "no active agent record")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, a)
}

// ProbeCode lets checkout flows check a candidate code before quoting
func (h *Handler) ProbeCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	a, err := h.svc.GetByCode(r.Context(), code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "promo code not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, CodeProbeResponse{
		PromoCode: a.PromoCode,
		Tier:      a.Tier,
		Active:    a.IsActiveAt(time.Now()),
		ExpiresAt: a.ExpirationDate,
	})
}

// AdPromotion is the inbound entry point for promotion flows crediting an
// agent with one promoted ad. The idempotency key identifies the ad event.
func (h *Handler) AdPromotion(w http.ResponseWriter, r *http.Request) {
	agentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid agent id")
		return
	}

	var req AdPromotionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = r.Header.Get("X-Idempotency-Key")
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	a, err := h.svc.RecordAdPromotion(r.Context(), agentID, req.IdempotencyKey)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(w, "agent not found")
		case errors.Is(err, ErrMissingIdempotency):
			response.BadRequest(w, "idempotency_key is required")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, a)
}

func (h *Handler) QuoteRenewal(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req RenewalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	a, err := h.svc.GetByUserID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "no active agent record")
			return
		}
		response.InternalError(w)
		return
	}

	amount, err := h.svc.QuoteRenewal(r.Context(), a, req.action(), req.DiscountHSC)
	if err != nil {
		h.writeRenewalError(w, err)
		return
	}

	response.OK(w, QuoteResponse{
		Action:      req.Action,
		TargetTier:  req.TargetTier,
		AmountHSC:   amount,
		DiscountHSC: req.DiscountHSC,
	})
}

func (h *Handler) ApplyRenewal(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req RenewalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	a, err := h.svc.ApplyRenewal(r.Context(), userID, req.action(), req.DiscountHSC, req.ReferenceID)
	if err != nil {
		h.writeRenewalError(w, err)
		return
	}

	response.OK(w, a)
}

func (h *Handler) writeRenewalError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "no active agent record")
	case errors.Is(err, ErrInvalidUpgrade):
		response.UnprocessableEntity(w, "INVALID_UPGRADE", "upgrade target must be strictly higher than the current tier", map[string]string{"field": "target_tier"})
	case errors.Is(err, ErrInsufficientBalance):
		response.UnprocessableEntity(w, "INSUFFICIENT_BALANCE", "HSC balance does not cover the renewal amount", map[string]string{"currency": "HSC"})
	case errors.Is(err, ErrMissingIdempotency):
		response.BadRequest(w, "reference_id is required")
	case errors.Is(err, tier.ErrConfigNotFound):
		response.InternalError(w)
	default:
		response.InternalError(w)
	}
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Post("/", h.Create)
	r.Get("/me", h.Me)
	r.Get("/code/{code}", h.ProbeCode)
	r.Post("/renewal/quote", h.QuoteRenewal)
	r.Post("/renewal", h.ApplyRenewal)
	r.With(middleware.RequireRole("service", "admin")).Post("/{id}/ad-promotions", h.AdPromotion)
	return r
}
