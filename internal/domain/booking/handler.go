package booking

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/holidaysri/promo-api/internal/domain/discount"
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

	b, err := h.svc.Create(r.Context(), userID, req.toEntity(), req.PromoCode)
	if err != nil {
		switch {
		case errors.Is(err, ErrHotelNotFound):
			response.NotFound(w, "hotel not found")
		case errors.Is(err, ErrInvalidStay):
			response.BadRequest(w, "check-out must be after check-in")
		case errors.Is(err, discount.ErrInvalidCode):
			response.UnprocessableEntity(w, "INVALID_CODE", "promo code does not exist", map[string]string{"field": "promo_code"})
		case errors.Is(err, discount.ErrExpiredCode):
			response.UnprocessableEntity(w, "EXPIRED_CODE", "promo code belongs to an expired or inactive agent", map[string]string{"field": "promo_code"})
		case errors.Is(err, discount.ErrIneligibleCurrency):
			response.UnprocessableEntity(w, "INELIGIBLE_CURRENCY", "promo discounts only apply to HSC purchases", map[string]string{"field": "currency"})
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, b)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid booking id")
		return
	}

	b, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "booking request not found")
			return
		}
		response.InternalError(w)
		return
	}

	// Only the traveler and the hotel owner may read the request.
	userID := middleware.GetUserID(r.Context())
	if userID != b.UserID && userID != b.HotelOwnerID && middleware.GetRole(r.Context()) != "admin" {
		response.Forbidden(w, "forbidden")
		return
	}

	response.OK(w, b)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	bookings, err := h.svc.ListMine(r.Context(), userID, limit, offset)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, bookings)
}

func (h *Handler) ListIncoming(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserID(r.Context())
	if ownerID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	status := Status(r.URL.Query().Get("status"))

	bookings, err := h.svc.ListForOwner(r.Context(), ownerID, status, limit, offset)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, bookings)
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, StatusApproved)
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, StatusRejected)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, decision Status) {
	ownerID := middleware.GetUserID(r.Context())
	if ownerID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid booking id")
		return
	}

	// The body is optional; an empty note is fine.
	var req decideRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	b, err := h.svc.Decide(r.Context(), id, ownerID, decision, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(w, "booking request not found")
		case errors.Is(err, ErrNotOwner):
			response.Forbidden(w, "booking request belongs to another hotel owner")
		case errors.Is(err, ErrNotPending):
			response.Conflict(w, "booking request is no longer pending")
		case errors.Is(err, ErrInvalidDecision):
			response.BadRequest(w, "status must be Approved or Rejected")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, b)
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Post("/", h.Create)
	r.Get("/", h.ListMine)
	r.Get("/{id}", h.Get)
	r.With(middleware.RequireHotelOwner()).Get("/incoming", h.ListIncoming)
	r.With(middleware.RequireHotelOwner()).Post("/{id}/approve", h.Approve)
	r.With(middleware.RequireHotelOwner()).Post("/{id}/reject", h.Reject)
	return r
}
