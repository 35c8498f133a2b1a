package earning

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/holidaysri/promo-api/internal/middleware"
	"github.com/holidaysri/promo-api/internal/pkg/response"
	"github.com/holidaysri/promo-api/internal/pkg/validator"
)

// AgentResolver maps the authenticated user to their agent record
type AgentResolver interface {
	AgentIDForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
}

type Handler struct {
	svc    *Service
	agents AgentResolver
}

func NewHandler(svc *Service, agents AgentResolver) *Handler {
	return &Handler{svc: svc, agents: agents}
}

// Credit is called by internal purchase and promotion flows, not end users
func (h *Handler) Credit(w http.ResponseWriter, r *http.Request) {
	var req CreditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	e, err := h.svc.Credit(r.Context(), req.toEntity())
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrInvalidSource):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, e)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	agentID, ok := h.resolveAgent(w, r)
	if !ok {
		return
	}

	status := Status(r.URL.Query().Get("status"))
	if status == "" {
		status = StatusPending
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	earnings, err := h.svc.List(r.Context(), agentID, status, limit, offset)
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			response.BadRequest(w, "status must be one of pending, processed, paid")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, earnings)
}

func (h *Handler) Totals(w http.ResponseWriter, r *http.Request) {
	agentID, ok := h.resolveAgent(w, r)
	if !ok {
		return
	}

	t, err := h.svc.Totals(r.Context(), agentID)
	if err != nil {
		response.InternalError(w)
		return
	}

	min := h.svc.MinClaimThreshold()
	response.OK(w, TotalsResponse{
		Totals:               *t,
		MinClaimThresholdLKR: min,
		Claimable:            t.Pending >= min,
	})
}

func (h *Handler) SubmitClaim(w http.ResponseWriter, r *http.Request) {
	agentID, ok := h.resolveAgent(w, r)
	if !ok {
		return
	}

	var req SubmitClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	claim, err := h.svc.SubmitClaim(r.Context(), agentID, req.EarningIDs)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyClaim):
			response.BadRequest(w, "earning_ids must not be empty")
		case errors.Is(err, ErrBelowMinimum):
			response.UnprocessableEntity(w, "BELOW_MINIMUM", "claim total is below the minimum threshold",
				map[string]string{"min_claim_threshold_lkr": strconv.FormatInt(h.svc.MinClaimThreshold(), 10)})
		case errors.Is(err, ErrNotOwnedOrNotPending):
			response.UnprocessableEntity(w, "NOT_OWNED_OR_NOT_PENDING", "every earning must belong to you and still be pending", nil)
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, claim)
}

func (h *Handler) ListClaims(w http.ResponseWriter, r *http.Request) {
	agentID, ok := h.resolveAgent(w, r)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	claims, err := h.svc.ListClaims(r.Context(), agentID, limit, offset)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, claims)
}

func (h *Handler) SettleClaim(w http.ResponseWriter, r *http.Request) {
	claimID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid claim id")
		return
	}

	claim, err := h.svc.SettleClaim(r.Context(), claimID)
	if err != nil {
		switch {
		case errors.Is(err, ErrClaimNotFound):
			response.NotFound(w, "claim not found")
		case errors.Is(err, ErrAlreadySettled):
			response.Conflict(w, "claim already settled")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, claim)
}

func (h *Handler) resolveAgent(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return uuid.Nil, false
	}

	agentID, err := h.agents.AgentIDForUser(r.Context(), userID)
	if err != nil {
		response.NotFound(w, "no active agent record")
		return uuid.Nil, false
	}
	return agentID, true
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Get("/", h.List)
	r.Get("/totals", h.Totals)
	r.Post("/claims", h.SubmitClaim)
	r.Get("/claims", h.ListClaims)
	r.With(middleware.RequireRole("service", "admin")).Post("/", h.Credit)
	r.With(middleware.RequireAdmin()).Post("/claims/{id}/settle", h.SettleClaim)
	return r
}
