package earning

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Notifier is the slice of the notification service the ledger uses
type Notifier interface {
	NotifyEarningCredited(userID uuid.UUID, agentID uuid.UUID, amountLKR int64, source string)
	NotifyClaimSubmitted(userID uuid.UUID, claimID uuid.UUID, totalLKR int64)
	NotifyClaimPaid(userID uuid.UUID, claimID uuid.UUID, totalLKR int64)
}

// AgentDirectory resolves an agent id to its owning user for notifications
type AgentDirectory interface {
	OwnerOf(ctx context.Context, agentID uuid.UUID) (uuid.UUID, error)
}

type Service struct {
	repo        Repository
	agents      AgentDirectory
	notifier    Notifier
	minClaimLKR int64
}

func NewService(repo Repository, agents AgentDirectory, notifier Notifier, minClaimLKR int64) *Service {
	return &Service{
		repo:        repo,
		agents:      agents,
		notifier:    notifier,
		minClaimLKR: minClaimLKR,
	}
}

// Credit appends a pending earning for a qualifying event. Amounts are fixed
// by the agent's tier configuration at the time of the event; the caller
// passes the already-resolved amount.
func (s *Service) Credit(ctx context.Context, e *Earning) (*Earning, error) {
	if e.AmountLKR <= 0 {
		return nil, ErrInvalidAmount
	}
	if !e.Source.IsValid() {
		return nil, ErrInvalidSource
	}

	if err := s.repo.Credit(ctx, e); err != nil {
		return nil, err
	}

	log.Info().
		Str("agent_id", e.AgentID.String()).
		Int64("amount_lkr", e.AmountLKR).
		Str("source", string(e.Source)).
		Msg("earning credited")

	if s.notifier != nil {
		if ownerID, err := s.agents.OwnerOf(ctx, e.AgentID); err == nil {
			s.notifier.NotifyEarningCredited(ownerID, e.AgentID, e.AmountLKR, string(e.Source))
		}
	}
	return e, nil
}

func (s *Service) List(ctx context.Context, agentID uuid.UUID, status Status, limit, offset int) ([]Earning, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByAgent(ctx, agentID, status, limit, offset)
}

func (s *Service) Totals(ctx context.Context, agentID uuid.UUID) (*Totals, error) {
	return s.repo.TotalsByAgent(ctx, agentID)
}

// SubmitClaim converts a set of the agent's pending earnings into a claim
// request, provided the total meets the minimum payable threshold.
func (s *Service) SubmitClaim(ctx context.Context, agentID uuid.UUID, earningIDs []uuid.UUID) (*ClaimRequest, error) {
	claim, err := s.repo.SubmitClaim(ctx, agentID, earningIDs, s.minClaimLKR)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("claim_id", claim.ID.String()).
		Str("agent_id", agentID.String()).
		Int64("total_lkr", claim.TotalAmountLKR).
		Int("earnings", claim.EarningCount).
		Msg("claim submitted")

	if s.notifier != nil {
		if ownerID, err := s.agents.OwnerOf(ctx, agentID); err == nil {
			s.notifier.NotifyClaimSubmitted(ownerID, claim.ID, claim.TotalAmountLKR)
		}
	}
	return claim, nil
}

// SettleClaim marks a submitted claim as paid out. Admin-only; the actual
// bank transfer happens off-platform.
func (s *Service) SettleClaim(ctx context.Context, claimID uuid.UUID) (*ClaimRequest, error) {
	claim, err := s.repo.SettleClaim(ctx, claimID)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("claim_id", claim.ID.String()).
		Int64("total_lkr", claim.TotalAmountLKR).
		Msg("claim settled")

	if s.notifier != nil {
		if ownerID, err := s.agents.OwnerOf(ctx, claim.AgentID); err == nil {
			s.notifier.NotifyClaimPaid(ownerID, claim.ID, claim.TotalAmountLKR)
		}
	}
	return claim, nil
}

func (s *Service) GetClaim(ctx context.Context, claimID uuid.UUID) (*ClaimRequest, error) {
	return s.repo.GetClaim(ctx, claimID)
}

func (s *Service) ListClaims(ctx context.Context, agentID uuid.UUID, limit, offset int) ([]ClaimRequest, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListClaimsByAgent(ctx, agentID, limit, offset)
}

// MinClaimThreshold exposes the configured payout floor for API responses
func (s *Service) MinClaimThreshold() int64 {
	return s.minClaimLKR
}
