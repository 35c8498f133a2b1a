package agent

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/holidaysri/promo-api/internal/domain/tier"
	"github.com/holidaysri/promo-api/internal/domain/wallet"
)

const maxCodeAttempts = 5

// Catalog is the slice of the tier catalog the registry needs
type Catalog interface {
	GetConfig(ctx context.Context, t tier.Tier) (*tier.Config, error)
	ProgressionThresholds(ctx context.Context) (map[tier.Tier]int64, error)
}

// WalletDebiter debits a user's balance inside an external transaction
type WalletDebiter interface {
	DebitTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, currency wallet.Currency, amount int64, referenceID string) error
}

// Notifier publishes fire-and-forget agent events
type Notifier interface {
	NotifyTierUpgrade(userID, agentID uuid.UUID, newTier string)
}

type Service struct {
	repo       Repository
	catalog    Catalog
	wallets    WalletDebiter
	notifier   Notifier
	codeLength int
}

func NewService(repo Repository, catalog Catalog, wallets WalletDebiter, notifier Notifier, codeLength int) *Service {
	if codeLength <= 0 {
		codeLength = 8
	}
	return &Service{repo: repo, catalog: catalog, wallets: wallets, notifier: notifier, codeLength: codeLength}
}

// Create registers a new agent for the user with a freshly generated promo
// code. The free tier follows the same one-active-record rule as paid tiers.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, t tier.Tier, referredByCode string) (*Agent, error) {
	if !t.IsValid() {
		return nil, tier.ErrInvalidTier
	}

	var referredBy sql.NullString
	if referredByCode != "" {
		referrer, err := s.repo.GetByCode(ctx, referredByCode)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, ErrInvalidReferralCode
			}
			return nil, err
		}
		if !referrer.IsActiveAt(time.Now()) {
			return nil, ErrInvalidReferralCode
		}
		referredBy = sql.NullString{String: referredByCode, Valid: true}
	}

	now := time.Now()
	a := &Agent{
		UserID:         userID,
		Tier:           t,
		IsActive:       true,
		ActivatedAt:    now,
		ExpirationDate: now.AddDate(1, 0, 0),
		ReferredByCode: referredBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := generatePromoCode(s.codeLength)
		if err != nil {
			return nil, err
		}
		a.ID = uuid.New()
		a.PromoCode = code

		err = s.repo.Create(ctx, a)
		if err == nil {
			log.Info().Str("agent_id", a.ID.String()).Str("tier", string(t)).Msg("agent created")
			return a, nil
		}
		if errors.Is(err, ErrPromoCodeTaken) {
			continue
		}
		return nil, err
	}
	return nil, ErrPromoCodeTaken
}

func (s *Service) GetByUserID(ctx context.Context, userID uuid.UUID) (*Agent, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *Service) GetByCode(ctx context.Context, code string) (*Agent, error) {
	return s.repo.GetByCode(ctx, code)
}

// AgentIDForUser resolves the caller's agent record id
func (s *Service) AgentIDForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	a, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return uuid.Nil, err
	}
	return a.ID, nil
}

// OwnerOf resolves the user who owns the agent record
func (s *Service) OwnerOf(ctx context.Context, agentID uuid.UUID) (uuid.UUID, error) {
	a, err := s.repo.GetByID(ctx, agentID)
	if err != nil {
		return uuid.Nil, err
	}
	return a.UserID, nil
}

// RecordAdPromotion applies one promoted-ad event and advances the tier when
// the catalog threshold is crossed. Replaying the same idempotency key never
// changes the counter a second time.
func (s *Service) RecordAdPromotion(ctx context.Context, agentID uuid.UUID, idempotencyKey string) (*Agent, error) {
	if idempotencyKey == "" {
		return nil, ErrMissingIdempotency
	}

	thresholds, err := s.catalog.ProgressionThresholds(ctx)
	if err != nil {
		return nil, err
	}

	a, applied, upgraded, err := s.repo.RecordAdEvent(ctx, agentID, idempotencyKey, thresholds)
	if err != nil {
		return nil, err
	}

	if !applied {
		log.Debug().Str("agent_id", agentID.String()).Str("idempotency_key", idempotencyKey).Msg("ad promotion replayed, no-op")
		return a, nil
	}

	if upgraded {
		log.Info().Str("agent_id", a.ID.String()).Str("tier", string(a.Tier)).Int64("ads_promoted", a.AdsPromotedCount).Msg("agent tier upgraded")
		if s.notifier != nil {
			s.notifier.NotifyTierUpgrade(a.UserID, a.ID, string(a.Tier))
		}
	}
	return a, nil
}

// QuoteRenewal returns the price of a renewal or upgrade. The optional
// discount is the flat referral discount already validated by the discount
// engine; tier eligibility rules are never re-checked here.
func (s *Service) QuoteRenewal(ctx context.Context, a *Agent, action RenewalAction, discountHSC int64) (int64, error) {
	target := a.Tier
	if action.Kind == RenewalKindUpgrade {
		if !action.Target.IsValid() || !action.Target.Above(a.Tier) {
			return 0, ErrInvalidUpgrade
		}
		target = action.Target
	}

	cfg, err := s.catalog.GetConfig(ctx, target)
	if err != nil {
		return 0, err
	}

	amount := cfg.PriceHSC - discountHSC
	if amount < 0 {
		amount = 0
	}
	return amount, nil
}

// ApplyRenewal debits the buyer's HSC balance and mutates the registry entry
// in one transaction: the expiration extends by exactly one year from the
// current expiration, and the tier changes only on upgrades. On insufficient
// balance nothing is mutated.
//
// The registry row is re-read under FOR UPDATE inside the transaction. The
// tier and expiration written here are computed from that locked read, so a
// renewal racing an ad-promotion upgrade waits for it and extends the
// upgraded row instead of writing the pre-upgrade tier back, and two racing
// renewals stack their extensions instead of both applying the same one.
func (s *Service) ApplyRenewal(ctx context.Context, userID uuid.UUID, action RenewalAction, discountHSC int64, referenceID string) (*Agent, error) {
	if referenceID == "" {
		return nil, ErrMissingIdempotency
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	a, err := s.repo.GetByUserIDForUpdateTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	amount, err := s.QuoteRenewal(ctx, a, action, discountHSC)
	if err != nil {
		return nil, err
	}

	newTier := a.Tier
	if action.Kind == RenewalKindUpgrade {
		newTier = action.Target
	}

	if amount > 0 {
		if err := s.wallets.DebitTx(ctx, tx, userID, wallet.CurrencyHSC, amount, referenceID); err != nil {
			if errors.Is(err, wallet.ErrInsufficientFunds) {
				return nil, ErrInsufficientBalance
			}
			return nil, err
		}
	}

	renewed, err := s.repo.RenewTx(ctx, tx, a.ID, newTier, nextExpiration(a.ExpirationDate))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	log.Info().
		Str("agent_id", renewed.ID.String()).
		Str("kind", string(action.Kind)).
		Str("tier", string(renewed.Tier)).
		Int64("amount_hsc", amount).
		Time("expires", renewed.ExpirationDate).
		Msg("agent renewal applied")
	return renewed, nil
}
