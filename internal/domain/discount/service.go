package discount

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/holidaysri/promo-api/internal/domain/agent"
	"github.com/holidaysri/promo-api/internal/domain/tier"
	"github.com/holidaysri/promo-api/internal/domain/wallet"
)

// Registry is the slice of the promo code registry the engine reads
type Registry interface {
	GetByCode(ctx context.Context, code string) (*agent.Agent, error)
}

// Catalog is the slice of the tier catalog the engine reads
type Catalog interface {
	GetConfig(ctx context.Context, t tier.Tier) (*tier.Config, error)
	GetGlobalDiscount(ctx context.Context) (*tier.GlobalDiscount, error)
}

type Service struct {
	registry Registry
	catalog  Catalog
}

func NewService(registry Registry, catalog Catalog) *Service {
	return &Service{registry: registry, catalog: catalog}
}

// Quote validates the candidate code and computes the discount for the given
// purchase. The checks run in a fixed order: code exists, holder is active
// and unexpired, currency is eligible, then compute and clamp. Any failure is
// a typed rejection; the engine never silently returns a zero discount for an
// ineligible request.
func (s *Service) Quote(ctx context.Context, pc PurchaseContext) (*Quote, error) {
	if !pc.PurchaseType.IsValid() {
		return nil, ErrInvalidPurchaseType
	}
	if pc.OriginalAmount < 0 {
		return nil, ErrInvalidAmount
	}

	// No code supplied: a zero-discount quote, not an error.
	if pc.CandidatePromoCode == "" {
		return &Quote{
			DiscountAmount: 0,
			FinalAmount:    pc.OriginalAmount,
			PurchaseType:   pc.PurchaseType,
		}, nil
	}

	holder, err := s.registry.GetByCode(ctx, pc.CandidatePromoCode)
	if err != nil {
		if errors.Is(err, agent.ErrNotFound) {
			return nil, ErrInvalidCode
		}
		return nil, err
	}
	if !holder.IsActiveAt(time.Now()) {
		return nil, ErrExpiredCode
	}

	var discountAmount int64
	if pc.PurchaseType.usesTierPolicy() {
		// Policy 2: tier-based promotional discount, HSC purchases only.
		if pc.Currency != wallet.CurrencyHSC {
			return nil, ErrIneligibleCurrency
		}
		cfg, err := s.catalog.GetConfig(ctx, holder.Tier)
		if err != nil {
			return nil, err
		}
		discountAmount = computeTierDiscount(cfg, pc.OriginalAmount)
	} else {
		// Policy 1: flat platform-wide referral discount, defined against
		// the HSC price of promo purchases and renewals.
		if pc.Currency != wallet.CurrencyHSC {
			return nil, ErrIneligibleCurrency
		}
		gd, err := s.catalog.GetGlobalDiscount(ctx)
		if err != nil {
			return nil, err
		}
		discountAmount = gd.PurchaseDiscountHSC
	}

	discountAmount = clampDiscount(discountAmount, pc.OriginalAmount)

	q := &Quote{
		DiscountAmount: discountAmount,
		FinalAmount:    pc.OriginalAmount - discountAmount,
		AgentID:        &holder.ID,
		AgentTier:      holder.Tier,
		PromoCode:      holder.PromoCode,
		PurchaseType:   pc.PurchaseType,
	}

	log.Debug().
		Str("purchase_type", string(pc.PurchaseType)).
		Str("promo_code", holder.PromoCode).
		Int64("original", pc.OriginalAmount).
		Int64("discount", q.DiscountAmount).
		Msg("discount quoted")
	return q, nil
}
