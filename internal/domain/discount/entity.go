package discount

import (
	"github.com/google/uuid"

	"github.com/holidaysri/promo-api/internal/domain/tier"
	"github.com/holidaysri/promo-api/internal/domain/wallet"
)

// PurchaseType classifies what the buyer is paying for. It selects which of
// the two discount policies applies: promo purchases and renewals get the
// flat platform-wide referral discount, advertisements and bookings get the
// tier-dependent promotional discount.
type PurchaseType string

const (
	PurchasePromoCode     PurchaseType = "promo_purchase"
	PurchaseRenewal       PurchaseType = "renewal"
	PurchaseAdvertisement PurchaseType = "advertisement"
	PurchaseBooking       PurchaseType = "booking"
)

// IsValid reports whether p is a known purchase type
func (p PurchaseType) IsValid() bool {
	switch p {
	case PurchasePromoCode, PurchaseRenewal, PurchaseAdvertisement, PurchaseBooking:
		return true
	}
	return false
}

// usesTierPolicy reports whether the purchase falls under the tier-based
// promotional discount (policy 2) rather than the flat referral discount.
func (p PurchaseType) usesTierPolicy() bool {
	return p == PurchaseAdvertisement || p == PurchaseBooking
}

// PurchaseContext is the shared quote input for every discountable purchase
type PurchaseContext struct {
	PurchaseType       PurchaseType    `json:"purchase_type"`
	OriginalAmount     int64           `json:"original_amount"`
	Currency           wallet.Currency `json:"currency"`
	CandidatePromoCode string          `json:"candidate_promo_code"`
}

// Quote is the discount engine's answer. FinalAmount is always within
// [0, OriginalAmount]; AgentID identifies the code holder so the caller can
// credit earnings after the purchase settles.
type Quote struct {
	DiscountAmount int64        `json:"discount_amount"`
	FinalAmount    int64        `json:"final_amount"`
	AgentID        *uuid.UUID   `json:"agent_id,omitempty"`
	AgentTier      tier.Tier    `json:"agent_tier,omitempty"`
	PromoCode      string       `json:"promo_code,omitempty"`
	PurchaseType   PurchaseType `json:"purchase_type"`
}

// computeTierDiscount applies a tier's promotional discount rule to an amount
func computeTierDiscount(cfg *tier.Config, amount int64) int64 {
	switch cfg.PromoDiscountType {
	case tier.DiscountPercentage:
		return amount * cfg.PromoDiscountValue / 100
	case tier.DiscountFlat:
		return cfg.PromoDiscountValue
	default:
		return 0
	}
}

// clampDiscount keeps the discount within [0, original]
func clampDiscount(discount, original int64) int64 {
	if discount < 0 {
		return 0
	}
	if discount > original {
		return original
	}
	return discount
}
