package agent

import (
	"time"

	"github.com/holidaysri/promo-api/internal/domain/tier"
)

type CreateRequest struct {
	Tier           string `json:"tier" validate:"required,tier"`
	ReferredByCode string `json:"referred_by_code,omitempty" validate:"omitempty,min=4,max=16"`
}

type AdPromotionRequest struct {
	IdempotencyKey string `json:"idempotency_key" validate:"required,min=8,max=128"`
}

type RenewalRequest struct {
	Action      string `json:"action" validate:"required,oneof=renew upgrade"`
	TargetTier  string `json:"target_tier,omitempty" validate:"omitempty,tier"`
	DiscountHSC int64  `json:"discount_hsc,omitempty" validate:"omitempty,gte=0"`
	ReferenceID string `json:"reference_id,omitempty"`
}

func (r *RenewalRequest) action() RenewalAction {
	if r.Action == string(RenewalKindUpgrade) {
		return RenewalAction{Kind: RenewalKindUpgrade, Target: tier.Tier(r.TargetTier)}
	}
	return RenewalAction{Kind: RenewalKindRenew}
}

// CodeProbeResponse is the limited view checkout flows get when probing a
// candidate promo code. It deliberately omits the holder's identity.
type CodeProbeResponse struct {
	PromoCode string    `json:"promo_code"`
	Tier      tier.Tier `json:"tier"`
	Active    bool      `json:"active"`
	ExpiresAt time.Time `json:"expires_at"`
}

type QuoteResponse struct {
	Action      string `json:"action"`
	TargetTier  string `json:"target_tier,omitempty"`
	AmountHSC   int64  `json:"amount_hsc"`
	DiscountHSC int64  `json:"discount_hsc"`
}
