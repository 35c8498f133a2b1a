package tier

import (
	"database/sql"
	"time"
)

// Tier represents a promo agent tier
type Tier string

const (
	TierFree    Tier = "free"
	TierSilver  Tier = "silver"
	TierGold    Tier = "gold"
	TierDiamond Tier = "diamond"
)

// order defines the fixed progression free < silver < gold < diamond.
var order = []Tier{TierFree, TierSilver, TierGold, TierDiamond}

// IsValid reports whether t is a known tier
func (t Tier) IsValid() bool {
	return t.Rank() >= 0
}

// Rank returns the position of t in the progression order, or -1 for unknown tiers
func (t Tier) Rank() int {
	for i, v := range order {
		if v == t {
			return i
		}
	}
	return -1
}

// Next returns the next tier up, or ("", false) for diamond and unknown tiers
func (t Tier) Next() (Tier, bool) {
	r := t.Rank()
	if r < 0 || r == len(order)-1 {
		return "", false
	}
	return order[r+1], true
}

// Above reports whether t is strictly higher than other in the progression order
func (t Tier) Above(other Tier) bool {
	return t.Rank() > other.Rank()
}

// PromoDiscountType selects how a tier's advertisement/booking discount is computed
type PromoDiscountType string

const (
	DiscountPercentage PromoDiscountType = "percentage"
	DiscountFlat       PromoDiscountType = "flat"
)

// Config is the per-tier catalog entry. It is administered outside this
// service and read-only to every engine here.
type Config struct {
	Tier                   Tier              `db:"tier" json:"tier"`
	PriceHSC               int64             `db:"price_hsc" json:"price_hsc"`
	OriginalPriceHSC       int64             `db:"original_price_hsc" json:"original_price_hsc"`
	DiscountRate           int64             `db:"discount_rate" json:"discount_rate"` // seasonal promotion, 0 when none
	EarningForPurchaseLKR  int64             `db:"earning_for_purchase_lkr" json:"earning_for_purchase_lkr"`
	EarningForMonthlyAdLKR int64             `db:"earning_for_monthly_ad_lkr" json:"earning_for_monthly_ad_lkr"`
	EarningForDailyAdLKR   int64             `db:"earning_for_daily_ad_lkr" json:"earning_for_daily_ad_lkr"`
	AdsRequiredForNextTier sql.NullInt64     `db:"ads_required_for_next_tier" json:"ads_required_for_next_tier"`
	PromoDiscountType      PromoDiscountType `db:"promo_discount_type" json:"promo_discount_type"`
	PromoDiscountValue     int64             `db:"promo_discount_value" json:"promo_discount_value"`
	UpdatedAt              time.Time         `db:"updated_at" json:"updated_at"`
}

// GlobalDiscount holds the platform-wide flat referral discount applied to
// promo code purchases and renewals. Not tier-specific.
type GlobalDiscount struct {
	PurchaseDiscountHSC int64     `db:"purchase_discount_hsc" json:"purchase_discount_hsc"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}
