package agent

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/holidaysri/promo-api/internal/domain/tier"
)

// Agent is a user who holds a promo code and earns commissions.
// A user has at most one active agent record; a renewal or upgrade mutates
// the record in place rather than creating a new one.
type Agent struct {
	ID               uuid.UUID      `db:"id" json:"id"`
	UserID           uuid.UUID      `db:"user_id" json:"user_id"`
	PromoCode        string         `db:"promo_code" json:"promo_code"`
	Tier             tier.Tier      `db:"tier" json:"tier"`
	IsVerified       bool           `db:"is_verified" json:"is_verified"`
	IsActive         bool           `db:"is_active" json:"is_active"`
	ActivatedAt      time.Time      `db:"activated_at" json:"activated_at"`
	ExpirationDate   time.Time      `db:"expiration_date" json:"expiration_date"`
	ReferredByCode   sql.NullString `db:"referred_by_code" json:"referred_by_code,omitempty"`
	AdsPromotedCount int64          `db:"ads_promoted_count" json:"ads_promoted_count"`
	TotalEarningsLKR int64          `db:"total_earnings_lkr" json:"total_earnings_lkr"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

// IsActiveAt reports whether the agent record is usable at the given instant
func (a *Agent) IsActiveAt(now time.Time) bool {
	return a.IsActive && now.Before(a.ExpirationDate)
}

// RenewalKind selects between extending the current tier and moving up
type RenewalKind string

const (
	RenewalKindRenew   RenewalKind = "renew"
	RenewalKindUpgrade RenewalKind = "upgrade"
)

// RenewalAction describes a renewal or upgrade request
type RenewalAction struct {
	Kind   RenewalKind
	Target tier.Tier // only for upgrades
}

// nextExpiration extends from the current expiration, never from "now",
// so an early renewal does not lose unused time.
func nextExpiration(current time.Time) time.Time {
	return current.AddDate(1, 0, 0)
}

// advanceTier decides whether an agent crosses into the next tier after its
// promoted-ads counter reached newCount. Counts are cumulative, never reset,
// and the tier moves at most one step per event.
func advanceTier(current tier.Tier, newCount int64, thresholds map[tier.Tier]int64) (tier.Tier, bool) {
	threshold, ok := thresholds[current]
	if !ok {
		return current, false
	}
	if newCount < threshold {
		return current, false
	}
	next, ok := current.Next()
	if !ok {
		return current, false
	}
	return next, true
}
