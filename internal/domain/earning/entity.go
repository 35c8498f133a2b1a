package earning

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status is an earning's position in the claim lifecycle.
// pending -> processed (claimed) -> paid (settled). Never backwards,
// never deleted.
type Status string

const (
	StatusPending   Status = "pending"
	StatusProcessed Status = "processed"
	StatusPaid      Status = "paid"
)

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessed, StatusPaid:
		return true
	}
	return false
}

// Source is the qualifying event that credited the earning
type Source string

const (
	SourceReferral  Source = "referral"
	SourceMonthlyAd Source = "monthly_ad"
	SourceDailyAd   Source = "daily_ad"
)

// IsValid reports whether s is a known source
func (s Source) IsValid() bool {
	switch s {
	case SourceReferral, SourceMonthlyAd, SourceDailyAd:
		return true
	}
	return false
}

// Earning is one append-only ledger entry crediting an agent
type Earning struct {
	ID            uuid.UUID      `db:"id" json:"id"`
	AgentID       uuid.UUID      `db:"agent_id" json:"agent_id"`
	AmountLKR     int64          `db:"amount_lkr" json:"amount_lkr"`
	Status        Status         `db:"status" json:"status"`
	Source        Source         `db:"source" json:"source"`
	BuyerID       sql.NullString `db:"buyer_id" json:"buyer_id,omitempty"`
	BuyerEmail    sql.NullString `db:"buyer_email" json:"buyer_email,omitempty"`
	Item          string         `db:"item" json:"item"`
	UsedPromoCode sql.NullString `db:"used_promo_code" json:"used_promo_code,omitempty"`
	ClaimID       uuid.NullUUID  `db:"claim_id" json:"claim_id,omitempty"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	ProcessedAt   sql.NullTime   `db:"processed_at" json:"processed_at,omitempty"`
	PaidAt        sql.NullTime   `db:"paid_at" json:"paid_at,omitempty"`
}

// ClaimStatus is a claim's settlement state
type ClaimStatus string

const (
	ClaimStatusSubmitted ClaimStatus = "submitted"
	ClaimStatusSettled   ClaimStatus = "settled"
)

// ClaimRequest groups pending earnings into a single payable settlement
type ClaimRequest struct {
	ID             uuid.UUID    `db:"id" json:"id"`
	AgentID        uuid.UUID    `db:"agent_id" json:"agent_id"`
	TotalAmountLKR int64        `db:"total_amount_lkr" json:"total_amount_lkr"`
	EarningCount   int          `db:"earning_count" json:"earning_count"`
	Status         ClaimStatus  `db:"status" json:"status"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
	SettledAt      sql.NullTime `db:"settled_at" json:"settled_at,omitempty"`
}

// Totals is the per-status aggregation of an agent's ledger
type Totals struct {
	Pending   int64 `json:"pending"`
	Processed int64 `json:"processed"`
	Paid      int64 `json:"paid"`
}

// verifyClaimable checks that the loaded rows cover exactly the requested ids
// and that every one belongs to the agent and is still pending. A single
// failure rejects the whole claim; there are no partial claims.
func verifyClaimable(loaded []Earning, agentID uuid.UUID, requested []uuid.UUID) error {
	if len(loaded) != len(requested) {
		return ErrNotOwnedOrNotPending
	}
	for _, e := range loaded {
		if e.AgentID != agentID || e.Status != StatusPending {
			return ErrNotOwnedOrNotPending
		}
	}
	return nil
}

// sumAmounts totals the referenced earnings at claim time
func sumAmounts(earnings []Earning) int64 {
	var total int64
	for _, e := range earnings {
		total += e.AmountLKR
	}
	return total
}
