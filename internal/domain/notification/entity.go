package notification

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Type represents notification type
type Type string

const (
	TypeTierUpgrade     Type = "tier_upgrade"
	TypeEarningCredited Type = "earning_credited"
	TypeClaimSubmitted  Type = "claim_submitted"
	TypeClaimPaid       Type = "claim_paid"
	TypeBookingDecided  Type = "booking_decided"
)

// Data carries structured references for the client to deep-link from
type Data struct {
	AgentID   *uuid.UUID `json:"agent_id,omitempty"`
	ClaimID   *uuid.UUID `json:"claim_id,omitempty"`
	BookingID *uuid.UUID `json:"booking_id,omitempty"`
	Tier      string     `json:"tier,omitempty"`
	AmountLKR int64      `json:"amount_lkr,omitempty"`
}

type Notification struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	UserID    uuid.UUID      `db:"user_id" json:"user_id"`
	Type      Type           `db:"type" json:"type"`
	Title     string         `db:"title" json:"title"`
	Body      sql.NullString `db:"body" json:"body,omitempty"`
	DataRaw   []byte         `db:"data" json:"-"`
	IsRead    bool           `db:"is_read" json:"is_read"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`

	// Parsed after scan
	Data *Data `db:"-" json:"data,omitempty"`
}

// SetData serializes structured data for storage
func (n *Notification) SetData(d *Data) {
	if d == nil {
		return
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return
	}
	n.DataRaw = raw
	n.Data = d
}

// ParseData deserializes the stored data payload. Must be called after DB scan.
func (n *Notification) ParseData() {
	if len(n.DataRaw) == 0 {
		return
	}
	var d Data
	if err := json.Unmarshal(n.DataRaw, &d); err == nil {
		n.Data = &d
	}
}
