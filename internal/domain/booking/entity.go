package booking

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status is the approval state of a booking request. Requests start Pending
// and move exactly once to Approved or Rejected.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// IsDecision reports whether s is a terminal state an owner may set
func (s Status) IsDecision() bool {
	return s == StatusApproved || s == StatusRejected
}

// BookingRequest is a traveler's stay request awaiting the hotel owner's
// decision. The owning user is resolved once at creation so later ownership
// transfers of the hotel do not reroute pending requests.
type BookingRequest struct {
	ID             uuid.UUID      `db:"id" json:"id"`
	UserID         uuid.UUID      `db:"user_id" json:"user_id"`
	HotelID        uuid.UUID      `db:"hotel_id" json:"hotel_id"`
	HotelOwnerID   uuid.UUID      `db:"hotel_owner_id" json:"hotel_owner_id"`
	RoomID         uuid.UUID      `db:"room_id" json:"room_id"`
	CheckIn        time.Time      `db:"check_in" json:"check_in"`
	CheckOut       time.Time      `db:"check_out" json:"check_out"`
	Guests         int            `db:"guests" json:"guests"`
	Rooms          int            `db:"rooms" json:"rooms"`
	OriginalAmount int64          `db:"original_amount" json:"original_amount"`
	DiscountAmount int64          `db:"discount_amount" json:"discount_amount"`
	FinalAmount    int64          `db:"final_amount" json:"final_amount"`
	Currency       string         `db:"currency" json:"currency"`
	UsedPromoCode  sql.NullString `db:"used_promo_code" json:"used_promo_code,omitempty"`
	Note           sql.NullString `db:"note" json:"note,omitempty"`
	OwnerNote      sql.NullString `db:"owner_note" json:"owner_note,omitempty"`
	Status         Status         `db:"status" json:"status"`
	DecidedAt      sql.NullTime   `db:"decided_at" json:"decided_at,omitempty"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}
