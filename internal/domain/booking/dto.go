package booking

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type CreateRequest struct {
	HotelID        uuid.UUID `json:"hotel_id" validate:"required"`
	RoomID         uuid.UUID `json:"room_id" validate:"required"`
	CheckIn        time.Time `json:"check_in" validate:"required"`
	CheckOut       time.Time `json:"check_out" validate:"required"`
	Guests         int       `json:"guests" validate:"required,gte=1,lte=20"`
	Rooms          int       `json:"rooms" validate:"required,gte=1,lte=10"`
	OriginalAmount int64     `json:"original_amount" validate:"required,gt=0"`
	Currency       string    `json:"currency" validate:"required,currency"`
	PromoCode      string    `json:"promo_code,omitempty" validate:"omitempty,min=4,max=16"`
	Note           string    `json:"note,omitempty" validate:"omitempty,max=500"`
}

func (r *CreateRequest) toEntity() *BookingRequest {
	b := &BookingRequest{
		HotelID:        r.HotelID,
		RoomID:         r.RoomID,
		CheckIn:        r.CheckIn,
		CheckOut:       r.CheckOut,
		Guests:         r.Guests,
		Rooms:          r.Rooms,
		OriginalAmount: r.OriginalAmount,
		Currency:       r.Currency,
	}
	if r.Note != "" {
		b.Note = sql.NullString{String: r.Note, Valid: true}
	}
	return b
}

type decideRequest struct {
	Note string `json:"note,omitempty" validate:"omitempty,max=500"`
}
