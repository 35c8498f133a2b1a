package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Create(ctx context.Context, b *BookingRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*BookingRequest, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]BookingRequest, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, status Status, limit, offset int) ([]BookingRequest, error)
	Decide(ctx context.Context, id, ownerID uuid.UUID, decision Status, ownerNote string) (*BookingRequest, error)
	HotelOwner(ctx context.Context, hotelID uuid.UUID) (uuid.UUID, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, b *BookingRequest) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	now := time.Now()
	b.Status = StatusPending
	b.CreatedAt = now
	b.UpdatedAt = now

	query := `
		INSERT INTO booking_requests (
			id, user_id, hotel_id, hotel_owner_id, room_id, check_in, check_out,
			guests, rooms, original_amount, discount_amount, final_amount,
			currency, used_promo_code, note, status, created_at, updated_at
		) VALUES (
			:id, :user_id, :hotel_id, :hotel_owner_id, :room_id, :check_in, :check_out,
			:guests, :rooms, :original_amount, :discount_amount, :final_amount,
			:currency, :used_promo_code, :note, :status, :created_at, :updated_at
		)`
	if _, err := r.db.NamedExecContext(ctx, query, b); err != nil {
		return fmt.Errorf("insert booking request: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*BookingRequest, error) {
	var b BookingRequest
	err := r.db.GetContext(ctx, &b, `SELECT * FROM booking_requests WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get booking request: %w", err)
	}
	return &b, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]BookingRequest, error) {
	bookings := []BookingRequest{}
	err := r.db.SelectContext(ctx, &bookings, `
		SELECT * FROM booking_requests
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list booking requests: %w", err)
	}
	return bookings, nil
}

func (r *repository) ListByOwner(ctx context.Context, ownerID uuid.UUID, status Status, limit, offset int) ([]BookingRequest, error) {
	query := `
		SELECT * FROM booking_requests
		WHERE hotel_owner_id = $1`
	args := []interface{}{ownerID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	bookings := []BookingRequest{}
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, fmt.Errorf("list owner booking requests: %w", err)
	}
	return bookings, nil
}

// Decide flips a pending request to its terminal state. The update is guarded
// on the current status, so of two concurrent decisions exactly one wins and
// the other reports the request as no longer pending.
func (r *repository) Decide(ctx context.Context, id, ownerID uuid.UUID, decision Status, ownerNote string) (*BookingRequest, error) {
	var b BookingRequest
	err := r.db.GetContext(ctx, &b, `
		UPDATE booking_requests
		SET status = $1, owner_note = NULLIF($2, ''), decided_at = NOW(), updated_at = NOW()
		WHERE id = $3 AND hotel_owner_id = $4 AND status = 'Pending'
		RETURNING *`, decision, ownerNote, id, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		// The guarded update matched nothing. Re-read to tell the caller why.
		existing, gerr := r.GetByID(ctx, id)
		if gerr != nil {
			return nil, gerr
		}
		if existing.HotelOwnerID != ownerID {
			return nil, ErrNotOwner
		}
		return nil, ErrNotPending
	}
	if err != nil {
		return nil, fmt.Errorf("decide booking request: %w", err)
	}
	return &b, nil
}

func (r *repository) HotelOwner(ctx context.Context, hotelID uuid.UUID) (uuid.UUID, error) {
	var ownerID uuid.UUID
	err := r.db.GetContext(ctx, &ownerID, `SELECT owner_id FROM hotels WHERE id = $1`, hotelID)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, ErrHotelNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("get hotel owner: %w", err)
	}
	return ownerID, nil
}
