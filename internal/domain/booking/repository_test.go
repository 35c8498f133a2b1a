package booking

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func bookingRow(b BookingRequest) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "hotel_id", "hotel_owner_id", "room_id", "check_in",
		"check_out", "guests", "rooms", "original_amount", "discount_amount",
		"final_amount", "currency", "used_promo_code", "note", "owner_note",
		"status", "decided_at", "created_at", "updated_at",
	}).AddRow(b.ID, b.UserID, b.HotelID, b.HotelOwnerID, b.RoomID, b.CheckIn,
		b.CheckOut, b.Guests, b.Rooms, b.OriginalAmount, b.DiscountAmount,
		b.FinalAmount, b.Currency, nil, nil, nil, b.Status, nil, b.CreatedAt, b.UpdatedAt)
}

func TestDecideGuardsOnPendingStatus(t *testing.T) {
	repo, mock := newMockRepo(t)
	ownerID := uuid.New()
	b := BookingRequest{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		HotelID:      uuid.New(),
		HotelOwnerID: ownerID,
		CheckIn:      time.Now(),
		CheckOut:     time.Now().AddDate(0, 0, 2),
		Guests:       2,
		Status:       StatusApproved,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	mock.ExpectQuery(`UPDATE booking_requests\s+SET status = \$1.+WHERE id = \$3 AND hotel_owner_id = \$4 AND status = 'Pending'`).
		WithArgs(StatusApproved, "", b.ID, ownerID).
		WillReturnRows(bookingRow(b))

	got, err := repo.Decide(context.Background(), b.ID, ownerID, StatusApproved, "")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, got.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecideLoserSeesNotPending(t *testing.T) {
	// The guarded update matches nothing because a concurrent decision won.
	// The follow-up read distinguishes "already decided" from "wrong owner".
	repo, mock := newMockRepo(t)
	ownerID := uuid.New()
	b := BookingRequest{
		ID:           uuid.New(),
		HotelOwnerID: ownerID,
		Status:       StatusRejected,
		CheckIn:      time.Now(),
		CheckOut:     time.Now().AddDate(0, 0, 2),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	mock.ExpectQuery(`UPDATE booking_requests\s+SET status = \$1`).
		WithArgs(StatusApproved, "", b.ID, ownerID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT \* FROM booking_requests WHERE id = \$1`).
		WithArgs(b.ID).
		WillReturnRows(bookingRow(b))

	_, err := repo.Decide(context.Background(), b.ID, ownerID, StatusApproved, "")
	assert.ErrorIs(t, err, ErrNotPending)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecideWrongOwner(t *testing.T) {
	repo, mock := newMockRepo(t)
	caller := uuid.New()
	b := BookingRequest{
		ID:           uuid.New(),
		HotelOwnerID: uuid.New(),
		Status:       StatusPending,
		CheckIn:      time.Now(),
		CheckOut:     time.Now().AddDate(0, 0, 2),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	mock.ExpectQuery(`UPDATE booking_requests\s+SET status = \$1`).
		WithArgs(StatusRejected, "", b.ID, caller).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT \* FROM booking_requests WHERE id = \$1`).
		WithArgs(b.ID).
		WillReturnRows(bookingRow(b))

	_, err := repo.Decide(context.Background(), b.ID, caller, StatusRejected, "")
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.NoError(t, mock.ExpectationsWereMet())
}
