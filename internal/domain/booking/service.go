package booking

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/holidaysri/promo-api/internal/domain/discount"
	"github.com/holidaysri/promo-api/internal/domain/wallet"
)

// Quoter prices the booking, applying any candidate promo code
type Quoter interface {
	Quote(ctx context.Context, pc discount.PurchaseContext) (*discount.Quote, error)
}

// Notifier publishes fire-and-forget booking events
type Notifier interface {
	NotifyBookingDecided(userID, bookingID uuid.UUID, status string)
}

type Service struct {
	repo     Repository
	quoter   Quoter
	notifier Notifier
}

func NewService(repo Repository, quoter Quoter, notifier Notifier) *Service {
	return &Service{repo: repo, quoter: quoter, notifier: notifier}
}

// Create registers a pending booking request. The discount is quoted once at
// creation time and frozen into the request; the hotel owner is resolved at
// the same moment.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, b *BookingRequest, promoCode string) (*BookingRequest, error) {
	if !b.CheckOut.After(b.CheckIn) {
		return nil, ErrInvalidStay
	}

	ownerID, err := s.repo.HotelOwner(ctx, b.HotelID)
	if err != nil {
		return nil, err
	}

	q, err := s.quoter.Quote(ctx, discount.PurchaseContext{
		PurchaseType:       discount.PurchaseBooking,
		OriginalAmount:     b.OriginalAmount,
		Currency:           wallet.Currency(b.Currency),
		CandidatePromoCode: promoCode,
	})
	if err != nil {
		return nil, err
	}

	b.UserID = userID
	b.HotelOwnerID = ownerID
	b.DiscountAmount = q.DiscountAmount
	b.FinalAmount = q.FinalAmount
	if q.PromoCode != "" {
		b.UsedPromoCode = sql.NullString{String: q.PromoCode, Valid: true}
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	log.Info().
		Str("booking_id", b.ID.String()).
		Str("hotel_id", b.HotelID.String()).
		Int64("final_amount", b.FinalAmount).
		Msg("booking request created")
	return b, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*BookingRequest, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListMine(ctx context.Context, userID uuid.UUID, limit, offset int) ([]BookingRequest, error) {
	return s.repo.ListByUser(ctx, userID, clampLimit(limit), clampOffset(offset))
}

func (s *Service) ListForOwner(ctx context.Context, ownerID uuid.UUID, status Status, limit, offset int) ([]BookingRequest, error) {
	return s.repo.ListByOwner(ctx, ownerID, status, clampLimit(limit), clampOffset(offset))
}

// Decide settles a pending request. Only the owning hotel owner may decide,
// and a request is decided at most once.
func (s *Service) Decide(ctx context.Context, id, ownerID uuid.UUID, decision Status, ownerNote string) (*BookingRequest, error) {
	if !decision.IsDecision() {
		return nil, ErrInvalidDecision
	}

	b, err := s.repo.Decide(ctx, id, ownerID, decision, ownerNote)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("booking_id", b.ID.String()).
		Str("status", string(b.Status)).
		Msg("booking request decided")

	if s.notifier != nil {
		s.notifier.NotifyBookingDecided(b.UserID, b.ID, string(b.Status))
	}
	return b, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 20
	}
	return limit
}

func clampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
