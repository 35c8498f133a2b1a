package notification

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const publishTimeout = 5 * time.Second

// Service handles notification logic. The Notify* helpers are fire-and-forget:
// they run on their own goroutine with a detached context, so a failed insert
// never fails the money-moving operation that triggered it.
type Service struct {
	repo Repository
}

// NewService creates notification service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create creates a notification
func (s *Service) Create(ctx context.Context, userID uuid.UUID, notifType Type, title, body string, data *Data) (*Notification, error) {
	n := &Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      notifType,
		Title:     title,
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	if body != "" {
		n.Body = sql.NullString{String: body, Valid: true}
	}
	n.SetData(data)

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	return n, nil
}

// List returns notifications for user
func (s *Service) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Notification, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// GetUnreadCount returns unread count
func (s *Service) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnreadByUser(ctx, userID)
}

// MarkAsRead marks single notification as read
func (s *Service) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, id, userID)
}

// MarkAllAsRead marks all notifications as read
func (s *Service) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *Service) publish(userID uuid.UUID, notifType Type, title, body string, data *Data) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if _, err := s.Create(ctx, userID, notifType, title, body, data); err != nil {
			log.Error().Err(err).Str("user_id", userID.String()).Str("type", string(notifType)).Msg("failed to publish notification")
		}
	}()
}

// --- Fire-and-forget helpers ---

// NotifyTierUpgrade notifies an agent that their tier advanced
func (s *Service) NotifyTierUpgrade(userID, agentID uuid.UUID, newTier string) {
	s.publish(userID, TypeTierUpgrade,
		"Congratulations, your agent tier was upgraded!",
		fmt.Sprintf("Your promo agent account has been upgraded to %s.", newTier),
		&Data{AgentID: &agentID, Tier: newTier},
	)
}

// NotifyEarningCredited notifies an agent about a new pending earning
func (s *Service) NotifyEarningCredited(userID, agentID uuid.UUID, amountLKR int64, item string) {
	s.publish(userID, TypeEarningCredited,
		"New earning credited",
		fmt.Sprintf("You earned %d LKR for %s.", amountLKR, item),
		&Data{AgentID: &agentID, AmountLKR: amountLKR},
	)
}

// NotifyClaimSubmitted confirms a claim request was received
func (s *Service) NotifyClaimSubmitted(userID, claimID uuid.UUID, totalLKR int64) {
	s.publish(userID, TypeClaimSubmitted,
		"Claim request received",
		fmt.Sprintf("Your claim for %d LKR is being processed.", totalLKR),
		&Data{ClaimID: &claimID, AmountLKR: totalLKR},
	)
}

// NotifyClaimPaid notifies an agent about a settled payout
func (s *Service) NotifyClaimPaid(userID, claimID uuid.UUID, totalLKR int64) {
	s.publish(userID, TypeClaimPaid,
		"Claim paid out",
		fmt.Sprintf("Your claim for %d LKR has been paid.", totalLKR),
		&Data{ClaimID: &claimID, AmountLKR: totalLKR},
	)
}

// NotifyBookingDecided notifies a customer about a booking decision
func (s *Service) NotifyBookingDecided(userID, bookingID uuid.UUID, status string) {
	s.publish(userID, TypeBookingDecided,
		"Booking "+status,
		fmt.Sprintf("Your room booking request was %s.", status),
		&Data{BookingID: &bookingID},
	)
}
