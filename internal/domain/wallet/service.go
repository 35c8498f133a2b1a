package wallet

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetBalance(ctx context.Context, userID uuid.UUID, currency Currency) (int64, error) {
	if !currency.IsValid() {
		return 0, ErrInvalidCurrency
	}
	return s.repo.GetBalance(ctx, userID, currency)
}

func (s *Service) TopUp(ctx context.Context, userID uuid.UUID, currency Currency, amount int64, referenceID string) error {
	if !currency.IsValid() {
		return ErrInvalidCurrency
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if err := s.repo.TopUp(ctx, userID, currency, amount, referenceID); err != nil {
		return err
	}
	log.Info().Str("user_id", userID.String()).Str("currency", string(currency)).Int64("amount", amount).Str("reference_id", referenceID).Msg("wallet topup applied")
	return nil
}

func (s *Service) Spend(ctx context.Context, userID uuid.UUID, currency Currency, amount int64, referenceID string) error {
	if !currency.IsValid() {
		return ErrInvalidCurrency
	}
	if amount <= 0 || referenceID == "" {
		return ErrInvalidAmount
	}
	if err := s.repo.Spend(ctx, userID, currency, amount, referenceID); err != nil {
		if errors.Is(err, ErrInsufficientFunds) {
			return ErrInsufficientFunds
		}
		return err
	}
	log.Info().Str("user_id", userID.String()).Str("currency", string(currency)).Int64("amount", amount).Str("reference_id", referenceID).Msg("wallet payment applied")
	return nil
}

func (s *Service) Refund(ctx context.Context, userID uuid.UUID, currency Currency, amount int64, referenceID string) error {
	if !currency.IsValid() {
		return ErrInvalidCurrency
	}
	if amount <= 0 || referenceID == "" {
		return ErrInvalidAmount
	}
	if err := s.repo.Refund(ctx, userID, currency, amount, referenceID); err != nil {
		return err
	}
	log.Info().Str("user_id", userID.String()).Str("currency", string(currency)).Int64("amount", amount).Str("reference_id", referenceID).Msg("wallet refund applied")
	return nil
}
