package discount

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holidaysri/promo-api/internal/domain/agent"
	"github.com/holidaysri/promo-api/internal/domain/tier"
	"github.com/holidaysri/promo-api/internal/domain/wallet"
)

type stubRegistry struct {
	agents map[string]*agent.Agent
}

func (s *stubRegistry) GetByCode(_ context.Context, code string) (*agent.Agent, error) {
	if a, ok := s.agents[code]; ok {
		return a, nil
	}
	return nil, agent.ErrNotFound
}

type stubCatalog struct {
	configs map[tier.Tier]*tier.Config
	global  *tier.GlobalDiscount
}

func (s *stubCatalog) GetConfig(_ context.Context, t tier.Tier) (*tier.Config, error) {
	if cfg, ok := s.configs[t]; ok {
		return cfg, nil
	}
	return nil, tier.ErrConfigNotFound
}

func (s *stubCatalog) GetGlobalDiscount(_ context.Context) (*tier.GlobalDiscount, error) {
	if s.global == nil {
		return &tier.GlobalDiscount{}, nil
	}
	return s.global, nil
}

func activeAgent(code string, t tier.Tier) *agent.Agent {
	return &agent.Agent{
		ID:             uuid.New(),
		PromoCode:      code,
		Tier:           t,
		IsActive:       true,
		ExpirationDate: time.Now().AddDate(0, 6, 0),
	}
}

func newTestService() *Service {
	registry := &stubRegistry{agents: map[string]*agent.Agent{
		"GOLD8888": activeAgent("GOLD8888", tier.TierGold),
		"FREE2222": activeAgent("FREE2222", tier.TierFree),
	}}
	expired := activeAgent("DEAD4444", tier.TierGold)
	expired.ExpirationDate = time.Now().Add(-time.Hour)
	registry.agents["DEAD4444"] = expired

	catalog := &stubCatalog{
		configs: map[tier.Tier]*tier.Config{
			tier.TierGold: {Tier: tier.TierGold, PromoDiscountType: tier.DiscountPercentage, PromoDiscountValue: 10},
			tier.TierFree: {Tier: tier.TierFree, PromoDiscountType: tier.DiscountFlat, PromoDiscountValue: 50},
		},
		global: &tier.GlobalDiscount{PurchaseDiscountHSC: 200},
	}
	return NewService(registry, catalog)
}

func TestQuoteNoCodeIsZeroDiscount(t *testing.T) {
	svc := newTestService()

	q, err := svc.Quote(context.Background(), PurchaseContext{
		PurchaseType:   PurchaseBooking,
		OriginalAmount: 1000,
		Currency:       wallet.CurrencyHSC,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), q.DiscountAmount)
	assert.Equal(t, int64(1000), q.FinalAmount)
	assert.Nil(t, q.AgentID)
}

func TestQuoteUnknownCode(t *testing.T) {
	svc := newTestService()

	_, err := svc.Quote(context.Background(), PurchaseContext{
		PurchaseType:       PurchaseBooking,
		OriginalAmount:     1000,
		Currency:           wallet.CurrencyHSC,
		CandidatePromoCode: "NOSUCH00",
	})
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestQuoteExpiredCode(t *testing.T) {
	svc := newTestService()

	_, err := svc.Quote(context.Background(), PurchaseContext{
		PurchaseType:       PurchaseBooking,
		OriginalAmount:     1000,
		Currency:           wallet.CurrencyHSC,
		CandidatePromoCode: "DEAD4444",
	})
	assert.ErrorIs(t, err, ErrExpiredCode)
}

func TestQuoteTierPolicyRejectsNonHSC(t *testing.T) {
	svc := newTestService()

	for _, c := range []wallet.Currency{wallet.CurrencyHSD, wallet.CurrencyHSG, wallet.CurrencyLKR} {
		_, err := svc.Quote(context.Background(), PurchaseContext{
			PurchaseType:       PurchaseAdvertisement,
			OriginalAmount:     1000,
			Currency:           c,
			CandidatePromoCode: "GOLD8888",
		})
		assert.ErrorIs(t, err, ErrIneligibleCurrency, "currency %s", c)
	}
}

func TestQuoteTierPercentage(t *testing.T) {
	svc := newTestService()

	q, err := svc.Quote(context.Background(), PurchaseContext{
		PurchaseType:       PurchaseBooking,
		OriginalAmount:     1000,
		Currency:           wallet.CurrencyHSC,
		CandidatePromoCode: "GOLD8888",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100), q.DiscountAmount)
	assert.Equal(t, int64(900), q.FinalAmount)
	assert.Equal(t, tier.TierGold, q.AgentTier)
	require.NotNil(t, q.AgentID)
}

func TestQuoteTierFlatClampsToOriginal(t *testing.T) {
	svc := newTestService()

	// Flat 50 against a 30 purchase never drives the price negative.
	q, err := svc.Quote(context.Background(), PurchaseContext{
		PurchaseType:       PurchaseAdvertisement,
		OriginalAmount:     30,
		Currency:           wallet.CurrencyHSC,
		CandidatePromoCode: "FREE2222",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(30), q.DiscountAmount)
	assert.Equal(t, int64(0), q.FinalAmount)
}

func TestQuoteReferralPolicyUsesGlobalDiscount(t *testing.T) {
	svc := newTestService()

	for _, pt := range []PurchaseType{PurchasePromoCode, PurchaseRenewal} {
		q, err := svc.Quote(context.Background(), PurchaseContext{
			PurchaseType:       pt,
			OriginalAmount:     1000,
			Currency:           wallet.CurrencyHSC,
			CandidatePromoCode: "FREE2222",
		})
		require.NoError(t, err)
		// The flat referral discount ignores the holder's tier.
		assert.Equal(t, int64(200), q.DiscountAmount, "purchase type %s", pt)
	}
}

func TestQuoteReferralPolicyRejectsNonHSC(t *testing.T) {
	svc := newTestService()

	// The flat referral discount is an HSC amount; quoting a renewal in
	// another currency must reject rather than apply it cross-currency.
	for _, c := range []wallet.Currency{wallet.CurrencyHSD, wallet.CurrencyHSG, wallet.CurrencyLKR} {
		_, err := svc.Quote(context.Background(), PurchaseContext{
			PurchaseType:       PurchaseRenewal,
			OriginalAmount:     1000,
			Currency:           c,
			CandidatePromoCode: "FREE2222",
		})
		assert.ErrorIs(t, err, ErrIneligibleCurrency, "currency %s", c)
	}
}

func TestQuoteValidationOrder(t *testing.T) {
	svc := newTestService()

	// An unknown code on an ineligible currency reports the code problem
	// first; existence is checked before currency eligibility.
	_, err := svc.Quote(context.Background(), PurchaseContext{
		PurchaseType:       PurchaseBooking,
		OriginalAmount:     1000,
		Currency:           wallet.CurrencyLKR,
		CandidatePromoCode: "NOSUCH00",
	})
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestQuoteRejectsBadInput(t *testing.T) {
	svc := newTestService()

	_, err := svc.Quote(context.Background(), PurchaseContext{
		PurchaseType:   "subscription",
		OriginalAmount: 100,
		Currency:       wallet.CurrencyHSC,
	})
	assert.ErrorIs(t, err, ErrInvalidPurchaseType)

	_, err = svc.Quote(context.Background(), PurchaseContext{
		PurchaseType:   PurchaseBooking,
		OriginalAmount: -1,
		Currency:       wallet.CurrencyHSC,
	})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestClampDiscount(t *testing.T) {
	assert.Equal(t, int64(0), clampDiscount(-5, 100))
	assert.Equal(t, int64(100), clampDiscount(150, 100))
	assert.Equal(t, int64(40), clampDiscount(40, 100))
	assert.Equal(t, int64(0), clampDiscount(10, 0))
}
