package earning

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEarningRepo struct {
	Repository
	credited  []*Earning
	claim     *ClaimRequest
	claimErr  error
	settled   *ClaimRequest
	settleErr error
}

func (s *stubEarningRepo) Credit(_ context.Context, e *Earning) error {
	s.credited = append(s.credited, e)
	return nil
}

func (s *stubEarningRepo) SubmitClaim(_ context.Context, _ uuid.UUID, _ []uuid.UUID, _ int64) (*ClaimRequest, error) {
	return s.claim, s.claimErr
}

func (s *stubEarningRepo) SettleClaim(_ context.Context, _ uuid.UUID) (*ClaimRequest, error) {
	return s.settled, s.settleErr
}

type stubDirectory struct {
	owner uuid.UUID
}

func (s *stubDirectory) OwnerOf(_ context.Context, _ uuid.UUID) (uuid.UUID, error) {
	return s.owner, nil
}

type recordingNotifier struct {
	credited  int
	submitted int
	paid      int
}

func (n *recordingNotifier) NotifyEarningCredited(_, _ uuid.UUID, _ int64, _ string) { n.credited++ }
func (n *recordingNotifier) NotifyClaimSubmitted(_, _ uuid.UUID, _ int64)            { n.submitted++ }
func (n *recordingNotifier) NotifyClaimPaid(_, _ uuid.UUID, _ int64)                 { n.paid++ }

func TestCreditValidatesInput(t *testing.T) {
	svc := NewService(&stubEarningRepo{}, &stubDirectory{}, nil, 5000)

	_, err := svc.Credit(context.Background(), &Earning{AmountLKR: 0, Source: SourceReferral})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Credit(context.Background(), &Earning{AmountLKR: -100, Source: SourceReferral})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Credit(context.Background(), &Earning{AmountLKR: 100, Source: Source("bonus")})
	assert.ErrorIs(t, err, ErrInvalidSource)
}

func TestCreditNotifiesOwner(t *testing.T) {
	repo := &stubEarningRepo{}
	notifier := &recordingNotifier{}
	svc := NewService(repo, &stubDirectory{owner: uuid.New()}, notifier, 5000)

	_, err := svc.Credit(context.Background(), &Earning{
		AgentID:   uuid.New(),
		AmountLKR: 2000,
		Source:    SourceDailyAd,
		Item:      "daily ad package",
	})
	require.NoError(t, err)
	assert.Len(t, repo.credited, 1)
	assert.Equal(t, 1, notifier.credited)
}

func TestSubmitClaimPassesThreshold(t *testing.T) {
	claim := &ClaimRequest{ID: uuid.New(), TotalAmountLKR: 6000, EarningCount: 3, Status: ClaimStatusSubmitted}
	repo := &stubEarningRepo{claim: claim}
	notifier := &recordingNotifier{}
	svc := NewService(repo, &stubDirectory{owner: uuid.New()}, notifier, 5000)

	got, err := svc.SubmitClaim(context.Background(), uuid.New(), []uuid.UUID{uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, claim, got)
	assert.Equal(t, 1, notifier.submitted)
}

func TestSubmitClaimPropagatesBelowMinimum(t *testing.T) {
	repo := &stubEarningRepo{claimErr: ErrBelowMinimum}
	notifier := &recordingNotifier{}
	svc := NewService(repo, &stubDirectory{}, notifier, 5000)

	_, err := svc.SubmitClaim(context.Background(), uuid.New(), []uuid.UUID{uuid.New()})
	assert.ErrorIs(t, err, ErrBelowMinimum)
	assert.Zero(t, notifier.submitted)
}

func TestSettleClaimNotifies(t *testing.T) {
	settled := &ClaimRequest{ID: uuid.New(), AgentID: uuid.New(), TotalAmountLKR: 6000, Status: ClaimStatusSettled}
	repo := &stubEarningRepo{settled: settled}
	notifier := &recordingNotifier{}
	svc := NewService(repo, &stubDirectory{owner: uuid.New()}, notifier, 5000)

	got, err := svc.SettleClaim(context.Background(), settled.ID)
	require.NoError(t, err)
	assert.Equal(t, ClaimStatusSettled, got.Status)
	assert.Equal(t, 1, notifier.paid)
}

func TestMinClaimThreshold(t *testing.T) {
	svc := NewService(&stubEarningRepo{}, &stubDirectory{}, nil, 5000)
	assert.Equal(t, int64(5000), svc.MinClaimThreshold())
}
