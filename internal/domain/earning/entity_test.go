package earning

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestVerifyClaimable(t *testing.T) {
	agentID := uuid.New()
	e1 := Earning{ID: uuid.New(), AgentID: agentID, Status: StatusPending}
	e2 := Earning{ID: uuid.New(), AgentID: agentID, Status: StatusPending}

	t.Run("all pending and owned", func(t *testing.T) {
		err := verifyClaimable([]Earning{e1, e2}, agentID, []uuid.UUID{e1.ID, e2.ID})
		assert.NoError(t, err)
	})

	t.Run("missing row rejects whole claim", func(t *testing.T) {
		err := verifyClaimable([]Earning{e1}, agentID, []uuid.UUID{e1.ID, uuid.New()})
		assert.ErrorIs(t, err, ErrNotOwnedOrNotPending)
	})

	t.Run("foreign earning rejects whole claim", func(t *testing.T) {
		foreign := Earning{ID: uuid.New(), AgentID: uuid.New(), Status: StatusPending}
		err := verifyClaimable([]Earning{e1, foreign}, agentID, []uuid.UUID{e1.ID, foreign.ID})
		assert.ErrorIs(t, err, ErrNotOwnedOrNotPending)
	})

	t.Run("already processed rejects whole claim", func(t *testing.T) {
		claimed := Earning{ID: uuid.New(), AgentID: agentID, Status: StatusProcessed}
		err := verifyClaimable([]Earning{e1, claimed}, agentID, []uuid.UUID{e1.ID, claimed.ID})
		assert.ErrorIs(t, err, ErrNotOwnedOrNotPending)
	})
}

func TestSumAmounts(t *testing.T) {
	earnings := []Earning{{AmountLKR: 2000}, {AmountLKR: 2000}, {AmountLKR: 1500}}
	assert.Equal(t, int64(5500), sumAmounts(earnings))
	assert.Equal(t, int64(0), sumAmounts(nil))
}

func TestStatusAndSourceValidation(t *testing.T) {
	assert.True(t, StatusPending.IsValid())
	assert.True(t, StatusProcessed.IsValid())
	assert.True(t, StatusPaid.IsValid())
	assert.False(t, Status("archived").IsValid())

	assert.True(t, SourceReferral.IsValid())
	assert.True(t, SourceMonthlyAd.IsValid())
	assert.True(t, SourceDailyAd.IsValid())
	assert.False(t, Source("bonus").IsValid())
}
