package agent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/holidaysri/promo-api/internal/domain/tier"
)

var testThresholds = map[tier.Tier]int64{
	tier.TierFree:   700,
	tier.TierSilver: 1500,
	tier.TierGold:   2500,
}

func TestAdvanceTier(t *testing.T) {
	tests := []struct {
		name     string
		current  tier.Tier
		newCount int64
		want     tier.Tier
		upgraded bool
	}{
		{"free below threshold", tier.TierFree, 699, tier.TierFree, false},
		{"free crosses threshold", tier.TierFree, 700, tier.TierSilver, true},
		{"free far past threshold", tier.TierFree, 1200, tier.TierSilver, true},
		{"silver at free threshold stays", tier.TierSilver, 700, tier.TierSilver, false},
		{"silver below own threshold", tier.TierSilver, 1499, tier.TierSilver, false},
		{"silver crosses threshold", tier.TierSilver, 1500, tier.TierGold, true},
		{"gold crosses threshold", tier.TierGold, 2500, tier.TierDiamond, true},
		{"diamond has no next tier", tier.TierDiamond, 99999, tier.TierDiamond, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, upgraded := advanceTier(tt.current, tt.newCount, testThresholds)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.upgraded, upgraded)
		})
	}
}

func TestAdvanceTierMovesOneStepOnly(t *testing.T) {
	// A count far beyond several thresholds still advances a single step.
	got, upgraded := advanceTier(tier.TierFree, 3000, testThresholds)
	assert.True(t, upgraded)
	assert.Equal(t, tier.TierSilver, got)
}

func TestNextExpiration(t *testing.T) {
	current := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	got := nextExpiration(current)
	assert.Equal(t, time.Date(2027, 3, 15, 10, 0, 0, 0, time.UTC), got)
}

func TestNextExpirationKeepsUnusedTime(t *testing.T) {
	// Renewing six months early extends from the old expiration, so the
	// agent ends up with eighteen months of coverage.
	now := time.Now()
	expiration := now.AddDate(0, 6, 0)
	got := nextExpiration(expiration)
	assert.True(t, got.After(now.AddDate(1, 5, 0)))
}

func TestIsActiveAt(t *testing.T) {
	now := time.Now()
	a := &Agent{IsActive: true, ExpirationDate: now.Add(time.Hour)}

	assert.True(t, a.IsActiveAt(now))
	assert.False(t, a.IsActiveAt(now.Add(2*time.Hour)))

	a.IsActive = false
	assert.False(t, a.IsActiveAt(now))
}
