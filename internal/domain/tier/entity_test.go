package tier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierOrdering(t *testing.T) {
	assert.True(t, TierSilver.Above(TierFree))
	assert.True(t, TierDiamond.Above(TierGold))
	assert.False(t, TierFree.Above(TierFree))
	assert.False(t, TierGold.Above(TierDiamond))
}

func TestTierNext(t *testing.T) {
	next, ok := TierFree.Next()
	assert.True(t, ok)
	assert.Equal(t, TierSilver, next)

	next, ok = TierGold.Next()
	assert.True(t, ok)
	assert.Equal(t, TierDiamond, next)

	_, ok = TierDiamond.Next()
	assert.False(t, ok)

	_, ok = Tier("platinum").Next()
	assert.False(t, ok)
}

func TestTierIsValid(t *testing.T) {
	for _, v := range []Tier{TierFree, TierSilver, TierGold, TierDiamond} {
		assert.True(t, v.IsValid())
	}
	assert.False(t, Tier("").IsValid())
	assert.False(t, Tier("Platinum").IsValid())
}
