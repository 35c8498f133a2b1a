package agent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePromoCodeLength(t *testing.T) {
	for _, n := range []int{6, 8, 12} {
		code, err := generatePromoCode(n)
		require.NoError(t, err)
		assert.Len(t, code, n)
	}
}

func TestGeneratePromoCodeCharset(t *testing.T) {
	// The alphabet excludes 0, O, 1 and I so codes survive being read aloud.
	for i := 0; i < 50; i++ {
		code, err := generatePromoCode(8)
		require.NoError(t, err)
		for _, c := range code {
			assert.True(t, strings.ContainsRune(codeAlphabet, c), "unexpected character %q in %s", c, code)
		}
		assert.NotContains(t, code, "0")
		assert.NotContains(t, code, "O")
		assert.NotContains(t, code, "1")
		assert.NotContains(t, code, "I")
	}
}

func TestGeneratePromoCodeVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := generatePromoCode(8)
		require.NoError(t, err)
		seen[code] = true
	}
	// 100 draws from a 32^8 space colliding would point at a broken source.
	assert.Greater(t, len(seen), 95)
}
