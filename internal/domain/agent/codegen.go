package agent

import (
	"crypto/rand"
	"fmt"
)

// promo codes avoid 0/O and 1/I so they survive being read over the phone
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// generatePromoCode returns a fixed-length upper-alphanumeric code
func generatePromoCode(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate promo code: %w", err)
	}
	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return string(b), nil
}
