package agent

import "errors"

var (
	ErrNotFound            = errors.New("agent not found")
	ErrDuplicateActiveCode = errors.New("user already holds an active promo code")
	ErrPromoCodeTaken      = errors.New("promo code already taken")
	ErrInvalidReferralCode = errors.New("referral code is not valid")
	ErrInvalidUpgrade      = errors.New("upgrade target must be a higher tier")
	ErrInsufficientBalance = errors.New("insufficient balance for renewal")
	ErrMissingIdempotency  = errors.New("idempotency key is required")
)
