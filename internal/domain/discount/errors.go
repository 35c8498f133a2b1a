package discount

import "errors"

var (
	ErrInvalidCode         = errors.New("promo code does not exist")
	ErrExpiredCode         = errors.New("promo code belongs to an expired or inactive agent")
	ErrIneligibleCurrency  = errors.New("promo discounts only apply to HSC purchases")
	ErrInvalidPurchaseType = errors.New("unknown purchase type")
	ErrInvalidAmount       = errors.New("original amount must not be negative")
)
