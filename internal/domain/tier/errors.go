package tier

import "errors"

var (
	ErrConfigNotFound = errors.New("tier config not found")
	ErrInvalidTier    = errors.New("invalid tier")
)
