package pricing

import "errors"

var (
	ErrInvalidDateRange = errors.New("nights must be at least 1")
	ErrInvalidPrice     = errors.New("base price must not be negative")
	ErrInvalidDiscount  = errors.New("discount out of range")
	ErrNoActiveConfig   = errors.New("no active fee configuration")
	ErrValidation       = errors.New("validation error")
	ErrNotFound         = errors.New("fee configuration not found")
)
