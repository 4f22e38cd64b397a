package dispute

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("dispute not found")
	ErrResolved   = errors.New("dispute already resolved")
)
