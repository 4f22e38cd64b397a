package booking

import "errors"

var (
	ErrValidation        = errors.New("validation error")
	ErrDateRangeConflict = errors.New("date range conflict")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrNoRefundDue       = errors.New("no refund due under cancellation policy")
	// ErrCollaborator wraps catalog/identity/payment failures; the booking
	// state is left unchanged when it is returned.
	ErrCollaborator = errors.New("collaborator error")
)
