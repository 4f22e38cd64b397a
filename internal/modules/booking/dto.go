package booking

import (
	"time"

	"travelbooking/internal/domain"

	"github.com/google/uuid"
)

// CreateBookingRequest carries only guest-supplied booking intent. Pricing
// inputs (rates, discounts) are resolved server-side and never bound from
// the request body.
type CreateBookingRequest struct {
	GuestID         uuid.UUID `json:"-"`
	AccommodationID uuid.UUID `json:"accommodation_id" validate:"required"`
	CheckInDate     time.Time `json:"check_in_date" validate:"required"`
	CheckOutDate    time.Time `json:"check_out_date" validate:"required"`
	Adults          int       `json:"adults" validate:"required,gte=1"`
	Children        int       `json:"children" validate:"gte=0"`
	Infants         int       `json:"infants" validate:"gte=0"`
	SpecialRequests string    `json:"special_requests"`
}

type RecordPaymentRequest struct {
	Method   domain.PaymentMethod `json:"method" validate:"required"`
	Provider string               `json:"provider" validate:"required"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type RejectBookingRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type RefundBookingRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type CompleteBookingRequest struct {
	AdminOverride bool `json:"admin_override"`
}
