package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
	BookingRejected  BookingStatus = "rejected"
)

// IsTerminal reports whether no further status transition is permitted.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingCancelled || s == BookingCompleted || s == BookingRejected
}

type PaymentStatus string

const (
	PaymentPending           PaymentStatus = "pending"
	PaymentPaid              PaymentStatus = "paid"
	PaymentFailed            PaymentStatus = "failed"
	PaymentRefunded          PaymentStatus = "refunded"
	PaymentPartiallyRefunded PaymentStatus = "partially_refunded"
	// PaymentRefundPending marks a cancelled booking whose refund could not
	// be initiated; the cancellation itself is already committed.
	PaymentRefundPending PaymentStatus = "refund_pending"
)

type Booking struct {
	ID              uuid.UUID `json:"id"`
	GuestID         uuid.UUID `json:"guest_id"`
	AccommodationID uuid.UUID `json:"accommodation_id"`
	CheckInDate     time.Time `json:"check_in_date"`
	CheckOutDate    time.Time `json:"check_out_date"`
	Nights          int       `json:"nights"`

	TotalGuests int `json:"total_guests"`
	Adults      int `json:"adults"`
	Children    int `json:"children"`
	Infants     int `json:"infants"`

	// Pricing snapshot, computed once at creation and never re-priced.
	BasePricePerNight decimal.Decimal `json:"base_price_per_night"`
	TotalBasePrice    decimal.Decimal `json:"total_base_price"`
	ServiceFee        decimal.Decimal `json:"service_fee"`
	CleaningFee       decimal.Decimal `json:"cleaning_fee"`
	TaxAmount         decimal.Decimal `json:"tax_amount"`
	DiscountAmount    decimal.Decimal `json:"discount_amount"`
	TotalPrice        decimal.Decimal `json:"total_price"`
	Currency          string          `json:"currency"`

	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`

	CancellationReason string     `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancelledBy        *uuid.UUID `json:"cancelled_by,omitempty"`

	SpecialRequests string `json:"special_requests,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
}

// Overlaps reports whether two half-open date ranges [a,b) and [c,d)
// intersect. A check-out on day X does not conflict with a check-in on X.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// NightsBetween returns the number of nights in [checkIn, checkOut).
func NightsBetween(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn).Hours() / 24)
}
