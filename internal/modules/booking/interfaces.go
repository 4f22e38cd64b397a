package booking

import (
	"context"
	"time"

	"travelbooking/internal/domain"
	"travelbooking/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingRepository is the persistence port for bookings.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	CountOverlapping(ctx context.Context, accommodationID uuid.UUID, checkIn, checkOut time.Time) (int64, error)
	UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus, updates map[string]interface{}) error
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) error
	ListByGuest(ctx context.Context, guestID uuid.UUID, limit, offset int) ([]domain.Booking, error)
	ListByAccommodation(ctx context.Context, accommodationID uuid.UUID, status domain.BookingStatus, limit, offset int) ([]domain.Booking, error)
	StatsBySupplier(ctx context.Context, supplierID uuid.UUID) (*repository.SupplierStats, error)
}

// PaymentRepository stores BookingPayment attempts.
type PaymentRepository interface {
	Create(ctx context.Context, p *domain.BookingPayment) error
	GetPaidByBooking(ctx context.Context, bookingID uuid.UUID) (*domain.BookingPayment, error)
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]domain.BookingPayment, error)
	MarkPaid(ctx context.Context, id uuid.UUID, transactionID string) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
	MarkRefunded(ctx context.Context, id uuid.UUID, status domain.PaymentStatus, amount decimal.Decimal, reason string) error
}

// Catalog resolves accommodation capacity, pricing and policy.
type Catalog interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Accommodation, error)
}

// Identity resolves actor roles for authorization checks.
type Identity interface {
	GetRole(ctx context.Context, id uuid.UUID) (domain.UserRole, error)
}

// FeeProvider returns the currently active fee configuration.
type FeeProvider interface {
	GetActiveConfig(ctx context.Context) (*domain.FeeConfig, error)
}

// ChargeResult is what the external payment provider reports back.
type ChargeResult struct {
	TransactionID string
	Status        string
}

// PaymentGateway delegates actual money movement to the external provider.
type PaymentGateway interface {
	Charge(ctx context.Context, bookingID uuid.UUID, amount decimal.Decimal, currency string, method domain.PaymentMethod) (*ChargeResult, error)
	Refund(ctx context.Context, transactionID string, amount decimal.Decimal) error
}

// NotificationSender delivers fire-and-forget user notifications. Errors
// are logged by implementations and never block a state transition.
type NotificationSender interface {
	NotifyBookingCreated(ctx context.Context, supplierID uuid.UUID, b *domain.Booking)
	NotifyBookingConfirmed(ctx context.Context, guestID uuid.UUID, b *domain.Booking)
	NotifyBookingRejected(ctx context.Context, guestID uuid.UUID, b *domain.Booking, reason string)
	NotifyBookingCancelled(ctx context.Context, userID uuid.UUID, b *domain.Booking, reason string)
	NotifyBookingCompleted(ctx context.Context, guestID uuid.UUID, b *domain.Booking)
	NotifyPaymentReceived(ctx context.Context, supplierID uuid.UUID, b *domain.Booking)
	NotifyPaymentRefunded(ctx context.Context, guestID uuid.UUID, b *domain.Booking, amount decimal.Decimal)
}

// AvailabilityBroadcaster pushes live availability changes (websocket hub).
type AvailabilityBroadcaster interface {
	BroadcastAvailabilityChange(accommodationID uuid.UUID, checkIn, checkOut time.Time, available bool)
}
