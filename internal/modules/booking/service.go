package booking

import (
	"context"
	"fmt"
	"log"
	"time"

	"travelbooking/internal/domain"
	"travelbooking/internal/modules/pricing"
	"travelbooking/internal/modules/refund"
	"travelbooking/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service is the booking lifecycle manager. It owns the status state machine
// and orchestrates availability, pricing, payments and notifications.
type Service struct {
	bookings    BookingRepository
	payments    PaymentRepository
	catalog     Catalog
	identity    Identity
	fees        FeeProvider
	gateway     PaymentGateway
	notifs      NotificationSender
	broadcaster AvailabilityBroadcaster

	locks *accommodationLocks
	now   func() time.Time
}

func NewService(
	bookings BookingRepository,
	payments PaymentRepository,
	catalog Catalog,
	identity Identity,
	fees FeeProvider,
	gateway PaymentGateway,
	notifs NotificationSender,
	broadcaster AvailabilityBroadcaster,
) *Service {
	return &Service{
		bookings:    bookings,
		payments:    payments,
		catalog:     catalog,
		identity:    identity,
		fees:        fees,
		gateway:     gateway,
		notifs:      notifs,
		broadcaster: broadcaster,
		locks:       newAccommodationLocks(),
		now:         time.Now,
	}
}

func (s *Service) getAccommodation(ctx context.Context, id uuid.UUID) (*domain.Accommodation, error) {
	acc, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: catalog: %v", ErrCollaborator, err)
	}
	return acc, nil
}

func (s *Service) actorRole(ctx context.Context, actorID uuid.UUID) (domain.UserRole, error) {
	role, err := s.identity.GetRole(ctx, actorID)
	if err != nil {
		if repository.IsNotFound(err) {
			return "", ErrForbidden
		}
		return "", fmt.Errorf("%w: identity: %v", ErrCollaborator, err)
	}
	return role, nil
}

// Create validates the request, checks availability and prices the stay
// under the active fee configuration, then persists the booking as PENDING
// (or CONFIRMED for instant-book accommodations). The availability check and
// the insert run under a per-accommodation lock.
func (s *Service) Create(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	checkIn := midnightUTC(req.CheckInDate)
	checkOut := midnightUTC(req.CheckOutDate)

	if !checkOut.After(checkIn) {
		return nil, ErrValidation
	}
	if checkIn.Before(midnightUTC(s.now())) {
		return nil, ErrValidation
	}

	if req.Adults < 1 || req.Children < 0 || req.Infants < 0 {
		return nil, ErrValidation
	}
	totalGuests := req.Adults + req.Children + req.Infants

	acc, err := s.getAccommodation(ctx, req.AccommodationID)
	if err != nil {
		return nil, err
	}
	if acc.Status != domain.ApprovalApproved {
		return nil, ErrValidation
	}
	if totalGuests > acc.MaxGuests {
		return nil, ErrValidation
	}

	cfg, err := s.fees.GetActiveConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: fee config: %v", ErrCollaborator, err)
	}

	nights := domain.NightsBetween(checkIn, checkOut)
	breakdown, err := pricing.Quote(acc.BasePricePerNight, nights, cfg, decimal.Zero)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	mu := s.locks.get(req.AccommodationID)
	mu.Lock()
	defer mu.Unlock()

	conflict, err := s.hasConflict(ctx, req.AccommodationID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, ErrDateRangeConflict
	}

	now := s.now().UTC()
	b := &domain.Booking{
		ID:                uuid.New(),
		GuestID:           req.GuestID,
		AccommodationID:   req.AccommodationID,
		CheckInDate:       checkIn,
		CheckOutDate:      checkOut,
		Nights:            nights,
		TotalGuests:       totalGuests,
		Adults:            req.Adults,
		Children:          req.Children,
		Infants:           req.Infants,
		BasePricePerNight: breakdown.BasePricePerNight,
		TotalBasePrice:    breakdown.TotalBasePrice,
		ServiceFee:        breakdown.ServiceFee,
		CleaningFee:       breakdown.CleaningFee,
		TaxAmount:         breakdown.TaxAmount,
		DiscountAmount:    breakdown.DiscountAmount,
		TotalPrice:        breakdown.TotalPrice,
		Currency:          acc.Currency,
		Status:            domain.BookingPending,
		PaymentStatus:     domain.PaymentPending,
		SpecialRequests:   req.SpecialRequests,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if acc.InstantBook {
		b.Status = domain.BookingConfirmed
		confirmedAt := now
		b.ConfirmedAt = &confirmedAt
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		if isConflictConstraintErr(err) {
			return nil, ErrDateRangeConflict
		}
		return nil, err
	}

	if s.notifs != nil {
		s.notifs.NotifyBookingCreated(ctx, acc.SupplierID, b)
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastAvailabilityChange(b.AccommodationID, checkIn, checkOut, false)
	}

	return b, nil
}

// Confirm moves a PENDING booking to CONFIRMED. Only the owning supplier or
// an admin may confirm.
func (s *Service) Confirm(ctx context.Context, bookingID, actorID uuid.UUID) (*domain.Booking, error) {
	b, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	acc, err := s.getAccommodation(ctx, b.AccommodationID)
	if err != nil {
		return nil, err
	}
	role, err := s.actorRole(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if d := canDecideRequest(actorID, role, acc.SupplierID); !d.Allowed {
		return nil, ErrForbidden
	}

	if b.Status != domain.BookingPending {
		return nil, ErrInvalidTransition
	}

	confirmedAt := s.now().UTC()
	err = s.bookings.UpdateStatusFrom(ctx, bookingID, domain.BookingPending, domain.BookingConfirmed,
		map[string]interface{}{"confirmed_at": confirmedAt})
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}

	b, err = s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if s.notifs != nil {
		s.notifs.NotifyBookingConfirmed(ctx, b.GuestID, b)
	}
	return b, nil
}

// Reject moves a PENDING booking to REJECTED with a reason. Same actor rule
// as Confirm.
func (s *Service) Reject(ctx context.Context, bookingID, actorID uuid.UUID, reason string) (*domain.Booking, error) {
	if reason == "" {
		return nil, ErrValidation
	}

	b, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	acc, err := s.getAccommodation(ctx, b.AccommodationID)
	if err != nil {
		return nil, err
	}
	role, err := s.actorRole(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if d := canDecideRequest(actorID, role, acc.SupplierID); !d.Allowed {
		return nil, ErrForbidden
	}

	if b.Status != domain.BookingPending {
		return nil, ErrInvalidTransition
	}

	err = s.bookings.UpdateStatusFrom(ctx, bookingID, domain.BookingPending, domain.BookingRejected,
		map[string]interface{}{"cancellation_reason": reason})
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}

	b, err = s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if s.notifs != nil {
		s.notifs.NotifyBookingRejected(ctx, b.GuestID, b, reason)
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastAvailabilityChange(b.AccommodationID, b.CheckInDate, b.CheckOutDate, true)
	}
	return b, nil
}

// Cancel moves a PENDING or CONFIRMED booking to CANCELLED. When the booking
// is paid, the refund is resolved and executed synchronously; a refund
// failure never blocks the cancellation. The payment status becomes
// REFUND_PENDING instead and availability is released immediately.
func (s *Service) Cancel(ctx context.Context, bookingID, actorID uuid.UUID, reason string) (*domain.Booking, error) {
	if reason == "" {
		return nil, ErrValidation
	}

	b, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	acc, err := s.getAccommodation(ctx, b.AccommodationID)
	if err != nil {
		return nil, err
	}
	role, err := s.actorRole(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if d := canCancel(actorID, role, b.GuestID, acc.SupplierID); !d.Allowed {
		return nil, ErrForbidden
	}

	if b.Status != domain.BookingPending && b.Status != domain.BookingConfirmed {
		return nil, ErrInvalidTransition
	}

	cancelledAt := s.now().UTC()
	err = s.bookings.UpdateStatusFrom(ctx, bookingID, b.Status, domain.BookingCancelled,
		map[string]interface{}{
			"cancellation_reason": reason,
			"cancelled_at":        cancelledAt,
			"cancelled_by":        actorID,
		})
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}

	if b.PaymentStatus == domain.PaymentPaid {
		decision := refund.Resolve(b.TotalPrice, acc.CancellationPolicy, b.CheckInDate, cancelledAt)
		if !decision.None() {
			if err := s.executeRefund(ctx, b, decision, reason); err != nil {
				log.Printf("refund initiation failed booking_id=%s err=%v", b.ID, err)
				if uerr := s.bookings.UpdatePaymentStatus(ctx, bookingID, domain.PaymentRefundPending); uerr != nil {
					log.Printf("failed to mark refund_pending booking_id=%s err=%v", b.ID, uerr)
				}
			}
		}
	}

	b, err = s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if s.notifs != nil {
		s.notifs.NotifyBookingCancelled(ctx, b.GuestID, b, reason)
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastAvailabilityChange(b.AccommodationID, b.CheckInDate, b.CheckOutDate, true)
	}
	return b, nil
}

// Complete moves a CONFIRMED booking to COMPLETED once the check-out date
// has passed. Only the owning supplier or an admin may complete; admins may
// also override the date guard.
func (s *Service) Complete(ctx context.Context, bookingID, actorID uuid.UUID, adminOverride bool) (*domain.Booking, error) {
	b, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	acc, err := s.getAccommodation(ctx, b.AccommodationID)
	if err != nil {
		return nil, err
	}
	role, err := s.actorRole(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if d := canDecideRequest(actorID, role, acc.SupplierID); !d.Allowed {
		return nil, ErrForbidden
	}
	if adminOverride && role != domain.RoleAdmin {
		return nil, ErrForbidden
	}

	if b.Status != domain.BookingConfirmed {
		return nil, ErrInvalidTransition
	}
	if s.now().UTC().Before(b.CheckOutDate) && !adminOverride {
		return nil, ErrValidation
	}

	err = s.bookings.UpdateStatusFrom(ctx, bookingID, domain.BookingConfirmed, domain.BookingCompleted, nil)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}

	b, err = s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if s.notifs != nil {
		s.notifs.NotifyBookingCompleted(ctx, b.GuestID, b)
	}
	return b, nil
}

// RecordPayment charges the guest through the payment gateway and records
// the attempt. Gateway failure leaves the booking unchanged; the failed
// attempt is kept for audit. Booking status is never changed here:
// confirmation stays an explicit supplier decision (instant-book bookings
// were already confirmed at creation).
func (s *Service) RecordPayment(ctx context.Context, bookingID, actorID uuid.UUID, req RecordPaymentRequest) (*domain.BookingPayment, error) {
	b, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if d := canPay(actorID, b.GuestID); !d.Allowed {
		return nil, ErrForbidden
	}

	if b.Status.IsTerminal() {
		return nil, ErrInvalidTransition
	}
	if b.PaymentStatus != domain.PaymentPending && b.PaymentStatus != domain.PaymentFailed {
		return nil, ErrInvalidTransition
	}

	p := &domain.BookingPayment{
		ID:        uuid.New(),
		BookingID: b.ID,
		Amount:    b.TotalPrice,
		Currency:  b.Currency,
		Method:    req.Method,
		Provider:  req.Provider,
		Status:    domain.PaymentPending,
		CreatedAt: s.now().UTC(),
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, err
	}

	result, err := s.gateway.Charge(ctx, b.ID, b.TotalPrice, b.Currency, req.Method)
	if err != nil {
		if merr := s.payments.MarkFailed(ctx, p.ID, err.Error()); merr != nil {
			log.Printf("failed to mark payment failed payment_id=%s err=%v", p.ID, merr)
		}
		return nil, fmt.Errorf("%w: payment: %v", ErrCollaborator, err)
	}

	if err := s.payments.MarkPaid(ctx, p.ID, result.TransactionID); err != nil {
		return nil, err
	}
	if err := s.bookings.UpdatePaymentStatus(ctx, bookingID, domain.PaymentPaid); err != nil {
		return nil, err
	}

	p.Status = domain.PaymentPaid
	p.TransactionID = result.TransactionID

	acc, accErr := s.getAccommodation(ctx, b.AccommodationID)
	if accErr == nil && s.notifs != nil {
		s.notifs.NotifyPaymentReceived(ctx, acc.SupplierID, b)
	}
	return p, nil
}

// Refund executes a policy-resolved refund on a paid booking, or retries a
// refund that failed during cancellation (payment status REFUND_PENDING).
// Retries resolve the policy against the original cancellation time.
func (s *Service) Refund(ctx context.Context, bookingID, actorID uuid.UUID, reason string) (*domain.Booking, error) {
	b, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	acc, err := s.getAccommodation(ctx, b.AccommodationID)
	if err != nil {
		return nil, err
	}
	role, err := s.actorRole(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if d := canCancel(actorID, role, b.GuestID, acc.SupplierID); !d.Allowed {
		return nil, ErrForbidden
	}

	if b.PaymentStatus != domain.PaymentPaid && b.PaymentStatus != domain.PaymentRefundPending {
		return nil, ErrInvalidTransition
	}

	resolvedAt := s.now().UTC()
	if b.PaymentStatus == domain.PaymentRefundPending && b.CancelledAt != nil {
		resolvedAt = *b.CancelledAt
	}

	decision := refund.Resolve(b.TotalPrice, acc.CancellationPolicy, b.CheckInDate, resolvedAt)
	if decision.None() {
		return nil, ErrNoRefundDue
	}

	if err := s.executeRefund(ctx, b, decision, reason); err != nil {
		return nil, fmt.Errorf("%w: payment: %v", ErrCollaborator, err)
	}

	b, err = s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if s.notifs != nil {
		s.notifs.NotifyPaymentRefunded(ctx, b.GuestID, b, decision.Amount)
	}
	return b, nil
}

// executeRefund runs the gateway refund for the booking's paid payment and
// records the outcome on both the payment row and the booking projection.
func (s *Service) executeRefund(ctx context.Context, b *domain.Booking, decision refund.Decision, reason string) error {
	p, err := s.payments.GetPaidByBooking(ctx, b.ID)
	if err != nil {
		return err
	}

	if err := s.gateway.Refund(ctx, p.TransactionID, decision.Amount); err != nil {
		return err
	}

	status := domain.PaymentPartiallyRefunded
	if decision.Full() {
		status = domain.PaymentRefunded
	}
	if err := s.payments.MarkRefunded(ctx, p.ID, status, decision.Amount, reason); err != nil {
		return err
	}
	return s.bookings.UpdatePaymentStatus(ctx, b.ID, status)
}

func (s *Service) getBooking(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// GetByID returns the booking to its guest, the owning supplier or an admin.
func (s *Service) GetByID(ctx context.Context, bookingID, actorID uuid.UUID) (*domain.Booking, error) {
	b, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	acc, err := s.getAccommodation(ctx, b.AccommodationID)
	if err != nil {
		return nil, err
	}
	role, err := s.actorRole(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if d := canView(actorID, role, b.GuestID, acc.SupplierID); !d.Allowed {
		return nil, ErrForbidden
	}
	return b, nil
}

func (s *Service) ListMine(ctx context.Context, guestID uuid.UUID, limit, offset int) ([]domain.Booking, error) {
	return s.bookings.ListByGuest(ctx, guestID, limit, offset)
}

// ListByAccommodation returns bookings for an accommodation to its supplier
// or an admin.
func (s *Service) ListByAccommodation(ctx context.Context, accommodationID, actorID uuid.UUID, status domain.BookingStatus, limit, offset int) ([]domain.Booking, error) {
	acc, err := s.getAccommodation(ctx, accommodationID)
	if err != nil {
		return nil, err
	}
	role, err := s.actorRole(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if d := canDecideRequest(actorID, role, acc.SupplierID); !d.Allowed {
		return nil, ErrForbidden
	}
	return s.bookings.ListByAccommodation(ctx, accommodationID, status, limit, offset)
}

// SupplierStats aggregates bookings and paid revenue for the supplier's own
// accommodations.
func (s *Service) SupplierStats(ctx context.Context, supplierID, actorID uuid.UUID) (*repository.SupplierStats, error) {
	role, err := s.actorRole(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actorID != supplierID && role != domain.RoleAdmin {
		return nil, ErrForbidden
	}
	return s.bookings.StatsBySupplier(ctx, supplierID)
}

// ListPayments returns all payment attempts for a booking.
func (s *Service) ListPayments(ctx context.Context, bookingID, actorID uuid.UUID) ([]domain.BookingPayment, error) {
	b, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	acc, err := s.getAccommodation(ctx, b.AccommodationID)
	if err != nil {
		return nil, err
	}
	role, err := s.actorRole(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if d := canView(actorID, role, b.GuestID, acc.SupplierID); !d.Allowed {
		return nil, ErrForbidden
	}
	return s.payments.ListByBooking(ctx, bookingID)
}
