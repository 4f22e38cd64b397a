package dispute

import (
	"context"
	"time"

	"travelbooking/internal/domain"
	"travelbooking/internal/repository"

	"github.com/google/uuid"
)

// Service records guest/supplier disagreements over bookings. Resolution is
// a manual admin action; the service only enforces who may open and close a
// dispute, there is no automated outcome.
type Service struct {
	disputes DisputeRepository
	bookings BookingReader
	catalog  Catalog
	identity Identity
}

func NewService(disputes DisputeRepository, bookings BookingReader, catalog Catalog, identity Identity) *Service {
	return &Service{disputes: disputes, bookings: bookings, catalog: catalog, identity: identity}
}

// Create opens a dispute. Only a party to the booking (guest or owning
// supplier) may initiate one.
func (s *Service) Create(ctx context.Context, initiatorID uuid.UUID, req CreateDisputeRequest) (*domain.Dispute, error) {
	if req.Reason == "" {
		return nil, ErrValidation
	}

	b, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	acc, err := s.catalog.GetByID(ctx, b.AccommodationID)
	if err != nil {
		return nil, err
	}
	if initiatorID != b.GuestID && initiatorID != acc.SupplierID {
		return nil, ErrForbidden
	}

	now := time.Now().UTC()
	d := &domain.Dispute{
		ID:          uuid.New(),
		BookingID:   req.BookingID,
		InitiatorID: initiatorID,
		Reason:      req.Reason,
		Status:      domain.DisputeOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.disputes.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Dispute, error) {
	d, err := s.disputes.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (s *Service) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]domain.Dispute, error) {
	return s.disputes.ListByBooking(ctx, bookingID)
}

// Resolve records the admin-mediated outcome on an open dispute.
func (s *Service) Resolve(ctx context.Context, disputeID, actorID uuid.UUID, req ResolveDisputeRequest) (*domain.Dispute, error) {
	if req.Resolution == "" {
		return nil, ErrValidation
	}

	role, err := s.identity.GetRole(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if role != domain.RoleAdmin {
		return nil, ErrForbidden
	}

	if err := s.disputes.Resolve(ctx, disputeID, req.Resolution, actorID); err != nil {
		if repository.IsNotFound(err) {
			d, gerr := s.disputes.GetByID(ctx, disputeID)
			if gerr == nil && d.Status == domain.DisputeResolved {
				return nil, ErrResolved
			}
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.disputes.GetByID(ctx, disputeID)
}
