package dispute

import (
	"context"

	"travelbooking/internal/domain"

	"github.com/google/uuid"
)

type DisputeRepository interface {
	Create(ctx context.Context, d *domain.Dispute) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Dispute, error)
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]domain.Dispute, error)
	Resolve(ctx context.Context, id uuid.UUID, resolution string, resolvedBy uuid.UUID) error
}

type BookingReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
}

type Catalog interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Accommodation, error)
}

type Identity interface {
	GetRole(ctx context.Context, id uuid.UUID) (domain.UserRole, error)
}
