package pricing

import (
	"context"

	"travelbooking/internal/domain"

	"github.com/google/uuid"
)

// FeeConfigRepository is the persistence port for the fee schedule.
type FeeConfigRepository interface {
	GetActive(ctx context.Context) (*domain.FeeConfig, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.FeeConfig, error)
	List(ctx context.Context) ([]domain.FeeConfig, error)
	CreateActive(ctx context.Context, c *domain.FeeConfig) error
	Activate(ctx context.Context, id uuid.UUID) (*domain.FeeConfig, error)
}
