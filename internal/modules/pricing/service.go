package pricing

import (
	"context"
	"time"

	"travelbooking/internal/domain"
	"travelbooking/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service owns the fee schedule. The active config is fetched per operation
// and never cached, so an activation is visible to the next pricing call.
type Service struct {
	configs FeeConfigRepository
}

func NewService(configs FeeConfigRepository) *Service {
	return &Service{configs: configs}
}

// GetActiveConfig returns the single active fee configuration. A missing
// active config is an operational fault, surfaced as ErrNoActiveConfig.
func (s *Service) GetActiveConfig(ctx context.Context) (*domain.FeeConfig, error) {
	cfg, err := s.configs.GetActive(ctx)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNoActiveConfig
		}
		return nil, err
	}
	return cfg, nil
}

func (s *Service) ListConfigs(ctx context.Context) ([]domain.FeeConfig, error) {
	return s.configs.List(ctx)
}

func (s *Service) CreateConfig(ctx context.Context, req CreateFeeConfigRequest) (*domain.FeeConfig, error) {
	if err := validateRates(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	cfg := &domain.FeeConfig{
		ID:                    uuid.New(),
		ServiceFeePercentage:  req.ServiceFeePercentage,
		ServiceFeeMinimum:     req.ServiceFeeMinimum,
		ServiceFeeMaximum:     req.ServiceFeeMaximum,
		CleaningFeePercentage: req.CleaningFeePercentage,
		TaxRate:               req.TaxRate,
		Active:                true,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := s.configs.CreateActive(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *Service) ActivateConfig(ctx context.Context, id uuid.UUID) (*domain.FeeConfig, error) {
	cfg, err := s.configs.Activate(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return cfg, nil
}

func validateRates(req CreateFeeConfigRequest) error {
	if req.ServiceFeePercentage.IsNegative() || req.ServiceFeePercentage.GreaterThan(decimal.NewFromInt(100)) {
		return ErrValidation
	}
	if req.CleaningFeePercentage.IsNegative() || req.CleaningFeePercentage.GreaterThan(decimal.NewFromInt(100)) {
		return ErrValidation
	}
	if req.TaxRate.IsNegative() || req.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return ErrValidation
	}
	if req.ServiceFeeMinimum != nil && req.ServiceFeeMinimum.IsNegative() {
		return ErrValidation
	}
	if req.ServiceFeeMaximum != nil && req.ServiceFeeMaximum.IsNegative() {
		return ErrValidation
	}
	if req.ServiceFeeMinimum != nil && req.ServiceFeeMaximum != nil &&
		req.ServiceFeeMinimum.GreaterThan(*req.ServiceFeeMaximum) {
		return ErrValidation
	}
	return nil
}
