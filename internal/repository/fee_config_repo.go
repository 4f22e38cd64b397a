package repository

import (
	"context"
	"time"

	"travelbooking/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type FeeConfigRepository struct {
	db *gorm.DB
}

func NewFeeConfigRepository(db *gorm.DB) *FeeConfigRepository {
	return &FeeConfigRepository{db: db}
}

type feeConfigModel struct {
	ID                    uuid.UUID        `gorm:"column:id;primaryKey"`
	ServiceFeePercentage  decimal.Decimal  `gorm:"column:service_fee_percentage"`
	ServiceFeeMinimum     *decimal.Decimal `gorm:"column:service_fee_minimum"`
	ServiceFeeMaximum     *decimal.Decimal `gorm:"column:service_fee_maximum"`
	CleaningFeePercentage decimal.Decimal  `gorm:"column:cleaning_fee_percentage"`
	TaxRate               decimal.Decimal  `gorm:"column:tax_rate"`
	Active                bool             `gorm:"column:active"`
	CreatedAt             time.Time        `gorm:"column:created_at"`
	UpdatedAt             time.Time        `gorm:"column:updated_at"`
}

func (feeConfigModel) TableName() string { return "booking_fee_configs" }

func toDomainFeeConfig(m feeConfigModel) *domain.FeeConfig {
	return &domain.FeeConfig{
		ID:                    m.ID,
		ServiceFeePercentage:  m.ServiceFeePercentage,
		ServiceFeeMinimum:     m.ServiceFeeMinimum,
		ServiceFeeMaximum:     m.ServiceFeeMaximum,
		CleaningFeePercentage: m.CleaningFeePercentage,
		TaxRate:               m.TaxRate,
		Active:                m.Active,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}

func toFeeConfigModel(c *domain.FeeConfig) feeConfigModel {
	return feeConfigModel{
		ID:                    c.ID,
		ServiceFeePercentage:  c.ServiceFeePercentage,
		ServiceFeeMinimum:     c.ServiceFeeMinimum,
		ServiceFeeMaximum:     c.ServiceFeeMaximum,
		CleaningFeePercentage: c.CleaningFeePercentage,
		TaxRate:               c.TaxRate,
		Active:                c.Active,
		CreatedAt:             c.CreatedAt,
		UpdatedAt:             c.UpdatedAt,
	}
}

func (r *FeeConfigRepository) GetActive(ctx context.Context) (*domain.FeeConfig, error) {
	var m feeConfigModel
	tx := r.db.WithContext(ctx).Where("active = ?", true).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainFeeConfig(m), nil
}

func (r *FeeConfigRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.FeeConfig, error) {
	var m feeConfigModel
	tx := r.db.WithContext(ctx).Where("id = ?", id).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainFeeConfig(m), nil
}

func (r *FeeConfigRepository) List(ctx context.Context) ([]domain.FeeConfig, error) {
	var rows []feeConfigModel
	tx := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.FeeConfig, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainFeeConfig(m))
	}
	return out, nil
}

// CreateActive inserts the config as the single active one. Deactivation of
// every other config and the insert run in one transaction so readers never
// observe zero or two active configs.
func (r *FeeConfigRepository) CreateActive(ctx context.Context, c *domain.FeeConfig) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&feeConfigModel{}).
			Where("active = ?", true).
			Updates(map[string]interface{}{"active": false, "updated_at": time.Now().UTC()}).Error; err != nil {
			return err
		}
		c.Active = true
		m := toFeeConfigModel(c)
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		*c = *toDomainFeeConfig(m)
		return nil
	})
}

// Activate flips the given config to active and every other one to inactive
// within a single transaction.
func (r *FeeConfigRepository) Activate(ctx context.Context, id uuid.UUID) (*domain.FeeConfig, error) {
	var m feeConfigModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&m).Error; err != nil {
			return err
		}
		if err := tx.Model(&feeConfigModel{}).
			Where("active = ?", true).
			Updates(map[string]interface{}{"active": false, "updated_at": time.Now().UTC()}).Error; err != nil {
			return err
		}
		res := tx.Model(&feeConfigModel{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{"active": true, "updated_at": time.Now().UTC()})
		if res.Error != nil {
			return res.Error
		}
		return tx.Where("id = ?", id).First(&m).Error
	})
	if err != nil {
		return nil, err
	}
	return toDomainFeeConfig(m), nil
}
