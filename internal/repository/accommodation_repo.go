package repository

import (
	"context"
	"time"

	"travelbooking/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AccommodationRepository struct {
	db *gorm.DB
}

func NewAccommodationRepository(db *gorm.DB) *AccommodationRepository {
	return &AccommodationRepository{db: db}
}

type accommodationModel struct {
	ID                 uuid.UUID       `gorm:"column:id;primaryKey"`
	SupplierID         uuid.UUID       `gorm:"column:supplier_id"`
	Title              string          `gorm:"column:title"`
	MaxGuests          int             `gorm:"column:max_guests"`
	BasePricePerNight  decimal.Decimal `gorm:"column:base_price_per_night"`
	Currency           string          `gorm:"column:currency"`
	CancellationPolicy string          `gorm:"column:cancellation_policy"`
	InstantBook        bool            `gorm:"column:instant_book"`
	Status             string          `gorm:"column:status"`
	CreatedAt          time.Time       `gorm:"column:created_at"`
	UpdatedAt          time.Time       `gorm:"column:updated_at"`
}

func (accommodationModel) TableName() string { return "accommodations" }

func toDomainAccommodation(m accommodationModel) *domain.Accommodation {
	return &domain.Accommodation{
		ID:                 m.ID,
		SupplierID:         m.SupplierID,
		Title:              m.Title,
		MaxGuests:          m.MaxGuests,
		BasePricePerNight:  m.BasePricePerNight,
		Currency:           m.Currency,
		CancellationPolicy: domain.CancellationPolicy(m.CancellationPolicy),
		InstantBook:        m.InstantBook,
		Status:             domain.ApprovalStatus(m.Status),
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func (r *AccommodationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Accommodation, error) {
	var m accommodationModel
	tx := r.db.WithContext(ctx).Where("id = ?", id).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainAccommodation(m), nil
}

func (r *AccommodationRepository) Create(ctx context.Context, a *domain.Accommodation) error {
	m := accommodationModel{
		ID:                 a.ID,
		SupplierID:         a.SupplierID,
		Title:              a.Title,
		MaxGuests:          a.MaxGuests,
		BasePricePerNight:  a.BasePricePerNight,
		Currency:           a.Currency,
		CancellationPolicy: string(a.CancellationPolicy),
		InstantBook:        a.InstantBook,
		Status:             string(a.Status),
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*a = *toDomainAccommodation(m)
	return nil
}
