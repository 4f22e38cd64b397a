package repository

import (
	"context"
	"time"

	"travelbooking/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DisputeRepository struct {
	db *gorm.DB
}

func NewDisputeRepository(db *gorm.DB) *DisputeRepository {
	return &DisputeRepository{db: db}
}

type disputeModel struct {
	ID          uuid.UUID  `gorm:"column:id;primaryKey"`
	BookingID   uuid.UUID  `gorm:"column:booking_id"`
	InitiatorID uuid.UUID  `gorm:"column:initiator_id"`
	Reason      string     `gorm:"column:reason"`
	Status      string     `gorm:"column:status"`
	Resolution  *string    `gorm:"column:resolution"`
	ResolvedBy  *uuid.UUID `gorm:"column:resolved_by"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (disputeModel) TableName() string { return "disputes" }

func toDomainDispute(m disputeModel) *domain.Dispute {
	var resolution string
	if m.Resolution != nil {
		resolution = *m.Resolution
	}
	return &domain.Dispute{
		ID:          m.ID,
		BookingID:   m.BookingID,
		InitiatorID: m.InitiatorID,
		Reason:      m.Reason,
		Status:      domain.DisputeStatus(m.Status),
		Resolution:  resolution,
		ResolvedBy:  m.ResolvedBy,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (r *DisputeRepository) Create(ctx context.Context, d *domain.Dispute) error {
	var resolution *string
	if d.Resolution != "" {
		v := d.Resolution
		resolution = &v
	}
	m := disputeModel{
		ID:          d.ID,
		BookingID:   d.BookingID,
		InitiatorID: d.InitiatorID,
		Reason:      d.Reason,
		Status:      string(d.Status),
		Resolution:  resolution,
		ResolvedBy:  d.ResolvedBy,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*d = *toDomainDispute(m)
	return nil
}

func (r *DisputeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Dispute, error) {
	var m disputeModel
	tx := r.db.WithContext(ctx).Where("id = ?", id).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainDispute(m), nil
}

func (r *DisputeRepository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]domain.Dispute, error) {
	var rows []disputeModel
	tx := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at DESC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Dispute, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainDispute(m))
	}
	return out, nil
}

// Resolve records the admin outcome; only open disputes can be resolved.
func (r *DisputeRepository) Resolve(ctx context.Context, id uuid.UUID, resolution string, resolvedBy uuid.UUID) error {
	tx := r.db.WithContext(ctx).Model(&disputeModel{}).
		Where("id = ? AND status = ?", id, string(domain.DisputeOpen)).
		Updates(map[string]interface{}{
			"status":      string(domain.DisputeResolved),
			"resolution":  resolution,
			"resolved_by": resolvedBy,
			"updated_at":  time.Now().UTC(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
