package repository

import (
	"context"
	"time"

	"travelbooking/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

type bookingPaymentModel struct {
	ID            uuid.UUID        `gorm:"column:id;primaryKey"`
	BookingID     uuid.UUID        `gorm:"column:booking_id"`
	Amount        decimal.Decimal  `gorm:"column:amount"`
	Currency      string           `gorm:"column:currency"`
	Method        string           `gorm:"column:method"`
	Provider      string           `gorm:"column:provider"`
	TransactionID *string          `gorm:"column:transaction_id"`
	Status        string           `gorm:"column:status"`
	FailureReason *string          `gorm:"column:failure_reason"`
	RefundAmount  *decimal.Decimal `gorm:"column:refund_amount"`
	RefundReason  *string          `gorm:"column:refund_reason"`
	CreatedAt     time.Time        `gorm:"column:created_at"`
	PaidAt        *time.Time       `gorm:"column:paid_at"`
	RefundedAt    *time.Time       `gorm:"column:refunded_at"`
}

func (bookingPaymentModel) TableName() string { return "booking_payments" }

func toDomainPayment(m bookingPaymentModel) *domain.BookingPayment {
	var txID, failure, refundReason string
	if m.TransactionID != nil {
		txID = *m.TransactionID
	}
	if m.FailureReason != nil {
		failure = *m.FailureReason
	}
	if m.RefundReason != nil {
		refundReason = *m.RefundReason
	}

	return &domain.BookingPayment{
		ID:            m.ID,
		BookingID:     m.BookingID,
		Amount:        m.Amount,
		Currency:      m.Currency,
		Method:        domain.PaymentMethod(m.Method),
		Provider:      m.Provider,
		TransactionID: txID,
		Status:        domain.PaymentStatus(m.Status),
		FailureReason: failure,
		RefundAmount:  m.RefundAmount,
		RefundReason:  refundReason,
		CreatedAt:     m.CreatedAt,
		PaidAt:        m.PaidAt,
		RefundedAt:    m.RefundedAt,
	}
}

func toPaymentModel(p *domain.BookingPayment) bookingPaymentModel {
	var txID, failure, refundReason *string
	if p.TransactionID != "" {
		v := p.TransactionID
		txID = &v
	}
	if p.FailureReason != "" {
		v := p.FailureReason
		failure = &v
	}
	if p.RefundReason != "" {
		v := p.RefundReason
		refundReason = &v
	}

	return bookingPaymentModel{
		ID:            p.ID,
		BookingID:     p.BookingID,
		Amount:        p.Amount,
		Currency:      p.Currency,
		Method:        string(p.Method),
		Provider:      p.Provider,
		TransactionID: txID,
		Status:        string(p.Status),
		FailureReason: failure,
		RefundAmount:  p.RefundAmount,
		RefundReason:  refundReason,
		CreatedAt:     p.CreatedAt,
		PaidAt:        p.PaidAt,
		RefundedAt:    p.RefundedAt,
	}
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.BookingPayment) error {
	m := toPaymentModel(p)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*p = *toDomainPayment(m)
	return nil
}

// GetPaidByBooking returns the single succeeded, not-yet-refunded payment
// for the booking, or gorm.ErrRecordNotFound.
func (r *PaymentRepository) GetPaidByBooking(ctx context.Context, bookingID uuid.UUID) (*domain.BookingPayment, error) {
	var m bookingPaymentModel
	tx := r.db.WithContext(ctx).
		Where("booking_id = ? AND status = ?", bookingID, string(domain.PaymentPaid)).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainPayment(m), nil
}

func (r *PaymentRepository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]domain.BookingPayment, error) {
	var rows []bookingPaymentModel
	tx := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at DESC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.BookingPayment, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainPayment(m))
	}
	return out, nil
}

func (r *PaymentRepository) MarkPaid(ctx context.Context, id uuid.UUID, transactionID string) error {
	now := time.Now().UTC()
	tx := r.db.WithContext(ctx).Model(&bookingPaymentModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         string(domain.PaymentPaid),
			"transaction_id": transactionID,
			"paid_at":        now,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PaymentRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	tx := r.db.WithContext(ctx).Model(&bookingPaymentModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         string(domain.PaymentFailed),
			"failure_reason": reason,
		})
	return tx.Error
}

func (r *PaymentRepository) MarkRefunded(ctx context.Context, id uuid.UUID, status domain.PaymentStatus, amount decimal.Decimal, reason string) error {
	now := time.Now().UTC()
	tx := r.db.WithContext(ctx).Model(&bookingPaymentModel{}).
		Where("id = ? AND status = ?", id, string(domain.PaymentPaid)).
		Updates(map[string]interface{}{
			"status":        string(status),
			"refund_amount": amount,
			"refund_reason": reason,
			"refunded_at":   now,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
