package repository

import (
	"context"
	"errors"
	"time"

	"travelbooking/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID                 uuid.UUID        `gorm:"column:id;primaryKey"`
	GuestID            uuid.UUID        `gorm:"column:guest_id"`
	AccommodationID    uuid.UUID        `gorm:"column:accommodation_id"`
	CheckInDate        time.Time        `gorm:"column:check_in_date"`
	CheckOutDate       time.Time        `gorm:"column:check_out_date"`
	Nights             int              `gorm:"column:nights"`
	TotalGuests        int              `gorm:"column:total_guests"`
	Adults             int              `gorm:"column:adults"`
	Children           int              `gorm:"column:children"`
	Infants            int              `gorm:"column:infants"`
	BasePricePerNight  decimal.Decimal  `gorm:"column:base_price_per_night"`
	TotalBasePrice     decimal.Decimal  `gorm:"column:total_base_price"`
	ServiceFee         decimal.Decimal  `gorm:"column:service_fee"`
	CleaningFee        decimal.Decimal  `gorm:"column:cleaning_fee"`
	TaxAmount          decimal.Decimal  `gorm:"column:tax_amount"`
	DiscountAmount     decimal.Decimal  `gorm:"column:discount_amount"`
	TotalPrice         decimal.Decimal  `gorm:"column:total_price"`
	Currency           string           `gorm:"column:currency"`
	Status             string           `gorm:"column:status"`
	PaymentStatus      string           `gorm:"column:payment_status"`
	CancellationReason *string          `gorm:"column:cancellation_reason"`
	CancelledAt        *time.Time       `gorm:"column:cancelled_at"`
	CancelledBy        *uuid.UUID       `gorm:"column:cancelled_by"`
	SpecialRequests    *string          `gorm:"column:special_requests"`
	CreatedAt          time.Time        `gorm:"column:created_at"`
	UpdatedAt          time.Time        `gorm:"column:updated_at"`
	ConfirmedAt        *time.Time       `gorm:"column:confirmed_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	var reason, requests string
	if m.CancellationReason != nil {
		reason = *m.CancellationReason
	}
	if m.SpecialRequests != nil {
		requests = *m.SpecialRequests
	}

	return &domain.Booking{
		ID:                 m.ID,
		GuestID:            m.GuestID,
		AccommodationID:    m.AccommodationID,
		CheckInDate:        m.CheckInDate,
		CheckOutDate:       m.CheckOutDate,
		Nights:             m.Nights,
		TotalGuests:        m.TotalGuests,
		Adults:             m.Adults,
		Children:           m.Children,
		Infants:            m.Infants,
		BasePricePerNight:  m.BasePricePerNight,
		TotalBasePrice:     m.TotalBasePrice,
		ServiceFee:         m.ServiceFee,
		CleaningFee:        m.CleaningFee,
		TaxAmount:          m.TaxAmount,
		DiscountAmount:     m.DiscountAmount,
		TotalPrice:         m.TotalPrice,
		Currency:           m.Currency,
		Status:             domain.BookingStatus(m.Status),
		PaymentStatus:      domain.PaymentStatus(m.PaymentStatus),
		CancellationReason: reason,
		CancelledAt:        m.CancelledAt,
		CancelledBy:        m.CancelledBy,
		SpecialRequests:    requests,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
		ConfirmedAt:        m.ConfirmedAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	var reason, requests *string
	if b.CancellationReason != "" {
		v := b.CancellationReason
		reason = &v
	}
	if b.SpecialRequests != "" {
		v := b.SpecialRequests
		requests = &v
	}

	return bookingModel{
		ID:                 b.ID,
		GuestID:            b.GuestID,
		AccommodationID:    b.AccommodationID,
		CheckInDate:        b.CheckInDate,
		CheckOutDate:       b.CheckOutDate,
		Nights:             b.Nights,
		TotalGuests:        b.TotalGuests,
		Adults:             b.Adults,
		Children:           b.Children,
		Infants:            b.Infants,
		BasePricePerNight:  b.BasePricePerNight,
		TotalBasePrice:     b.TotalBasePrice,
		ServiceFee:         b.ServiceFee,
		CleaningFee:        b.CleaningFee,
		TaxAmount:          b.TaxAmount,
		DiscountAmount:     b.DiscountAmount,
		TotalPrice:         b.TotalPrice,
		Currency:           b.Currency,
		Status:             string(b.Status),
		PaymentStatus:      string(b.PaymentStatus),
		CancellationReason: reason,
		CancelledAt:        b.CancelledAt,
		CancelledBy:        b.CancelledBy,
		SpecialRequests:    requests,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
		ConfirmedAt:        b.ConfirmedAt,
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).Where("id = ?", id).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

// CountOverlapping counts pending/confirmed bookings whose half-open
// [check_in, check_out) range intersects the candidate range.
func (r *BookingRepository) CountOverlapping(ctx context.Context, accommodationID uuid.UUID, checkIn, checkOut time.Time) (int64, error) {
	var cnt int64
	q := `
SELECT COUNT(1)
FROM bookings
WHERE accommodation_id = ?
  AND status IN ('pending', 'confirmed')
  AND check_in_date < ?
  AND ? < check_out_date
`
	tx := r.db.WithContext(ctx).Raw(q, accommodationID, checkOut, checkIn).Scan(&cnt)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return cnt, nil
}

// UpdateStatusFrom performs the guarded transition "set status to new only if
// it currently equals old". Returns ErrRecordNotFound when the guard misses.
func (r *BookingRepository) UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus, updates map[string]interface{}) error {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = string(to)
	updates["updated_at"] = time.Now().UTC()

	tx := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *BookingRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) error {
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"payment_status": string(status),
			"updated_at":     time.Now().UTC(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *BookingRepository) ListByGuest(ctx context.Context, guestID uuid.UUID, limit, offset int) ([]domain.Booking, error) {
	var rows []bookingModel
	tx := r.db.WithContext(ctx).
		Where("guest_id = ?", guestID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

func (r *BookingRepository) ListByAccommodation(ctx context.Context, accommodationID uuid.UUID, status domain.BookingStatus, limit, offset int) ([]domain.Booking, error) {
	q := r.db.WithContext(ctx).Where("accommodation_id = ?", accommodationID)
	if status != "" {
		q = q.Where("status = ?", string(status))
	}

	var rows []bookingModel
	tx := q.Order("check_in_date ASC").Limit(limit).Offset(offset).Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

type SupplierStats struct {
	TotalBookings     int64
	ConfirmedBookings int64
	CompletedBookings int64
	CancelledBookings int64
	TotalRevenue      decimal.Decimal
}

// StatsBySupplier aggregates booking counts and paid revenue over all
// accommodations owned by the supplier.
func (r *BookingRepository) StatsBySupplier(ctx context.Context, supplierID uuid.UUID) (*SupplierStats, error) {
	var row struct {
		Total     int64
		Confirmed int64
		Completed int64
		Cancelled int64
		Revenue   decimal.NullDecimal
	}
	q := `
SELECT
  COUNT(1) AS total,
  COUNT(CASE WHEN b.status = 'confirmed' THEN 1 END) AS confirmed,
  COUNT(CASE WHEN b.status = 'completed' THEN 1 END) AS completed,
  COUNT(CASE WHEN b.status = 'cancelled' THEN 1 END) AS cancelled,
  SUM(CASE WHEN b.payment_status = 'paid' THEN b.total_price END) AS revenue
FROM bookings b
JOIN accommodations a ON a.id = b.accommodation_id
WHERE a.supplier_id = ?
`
	tx := r.db.WithContext(ctx).Raw(q, supplierID).Scan(&row)
	if tx.Error != nil {
		return nil, tx.Error
	}

	revenue := decimal.Zero
	if row.Revenue.Valid {
		revenue = row.Revenue.Decimal
	}
	return &SupplierStats{
		TotalBookings:     row.Total,
		ConfirmedBookings: row.Confirmed,
		CompletedBookings: row.Completed,
		CancelledBookings: row.Cancelled,
		TotalRevenue:      revenue,
	}, nil
}

// IsNotFound lets callers translate gorm's sentinel without importing gorm.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
