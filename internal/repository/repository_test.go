package repository

import (
	"context"
	"testing"
	"time"

	"travelbooking/internal/database"
	"travelbooking/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *testDB {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return &testDB{
		bookings:   NewBookingRepository(db),
		feeConfigs: NewFeeConfigRepository(db),
		payments:   NewPaymentRepository(db),
		disputes:   NewDisputeRepository(db),
	}
}

type testDB struct {
	bookings   *BookingRepository
	feeConfigs *FeeConfigRepository
	payments   *PaymentRepository
	disputes   *DisputeRepository
}

func seedBooking(t *testing.T, db *testDB, status domain.BookingStatus, checkIn, checkOut time.Time) *domain.Booking {
	t.Helper()
	now := time.Now().UTC()
	b := &domain.Booking{
		ID:                uuid.New(),
		GuestID:           uuid.New(),
		AccommodationID:   uuid.New(),
		CheckInDate:       checkIn,
		CheckOutDate:      checkOut,
		Nights:            domain.NightsBetween(checkIn, checkOut),
		TotalGuests:       2,
		Adults:            2,
		BasePricePerNight: decimal.NewFromInt(100),
		TotalBasePrice:    decimal.NewFromInt(300),
		ServiceFee:        decimal.NewFromInt(30),
		CleaningFee:       decimal.NewFromInt(15),
		TaxAmount:         decimal.NewFromFloat(27.60),
		DiscountAmount:    decimal.Zero,
		TotalPrice:        decimal.NewFromFloat(372.60),
		Currency:          "EUR",
		Status:            status,
		PaymentStatus:     domain.PaymentPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	require.NoError(t, db.bookings.Create(context.Background(), b))
	return b
}

func TestBookingRepo_CountOverlapping(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	checkIn := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)
	b := seedBooking(t, db, domain.BookingPending, checkIn, checkOut)

	// Overlap on a shared night.
	cnt, err := db.bookings.CountOverlapping(ctx, b.AccommodationID,
		time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.EqualValues(t, 1, cnt)

	// Back-to-back range sharing only the boundary day.
	cnt, err = db.bookings.CountOverlapping(ctx, b.AccommodationID,
		checkOut, time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.EqualValues(t, 0, cnt)

	// Different accommodation.
	cnt, err = db.bookings.CountOverlapping(ctx, uuid.New(), checkIn, checkOut)
	assert.NoError(t, err)
	assert.EqualValues(t, 0, cnt)
}

func TestBookingRepo_CancelledDoesNotOccupy(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	checkIn := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)
	b := seedBooking(t, db, domain.BookingCancelled, checkIn, checkOut)

	cnt, err := db.bookings.CountOverlapping(ctx, b.AccommodationID, checkIn, checkOut)
	assert.NoError(t, err)
	assert.EqualValues(t, 0, cnt)
}

func TestBookingRepo_GuardedStatusUpdate(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	b := seedBooking(t, db, domain.BookingPending,
		time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC))

	err := db.bookings.UpdateStatusFrom(ctx, b.ID, domain.BookingPending, domain.BookingConfirmed, nil)
	assert.NoError(t, err)

	// The guard misses now that the row is no longer pending.
	err = db.bookings.UpdateStatusFrom(ctx, b.ID, domain.BookingPending, domain.BookingRejected, nil)
	assert.True(t, IsNotFound(err))

	got, err := db.bookings.GetByID(ctx, b.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, got.Status)
}

func TestFeeConfigRepo_SingleActive(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	mkConfig := func() *domain.FeeConfig {
		now := time.Now().UTC()
		return &domain.FeeConfig{
			ID:                    uuid.New(),
			ServiceFeePercentage:  decimal.NewFromInt(10),
			CleaningFeePercentage: decimal.NewFromInt(5),
			TaxRate:               decimal.NewFromFloat(0.08),
			CreatedAt:             now,
			UpdatedAt:             now,
		}
	}

	first := mkConfig()
	require.NoError(t, db.feeConfigs.CreateActive(ctx, first))

	second := mkConfig()
	require.NoError(t, db.feeConfigs.CreateActive(ctx, second))

	active, err := db.feeConfigs.GetActive(ctx)
	assert.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	// Reactivating the first deactivates the second.
	_, err = db.feeConfigs.Activate(ctx, first.ID)
	assert.NoError(t, err)

	active, err = db.feeConfigs.GetActive(ctx)
	assert.NoError(t, err)
	assert.Equal(t, first.ID, active.ID)

	all, err := db.feeConfigs.List(ctx)
	assert.NoError(t, err)
	var activeCount int
	for _, c := range all {
		if c.Active {
			activeCount++
		}
	}
	assert.Equal(t, 1, activeCount)
}

func TestFeeConfigRepo_GetActiveEmpty(t *testing.T) {
	db := setupDB(t)
	_, err := db.feeConfigs.GetActive(context.Background())
	assert.True(t, IsNotFound(err))
}

func TestPaymentRepo_Lifecycle(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	b := seedBooking(t, db, domain.BookingPending,
		time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC))

	p := &domain.BookingPayment{
		ID:        uuid.New(),
		BookingID: b.ID,
		Amount:    b.TotalPrice,
		Currency:  "EUR",
		Method:    domain.MethodCard,
		Provider:  "stripe",
		Status:    domain.PaymentPending,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, db.payments.Create(ctx, p))

	// No paid payment yet.
	_, err := db.payments.GetPaidByBooking(ctx, b.ID)
	assert.True(t, IsNotFound(err))

	require.NoError(t, db.payments.MarkPaid(ctx, p.ID, "tx-99"))

	paid, err := db.payments.GetPaidByBooking(ctx, b.ID)
	assert.NoError(t, err)
	assert.Equal(t, "tx-99", paid.TransactionID)
	assert.Equal(t, domain.PaymentPaid, paid.Status)

	require.NoError(t, db.payments.MarkRefunded(ctx, p.ID, domain.PaymentRefunded, b.TotalPrice, "cancelled"))

	// Refunded payments no longer count as paid.
	_, err = db.payments.GetPaidByBooking(ctx, b.ID)
	assert.True(t, IsNotFound(err))

	// Refunding twice hits the status guard.
	err = db.payments.MarkRefunded(ctx, p.ID, domain.PaymentRefunded, b.TotalPrice, "again")
	assert.True(t, IsNotFound(err))
}

func TestDisputeRepo_ResolveGuard(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	now := time.Now().UTC()
	d := &domain.Dispute{
		ID:          uuid.New(),
		BookingID:   uuid.New(),
		InitiatorID: uuid.New(),
		Reason:      "damage claim",
		Status:      domain.DisputeOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, db.disputes.Create(ctx, d))

	admin := uuid.New()
	require.NoError(t, db.disputes.Resolve(ctx, d.ID, "deposit withheld", admin))

	got, err := db.disputes.GetByID(ctx, d.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.DisputeResolved, got.Status)
	assert.Equal(t, "deposit withheld", got.Resolution)

	err = db.disputes.Resolve(ctx, d.ID, "changed my mind", admin)
	assert.True(t, IsNotFound(err))
}
