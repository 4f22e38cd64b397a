package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"travelbooking/internal/domain"
	"travelbooking/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// memBookingRepo is an in-memory BookingRepository used for adjacency and
// concurrency tests, where a stateful overlap check matters.
type memBookingRepo struct {
	mu       sync.Mutex
	bookings []*domain.Booking
}

func (r *memBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *b
	r.bookings = append(r.bookings, &cp)
	return nil
}

func (r *memBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.ID == id {
			cp := *b
			return &cp, nil
		}
	}
	return nil, context.Canceled
}

func (r *memBookingRepo) CountOverlapping(ctx context.Context, accommodationID uuid.UUID, checkIn, checkOut time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, b := range r.bookings {
		if b.AccommodationID != accommodationID {
			continue
		}
		if b.Status != domain.BookingPending && b.Status != domain.BookingConfirmed {
			continue
		}
		if domain.Overlaps(b.CheckInDate, b.CheckOutDate, checkIn, checkOut) {
			n++
		}
	}
	return n, nil
}

func (r *memBookingRepo) UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.ID == id && b.Status == from {
			b.Status = to
			return nil
		}
	}
	return context.Canceled
}

func (r *memBookingRepo) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) error {
	return nil
}

func (r *memBookingRepo) ListByGuest(ctx context.Context, guestID uuid.UUID, limit, offset int) ([]domain.Booking, error) {
	return nil, nil
}

func (r *memBookingRepo) ListByAccommodation(ctx context.Context, accommodationID uuid.UUID, status domain.BookingStatus, limit, offset int) ([]domain.Booking, error) {
	return nil, nil
}

func (r *memBookingRepo) StatsBySupplier(ctx context.Context, supplierID uuid.UUID) (*repository.SupplierStats, error) {
	return nil, nil
}

func newAvailabilityEnv(repo *memBookingRepo) (*Service, *domain.Accommodation) {
	acc := testAccommodation(uuid.New())
	catalog := new(MockCatalog)
	catalog.On("GetByID", mock.Anything, acc.ID).Return(acc, nil)
	fees := new(MockFeeProvider)
	fees.On("GetActiveConfig", mock.Anything).Return(testConfig(), nil)

	svc := NewService(repo, new(MockPaymentRepository), catalog, new(MockIdentity), fees, new(MockGateway), nil, nil)
	svc.now = func() time.Time { return testNow }
	return svc, acc
}

func day(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

func createReq(accID uuid.UUID, checkIn, checkOut time.Time) CreateBookingRequest {
	return CreateBookingRequest{
		GuestID:         uuid.New(),
		AccommodationID: accID,
		CheckInDate:     checkIn,
		CheckOutDate:    checkOut,
		Adults:          2,
	}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                 string
		aIn, aOut, bIn, bOut int
		want                 bool
	}{
		{"identical", 5, 8, 5, 8, true},
		{"partial overlap", 5, 8, 7, 10, true},
		{"contained", 5, 10, 6, 8, true},
		{"adjacent after", 5, 8, 8, 11, false},
		{"adjacent before", 8, 11, 5, 8, false},
		{"disjoint", 5, 8, 9, 12, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.Overlaps(day(tc.aIn), day(tc.aOut), day(tc.bIn), day(tc.bOut))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCreateBooking_BackToBackStaysAllowed(t *testing.T) {
	repo := &memBookingRepo{}
	svc, acc := newAvailabilityEnv(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, createReq(acc.ID, day(5), day(8)))
	assert.NoError(t, err)

	// Check-in on the previous stay's check-out day is not a conflict.
	_, err = svc.Create(ctx, createReq(acc.ID, day(8), day(11)))
	assert.NoError(t, err)

	// One shared night is.
	_, err = svc.Create(ctx, createReq(acc.ID, day(7), day(9)))
	assert.ErrorIs(t, err, ErrDateRangeConflict)
}

func TestCreateBooking_CancelledStayFreesDates(t *testing.T) {
	repo := &memBookingRepo{}
	svc, acc := newAvailabilityEnv(repo)
	ctx := context.Background()

	first, err := svc.Create(ctx, createReq(acc.ID, day(5), day(8)))
	assert.NoError(t, err)

	_, err = svc.Create(ctx, createReq(acc.ID, day(5), day(8)))
	assert.ErrorIs(t, err, ErrDateRangeConflict)

	// Cancelled bookings stop occupying their dates.
	err = repo.UpdateStatusFrom(ctx, first.ID, domain.BookingPending, domain.BookingCancelled, nil)
	assert.NoError(t, err)

	_, err = svc.Create(ctx, createReq(acc.ID, day(5), day(8)))
	assert.NoError(t, err)
}

func TestCreateBooking_ConcurrentSameRange(t *testing.T) {
	repo := &memBookingRepo{}
	svc, acc := newAvailabilityEnv(repo)

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(context.Background(), createReq(acc.ID, day(5), day(8)))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case err == ErrDateRangeConflict:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok, "exactly one attempt wins")
	assert.Equal(t, attempts-1, conflicts)
	assert.Len(t, repo.bookings, 1)
}

func TestCreateBooking_ConcurrentDisjointRanges(t *testing.T) {
	repo := &memBookingRepo{}
	svc, acc := newAvailabilityEnv(repo)

	ranges := [][2]int{{2, 5}, {5, 8}, {8, 11}, {11, 14}}
	errs := make(chan error, len(ranges))
	var wg sync.WaitGroup
	for _, r := range ranges {
		wg.Add(1)
		go func(in, out int) {
			defer wg.Done()
			_, err := svc.Create(context.Background(), createReq(acc.ID, day(in), day(out)))
			errs <- err
		}(r[0], r[1])
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Len(t, repo.bookings, len(ranges))
}
