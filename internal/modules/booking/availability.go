package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// accommodationLocks serializes check-then-insert per accommodation so two
// concurrent create calls for overlapping dates cannot both pass the
// availability check. Postgres additionally enforces the exclusion
// constraint idx_no_double_booking at commit time.
type accommodationLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newAccommodationLocks() *accommodationLocks {
	return &accommodationLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (l *accommodationLocks) get(id uuid.UUID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}

// hasConflict reports whether any pending/confirmed booking occupies a night
// of the candidate half-open range.
func (s *Service) hasConflict(ctx context.Context, accommodationID uuid.UUID, checkIn, checkOut time.Time) (bool, error) {
	cnt, err := s.bookings.CountOverlapping(ctx, accommodationID, checkIn, checkOut)
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// isConflictConstraintErr maps the database's last line of defence to the
// domain conflict: 23505 for unique violations, 23P01 for exclusion
// constraint violations.
func isConflictConstraintErr(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" || pgErr.Code == "23P01"
	}
	return false
}

// midnightUTC truncates a timestamp to its calendar day.
func midnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
