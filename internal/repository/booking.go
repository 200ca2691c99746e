package repository

import (
	"context"

	"coachbooking/internal/domain"
)

// BookingRepository defines the persistence operations for bookings and
// their status histories.
type BookingRepository interface {
	// Create persists a new booking together with its initial status
	// history entry. The seat-assignment write is conditional: it fails
	// with ErrSeatTaken if another non-cancelled booking already holds
	// the (trip, seat) pair at commit time.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking with its full status history.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// GetActiveByTripID retrieves every non-cancelled booking for a trip.
	// Always reads the authoritative store; results are never cached.
	GetActiveByTripID(ctx context.Context, tripID int64) ([]*domain.Booking, error)

	// UpdateWithHistory updates a booking and, when entry is non-nil,
	// appends the status history entry in the same transaction, so a
	// booking never holds a status without a matching history record.
	// The seat-assignment write carries the same conditional guard as
	// Create, excluding the booking's own row.
	UpdateWithHistory(ctx context.Context, booking *domain.Booking, entry *domain.BookingStatusHistoryEntry) error
}
