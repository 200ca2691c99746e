package repository

import (
	"context"
	"time"

	"coachbooking/internal/domain"
)

// TripRepository defines the read operations for trips. Trips are managed
// by the excluded CRUD layer; this service only consumes them.
type TripRepository interface {
	// GetByID retrieves a trip with its discount joined. The coach is
	// resolved separately (see CoachRepository).
	GetByID(ctx context.Context, id int64) (*domain.Trip, error)

	// Search retrieves trips by source, destination and departure date
	// range, ordered by departure time.
	Search(ctx context.Context, sourceID, destID int64, from, to time.Time) ([]*domain.Trip, error)
}

// CoachRepository defines the read operations for coaches.
type CoachRepository interface {
	// GetByID retrieves a coach by ID.
	GetByID(ctx context.Context, id int64) (*domain.Coach, error)
}
