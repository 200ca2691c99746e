package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"coachbooking/internal/domain"
	"coachbooking/internal/repository"
)

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
type TripRepository struct {
	q Querier
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{q: db}
}

const tripColumns = `
		t.id, t.departure_datetime, t.coach_id, t.price, t.duration_hours,
		src.id, src.name, dst.id, dst.name,
		d.id, d.amount, d.percent, d.start_date, d.end_date
`

const tripJoins = `
		FROM trips t
		JOIN provinces src ON src.id = t.source_id
		JOIN provinces dst ON dst.id = t.dest_id
		LEFT JOIN discounts d ON d.id = t.discount_id
`

// GetByID retrieves a trip with its locations and discount joined. The
// coach is resolved separately through CoachRepository.
func (r *TripRepository) GetByID(ctx context.Context, id int64) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + tripJoins + ` WHERE t.id = $1`

	trip, err := scanTrip(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return trip, nil
}

// Search retrieves trips by source, destination and departure date range.
func (r *TripRepository) Search(ctx context.Context, sourceID, destID int64, from, to time.Time) ([]*domain.Trip, error) {
	query := `SELECT ` + tripColumns + tripJoins + `
		WHERE t.source_id = $1 AND t.dest_id = $2
		AND t.departure_datetime >= $3 AND t.departure_datetime < $4
		ORDER BY t.departure_datetime
	`

	rows, err := r.q.QueryContext(ctx, query, sourceID, destID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*domain.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}
	return trips, rows.Err()
}

func scanTrip(row rowScanner) (*domain.Trip, error) {
	var trip domain.Trip
	var duration sql.NullFloat64
	var discountID sql.NullInt64
	var discountAmount sql.NullInt64
	var discountPercent sql.NullFloat64
	var discountStart, discountEnd sql.NullTime

	err := row.Scan(
		&trip.ID,
		&trip.DepartureDateTime,
		&trip.CoachID,
		&trip.Price,
		&duration,
		&trip.Source.ID,
		&trip.Source.Name,
		&trip.Destination.ID,
		&trip.Destination.Name,
		&discountID,
		&discountAmount,
		&discountPercent,
		&discountStart,
		&discountEnd,
	)
	if err != nil {
		return nil, err
	}

	if duration.Valid {
		trip.DurationHours = duration.Float64
	}

	if discountID.Valid {
		discount := &domain.Discount{ID: discountID.Int64}
		if discountAmount.Valid {
			discount.Amount = discountAmount.Int64
		}
		if discountPercent.Valid {
			discount.Percent = discountPercent.Float64
		}
		if discountStart.Valid {
			discount.StartDate = discountStart.Time
		}
		if discountEnd.Valid {
			discount.EndDate = discountEnd.Time
		}
		trip.Discount = discount
	}

	return &trip, nil
}
