package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"coachbooking/internal/domain"
	"coachbooking/internal/repository"
)

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
//
// Double-booking is prevented by two layers. The seat-assignment writes
// carry a NOT EXISTS pre-check on "another active booking holds this
// (trip, seat)", which fails fast in the common case. That check alone is
// not race-proof under READ COMMITTED: two transactions can each snapshot
// before the other commits and both pass it. The authoritative guard is the
// bookings_active_seat partial unique index (see migrations/schema.sql) —
// UNIQUE (trip_id, seat_number) WHERE booking_status <> 'CANCEL' — whose
// violation the race loser receives at commit and which is mapped to
// ErrSeatTaken here.
type BookingRepository struct {
	db *sql.DB
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const seatGuard = `
		NOT EXISTS (
			SELECT 1 FROM bookings b
			WHERE b.trip_id = $1 AND b.seat_number = $2 AND b.booking_status <> 'CANCEL'
		)`

// Create persists a new booking and its initial status history entry in a
// single transaction. Fails with repository.ErrSeatTaken if the seat was
// claimed by another active booking between selection and commit.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query := `
		INSERT INTO bookings (id, code, cust_first_name, cust_last_name, phone, email, trip_id, seat_number, booking_type, pick_up_address, payment_method, booking_status, note, created_at, updated_at)
		SELECT $3, $4, $5, $6, $7, $8, $1, $2, $9, $10, $11, $12, $13, $14, $15
		WHERE ` + seatGuard

	result, err := tx.ExecContext(ctx, query,
		booking.TripID,
		booking.SeatNumber,
		booking.ID,
		booking.Code,
		booking.CustFirstName,
		booking.CustLastName,
		booking.Phone,
		booking.Email,
		booking.BookingType,
		booking.PickUpAddress,
		booking.PaymentMethod,
		booking.Status,
		booking.Note,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		if seatConflict(err) {
			err = repository.ErrSeatTaken
		}
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		err = repository.ErrSeatTaken
		return err
	}

	for _, entry := range booking.StatusHistory {
		if err = insertHistory(ctx, tx, booking.ID, entry); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetByID retrieves a booking with its full status history.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `
		SELECT id, code, cust_first_name, cust_last_name, phone, email, trip_id, seat_number, booking_type, pick_up_address, payment_method, booking_status, note, created_at, updated_at
		FROM bookings WHERE id = $1
	`

	booking, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}

	history, err := r.historyFor(ctx, id)
	if err != nil {
		return nil, err
	}
	booking.StatusHistory = history

	return booking, nil
}

// GetActiveByTripID retrieves every non-cancelled booking for a trip.
// Status histories are not loaded; availability only needs (seat, status).
func (r *BookingRepository) GetActiveByTripID(ctx context.Context, tripID int64) ([]*domain.Booking, error) {
	query := `
		SELECT id, code, cust_first_name, cust_last_name, phone, email, trip_id, seat_number, booking_type, pick_up_address, payment_method, booking_status, note, created_at, updated_at
		FROM bookings WHERE trip_id = $1 AND booking_status <> 'CANCEL'
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

// UpdateWithHistory updates a booking and appends the given status history
// entry in one transaction. The update carries the conditional seat guard,
// excluding the booking's own row so that re-selecting the current seat is
// not a conflict.
func (r *BookingRepository) UpdateWithHistory(ctx context.Context, booking *domain.Booking, entry *domain.BookingStatusHistoryEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query := `
		UPDATE bookings
		SET trip_id = $1, seat_number = $2, booking_status = $3, note = $4, pick_up_address = $5, payment_method = $6, updated_at = $7
		WHERE id = $8
		AND NOT EXISTS (
			SELECT 1 FROM bookings b
			WHERE b.trip_id = $1 AND b.seat_number = $2 AND b.booking_status <> 'CANCEL' AND b.id <> $8
		)
	`

	result, err := tx.ExecContext(ctx, query,
		booking.TripID,
		booking.SeatNumber,
		booking.Status,
		booking.Note,
		booking.PickUpAddress,
		booking.PaymentMethod,
		booking.UpdatedAt,
		booking.ID,
	)
	if err != nil {
		if seatConflict(err) {
			err = repository.ErrSeatTaken
		}
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		// Distinguish a missing booking from a lost seat race.
		var exists bool
		if err = tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE id = $1)`, booking.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			err = repository.ErrNotFound
		} else {
			err = repository.ErrSeatTaken
		}
		return err
	}

	if entry != nil {
		if err = insertHistory(ctx, tx, booking.ID, *entry); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// seatConflict reports whether err is a violation of the
// bookings_active_seat partial unique index, i.e. a lost seat race.
func seatConflict(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "23505" && pqErr.Constraint == "bookings_active_seat"
}

func insertHistory(ctx context.Context, q Querier, bookingID string, entry domain.BookingStatusHistoryEntry) error {
	query := `
		INSERT INTO booking_status_histories (booking_id, old_status, new_status, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := q.ExecContext(ctx, query, bookingID, entry.OldStatus, entry.NewStatus, entry.CreatedAt)
	return err
}

func (r *BookingRepository) historyFor(ctx context.Context, bookingID string) ([]domain.BookingStatusHistoryEntry, error) {
	query := `
		SELECT old_status, new_status, created_at
		FROM booking_status_histories
		WHERE booking_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []domain.BookingStatusHistoryEntry
	for rows.Next() {
		var entry domain.BookingStatusHistoryEntry
		if err := rows.Scan(&entry.OldStatus, &entry.NewStatus, &entry.CreatedAt); err != nil {
			return nil, err
		}
		history = append(history, entry)
	}
	return history, rows.Err()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var note sql.NullString

	err := row.Scan(
		&booking.ID,
		&booking.Code,
		&booking.CustFirstName,
		&booking.CustLastName,
		&booking.Phone,
		&booking.Email,
		&booking.TripID,
		&booking.SeatNumber,
		&booking.BookingType,
		&booking.PickUpAddress,
		&booking.PaymentMethod,
		&booking.Status,
		&note,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if note.Valid {
		booking.Note = note.String
	}

	return &booking, nil
}
