package postgres

import (
	"context"
	"database/sql"
	"errors"

	"coachbooking/internal/domain"
	"coachbooking/internal/repository"
)

// CoachRepository is a PostgreSQL implementation of repository.CoachRepository.
type CoachRepository struct {
	q Querier
}

// NewCoachRepository creates a new PostgreSQL coach repository.
func NewCoachRepository(db *sql.DB) *CoachRepository {
	return &CoachRepository{q: db}
}

// GetByID retrieves a coach by ID.
func (r *CoachRepository) GetByID(ctx context.Context, id int64) (*domain.Coach, error) {
	query := `SELECT id, name, coach_type, capacity FROM coaches WHERE id = $1`

	var coach domain.Coach
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&coach.ID,
		&coach.Name,
		&coach.CoachType,
		&coach.Capacity,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &coach, nil
}
