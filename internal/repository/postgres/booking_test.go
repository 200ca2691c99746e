package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestSeatConflict(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "active seat index violation",
			err:      &pq.Error{Code: "23505", Constraint: "bookings_active_seat"},
			expected: true,
		},
		{
			name:     "wrapped index violation",
			err:      fmt.Errorf("exec: %w", &pq.Error{Code: "23505", Constraint: "bookings_active_seat"}),
			expected: true,
		},
		{
			name:     "unique violation on another constraint",
			err:      &pq.Error{Code: "23505", Constraint: "bookings_pkey"},
			expected: false,
		},
		{
			name:     "foreign key violation",
			err:      &pq.Error{Code: "23503", Constraint: "bookings_trip_id_fkey"},
			expected: false,
		},
		{
			name:     "plain error",
			err:      errors.New("connection reset"),
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := seatConflict(tt.err); got != tt.expected {
				t.Errorf("seatConflict(%v): expected %v, got %v", tt.err, tt.expected, got)
			}
		})
	}
}
