package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrSeatTaken is returned when the conditional seat-assignment write
	// finds another active booking holding the (trip, seat) pair.
	ErrSeatTaken = errors.New("seat already taken")
)
