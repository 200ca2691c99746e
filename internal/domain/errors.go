package domain

import "errors"

var (
	// ErrUnknownCoachType is returned when a coach type is not in the fixed enumeration.
	ErrUnknownCoachType = errors.New("unknown coach type")

	// ErrSeatUnavailable is returned when a seat is already held by another active booking.
	ErrSeatUnavailable = errors.New("seat unavailable")

	// ErrSelectionLimitReached is returned when selecting more seats than the booking allows.
	ErrSelectionLimitReached = errors.New("seat selection limit reached")
)
