package domain

import "time"

// Province is a pickup/destination location.
type Province struct {
	ID   int64
	Name string
}

// Discount reduces the payable price of a trip at read time. Amount is an
// absolute VND value; Percent is used when Amount is zero. The stored trip
// price is never mutated by a discount.
type Discount struct {
	ID        int64
	Amount    int64
	Percent   float64
	StartDate time.Time
	EndDate   time.Time
}

// ActiveAt reports whether the discount applies at the given instant. A
// zero validity window means the discount never expires.
func (d *Discount) ActiveAt(t time.Time) bool {
	if !d.StartDate.IsZero() && t.Before(d.StartDate) {
		return false
	}
	if !d.EndDate.IsZero() && t.After(d.EndDate) {
		return false
	}
	return true
}

// Trip represents a scheduled departure. Once seats have been sold against
// it a trip is immutable except through an explicit trip-change operation
// on a specific booking.
type Trip struct {
	ID                int64
	Source            Province
	Destination       Province
	DepartureDateTime time.Time
	CoachID           int64
	Coach             Coach
	Price             int64 // VND
	Discount          *Discount
	DurationHours     float64
}
