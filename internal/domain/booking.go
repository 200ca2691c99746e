package domain

import "time"

// BookingStatus is the payment/lifecycle status of a booking.
type BookingStatus string

const (
	BookingStatusUnpaid  BookingStatus = "UNPAID"
	BookingStatusPaid    BookingStatus = "PAID"
	BookingStatusChanged BookingStatus = "CHANGED"
	BookingStatusCancel  BookingStatus = "CANCEL"
)

// BookingType distinguishes one-way from round-trip tickets.
type BookingType string

const (
	BookingTypeOneWay    BookingType = "ONEWAY"
	BookingTypeRoundTrip BookingType = "ROUNDTRIP"
)

// PaymentMethod represents how the customer pays.
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "CASH"
	PaymentMethodCard PaymentMethod = "CARD"
)

// BookingStatusHistoryEntry records one status transition. The history is
// append-only; entries are never edited or removed.
type BookingStatusHistoryEntry struct {
	OldStatus BookingStatus
	NewStatus BookingStatus
	CreatedAt time.Time
}

// Booking is the unit of seat occupancy: a seat is held for a trip if and
// only if a non-cancelled booking references that (trip, seat) pair.
type Booking struct {
	ID            string
	Code          string
	CustFirstName string
	CustLastName  string
	Phone         string
	Email         string
	TripID        int64
	SeatNumber    string
	BookingType   BookingType
	PickUpAddress string
	PaymentMethod PaymentMethod
	Status        BookingStatus
	Note          string
	StatusHistory []BookingStatusHistoryEntry
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// EffectiveStatus derives the payment status in force from the status
// history, scanning from most recent to oldest. A CHANGED entry resolves to
// the status in force immediately before the change. An empty history
// defaults to UNPAID.
func (b *Booking) EffectiveStatus() BookingStatus {
	for i := len(b.StatusHistory) - 1; i >= 0; i-- {
		entry := b.StatusHistory[i]
		if entry.NewStatus == BookingStatusChanged {
			if entry.OldStatus != "" {
				return entry.OldStatus
			}
			return BookingStatusUnpaid
		}
		if entry.NewStatus != "" {
			return entry.NewStatus
		}
	}
	return BookingStatusUnpaid
}

// EverChanged reports whether any entry in the status history carries a
// CHANGED marker. Once a booking has been changed, further trip/seat edits
// are forbidden.
func (b *Booking) EverChanged() bool {
	for _, entry := range b.StatusHistory {
		if entry.NewStatus == BookingStatusChanged || entry.OldStatus == BookingStatusChanged {
			return true
		}
	}
	return false
}

// IsCancelled reports whether the booking has been cancelled.
func (b *Booking) IsCancelled() bool {
	return b.Status == BookingStatusCancel
}

// ValidBookingStatus reports whether s is a known booking status.
func ValidBookingStatus(s BookingStatus) bool {
	switch s {
	case BookingStatusUnpaid, BookingStatusPaid, BookingStatusChanged, BookingStatusCancel:
		return true
	default:
		return false
	}
}

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m PaymentMethod) bool {
	return m == PaymentMethodCash || m == PaymentMethodCard
}

// ValidBookingType reports whether t is a known booking type.
func ValidBookingType(t BookingType) bool {
	return t == BookingTypeOneWay || t == BookingTypeRoundTrip
}
