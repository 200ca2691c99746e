package service

import "errors"

var (
	// ErrInvalidBookingID is returned when a booking ID is empty.
	ErrInvalidBookingID = errors.New("invalid booking id")

	// ErrInvalidTripID is returned when a trip ID is missing or non-positive.
	ErrInvalidTripID = errors.New("invalid trip id")

	// ErrSeatNotChosen is returned when a booking is submitted without a seat.
	ErrSeatNotChosen = errors.New("must choose one seat")

	// ErrInvalidSeatNumber is returned when a seat code is not an addressable
	// slot for the trip's coach type.
	ErrInvalidSeatNumber = errors.New("invalid seat number")

	// ErrMissingCustomerName is returned when first or last name is empty.
	ErrMissingCustomerName = errors.New("customer name required")

	// ErrInvalidPhone is returned when the contact phone fails validation.
	ErrInvalidPhone = errors.New("invalid phone number")

	// ErrInvalidEmail is returned when the contact email fails validation.
	ErrInvalidEmail = errors.New("invalid email")

	// ErrMissingPickUpAddress is returned when the pickup address is empty.
	ErrMissingPickUpAddress = errors.New("pickup address required")

	// ErrInvalidPaymentMethod is returned when the payment method is unknown.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// ErrInvalidBookingType is returned when the booking type is unknown.
	ErrInvalidBookingType = errors.New("invalid booking type")

	// ErrInvalidBookingStatus is returned when a requested payment status is
	// not one of UNPAID/PAID.
	ErrInvalidBookingStatus = errors.New("invalid booking status")

	// ErrAlreadyCancelled is returned on a second cancel of the same booking.
	ErrAlreadyCancelled = errors.New("booking already cancelled")

	// ErrBookingCancelled is returned when mutating a cancelled booking.
	ErrBookingCancelled = errors.New("booking is cancelled")

	// ErrChangeLocked is returned when changing trip or seat on a booking
	// that has already been changed once.
	ErrChangeLocked = errors.New("booking already changed once")
)
