package service

import (
	"context"
	"sort"

	"coachbooking/internal/domain"
	"coachbooking/internal/repository"
)

// AvailabilityService computes which seats are free for a trip. Every call
// reads the authoritative booking store; nothing is cached across requests,
// since a stale read would reintroduce double-booking.
type AvailabilityService struct {
	bookingRepo repository.BookingRepository
}

// NewAvailabilityService creates a new AvailabilityService.
func NewAvailabilityService(bookingRepo repository.BookingRepository) *AvailabilityService {
	return &AvailabilityService{bookingRepo: bookingRepo}
}

// Availability is the seat partition for one trip at one instant.
type Availability struct {
	AvailableSeats []string
	HeldSeats      []string
}

// HeldSeats returns every seat code referenced by a non-cancelled booking
// for the trip, sorted.
func (s *AvailabilityService) HeldSeats(ctx context.Context, tripID int64) ([]string, error) {
	bookings, err := s.bookingRepo.GetActiveByTripID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	seats := make([]string, 0, len(bookings))
	for _, b := range bookings {
		seats = append(seats, b.SeatNumber)
	}
	sort.Strings(seats)
	return seats, nil
}

// AvailableSeats partitions the trip's addressable seats into available and
// held. When current is non-nil and references the same trip, the booking's
// own seat is treated as available to itself: re-selecting the same seat is
// not a conflict.
func (s *AvailabilityService) AvailableSeats(ctx context.Context, trip *domain.Trip, current *domain.Booking) (*Availability, error) {
	layout, err := domain.LayoutFor(trip.Coach.CoachType)
	if err != nil {
		return nil, err
	}

	held, err := s.HeldSeats(ctx, trip.ID)
	if err != nil {
		return nil, err
	}

	heldSet := make(map[string]struct{}, len(held))
	for _, code := range held {
		heldSet[code] = struct{}{}
	}
	if current != nil && current.TripID == trip.ID {
		delete(heldSet, current.SeatNumber)
	}

	avail := &Availability{}
	for _, code := range layout.AddressableSeats() {
		if _, taken := heldSet[code]; taken {
			avail.HeldSeats = append(avail.HeldSeats, code)
		} else {
			avail.AvailableSeats = append(avail.AvailableSeats, code)
		}
	}
	return avail, nil
}

// IsSeatFree reports whether the seat is free for the trip right now,
// with the same own-seat carve-out as AvailableSeats.
func (s *AvailabilityService) IsSeatFree(ctx context.Context, trip *domain.Trip, seatCode string, current *domain.Booking) (bool, error) {
	avail, err := s.AvailableSeats(ctx, trip, current)
	if err != nil {
		return false, err
	}
	for _, code := range avail.AvailableSeats {
		if code == seatCode {
			return true, nil
		}
	}
	return false, nil
}
