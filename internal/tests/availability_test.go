package tests

import (
	"context"
	"testing"

	"coachbooking/internal/domain"
	"coachbooking/internal/service"
)

func standardTrip(id int64) *domain.Trip {
	return &domain.Trip{
		ID:      id,
		CoachID: 1,
		Coach:   domain.Coach{ID: 1, Name: "Coach 01", CoachType: domain.CoachTypeStandard, Capacity: 36},
		Price:   450000,
	}
}

func activeBooking(id string, tripID int64, seat string) *domain.Booking {
	return &domain.Booking{
		ID:         id,
		TripID:     tripID,
		SeatNumber: seat,
		Status:     domain.BookingStatusUnpaid,
	}
}

func TestAvailableSeatsPartition(t *testing.T) {
	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(activeBooking("b1", 1, "A3"))
	bookingRepo.AddBooking(activeBooking("b2", 1, "B9"))

	cancelled := activeBooking("b3", 1, "A5")
	cancelled.Status = domain.BookingStatusCancel
	bookingRepo.AddBooking(cancelled)

	// Held seat on another trip must not bleed over.
	bookingRepo.AddBooking(activeBooking("b4", 2, "A1"))

	availability := service.NewAvailabilityService(bookingRepo)
	avail, err := availability.AvailableSeats(context.Background(), standardTrip(1), nil)
	if err != nil {
		t.Fatalf("AvailableSeats returned error: %v", err)
	}

	if len(avail.HeldSeats) != 2 {
		t.Errorf("expected 2 held seats, got %v", avail.HeldSeats)
	}
	if len(avail.AvailableSeats)+len(avail.HeldSeats) != 36 {
		t.Errorf("partition must cover all 36 seats, got %d available + %d held",
			len(avail.AvailableSeats), len(avail.HeldSeats))
	}

	seen := make(map[string]bool)
	for _, code := range avail.AvailableSeats {
		seen[code] = true
	}
	for _, code := range avail.HeldSeats {
		if seen[code] {
			t.Errorf("seat %s appears both available and held", code)
		}
	}
	if seen["A3"] || seen["B9"] {
		t.Error("held seats must not be reported available")
	}
	if !seen["A5"] {
		t.Error("cancelled booking must free its seat")
	}
	if !seen["A1"] {
		t.Error("booking on another trip must not hold the seat")
	}
}

func TestAvailableSeatsOwnSeatCarveOut(t *testing.T) {
	bookingRepo := NewMockBookingRepository()
	current := activeBooking("b1", 1, "A3")
	bookingRepo.AddBooking(current)

	availability := service.NewAvailabilityService(bookingRepo)

	// During an edit of b1 its own seat reads as available.
	free, err := availability.IsSeatFree(context.Background(), standardTrip(1), "A3", current)
	if err != nil {
		t.Fatalf("IsSeatFree returned error: %v", err)
	}
	if !free {
		t.Error("expected booking's own seat to be free to itself")
	}

	// Anyone else still sees it held.
	free, err = availability.IsSeatFree(context.Background(), standardTrip(1), "A3", nil)
	if err != nil {
		t.Fatalf("IsSeatFree returned error: %v", err)
	}
	if free {
		t.Error("expected seat to be held for other sessions")
	}

	// The carve-out does not follow the booking to another trip.
	free, err = availability.IsSeatFree(context.Background(), standardTrip(2), "A3", current)
	if err != nil {
		t.Fatalf("IsSeatFree returned error: %v", err)
	}
	if !free {
		t.Error("expected A3 to be free on an unrelated trip")
	}
}

func TestHeldSeatsSorted(t *testing.T) {
	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(activeBooking("b1", 1, "B2"))
	bookingRepo.AddBooking(activeBooking("b2", 1, "A9"))
	bookingRepo.AddBooking(activeBooking("b3", 1, "A10"))

	availability := service.NewAvailabilityService(bookingRepo)
	held, err := availability.HeldSeats(context.Background(), 1)
	if err != nil {
		t.Fatalf("HeldSeats returned error: %v", err)
	}

	want := []string{"A10", "A9", "B2"}
	if len(held) != len(want) {
		t.Fatalf("expected %v, got %v", want, held)
	}
	for i := range want {
		if held[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, held)
		}
	}
}
