package tests

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"coachbooking/internal/domain"
	"coachbooking/internal/repository"
	"coachbooking/internal/service"
)

// fixture wires a full reservation stack over in-memory mocks.
type fixture struct {
	bookingRepo *MockBookingRepository
	tripRepo    *MockTripRepository
	coachRepo   *MockCoachRepository
	lockStore   *MockSeatLockStore
	reservation *service.ReservationService
}

func newFixture() *fixture {
	bookingRepo := NewMockBookingRepository()
	tripRepo := NewMockTripRepository()
	coachRepo := NewMockCoachRepository()
	lockStore := NewMockSeatLockStore()

	coachRepo.AddCoach(&domain.Coach{ID: 1, Name: "Coach 01", CoachType: domain.CoachTypeStandard, Capacity: 36})
	coachRepo.AddCoach(&domain.Coach{ID: 2, Name: "Limo 02", CoachType: domain.CoachTypeLimousine, Capacity: 34})

	tripRepo.AddTrip(&domain.Trip{
		ID:                1,
		Source:            domain.Province{ID: 10, Name: "Ha Noi"},
		Destination:       domain.Province{ID: 20, Name: "Da Nang"},
		DepartureDateTime: time.Now().Add(48 * time.Hour),
		CoachID:           1,
		Price:             450000,
	})
	tripRepo.AddTrip(&domain.Trip{
		ID:                2,
		Source:            domain.Province{ID: 10, Name: "Ha Noi"},
		Destination:       domain.Province{ID: 20, Name: "Da Nang"},
		DepartureDateTime: time.Now().Add(72 * time.Hour),
		CoachID:           2,
		Price:             600000,
	})

	pricing := service.NewPricingService()
	availability := service.NewAvailabilityService(bookingRepo)
	tripService := service.NewTripService(tripRepo, coachRepo, bookingRepo, nil)
	reservation := service.NewReservationService(bookingRepo, tripService, availability, pricing, lockStore)

	return &fixture{
		bookingRepo: bookingRepo,
		tripRepo:    tripRepo,
		coachRepo:   coachRepo,
		lockStore:   lockStore,
		reservation: reservation,
	}
}

func validCreateRequest() service.CreateBookingRequest {
	return service.CreateBookingRequest{
		TripID:        1,
		SeatNumber:    "A5",
		CustFirstName: "Minh",
		CustLastName:  "Nguyen",
		Phone:         "0351234567",
		Email:         "minh@example.com",
		PickUpAddress: "12 Tran Phu",
	}
}

func TestCreateBooking(t *testing.T) {
	f := newFixture()

	booking, err := f.reservation.CreateBooking(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("CreateBooking returned error: %v", err)
	}

	if booking.ID == "" {
		t.Error("expected booking ID to be set")
	}
	if !strings.HasPrefix(booking.Code, "BK-") {
		t.Errorf("expected booking code with BK- prefix, got %q", booking.Code)
	}
	if booking.Status != domain.BookingStatusUnpaid {
		t.Errorf("expected default status UNPAID, got %s", booking.Status)
	}
	if booking.BookingType != domain.BookingTypeOneWay {
		t.Errorf("expected default type ONEWAY, got %s", booking.BookingType)
	}
	if booking.PaymentMethod != domain.PaymentMethodCash {
		t.Errorf("expected default payment method CASH, got %s", booking.PaymentMethod)
	}
	if len(booking.StatusHistory) != 1 || booking.StatusHistory[0].NewStatus != domain.BookingStatusUnpaid {
		t.Errorf("expected one UNPAID history entry, got %+v", booking.StatusHistory)
	}
	if f.lockStore.AcquireCallCount != 1 {
		t.Errorf("expected 1 lock acquisition, got %d", f.lockStore.AcquireCallCount)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	f := newFixture()

	tests := []struct {
		name    string
		mutate  func(*service.CreateBookingRequest)
		wantErr error
	}{
		{"missing trip", func(r *service.CreateBookingRequest) { r.TripID = 0 }, service.ErrInvalidTripID},
		{"missing seat", func(r *service.CreateBookingRequest) { r.SeatNumber = "" }, service.ErrSeatNotChosen},
		{"missing first name", func(r *service.CreateBookingRequest) { r.CustFirstName = " " }, service.ErrMissingCustomerName},
		{"bad phone prefix", func(r *service.CreateBookingRequest) { r.Phone = "0123456789" }, service.ErrInvalidPhone},
		{"short phone", func(r *service.CreateBookingRequest) { r.Phone = "0351234" }, service.ErrInvalidPhone},
		{"bad email", func(r *service.CreateBookingRequest) { r.Email = "not-an-email" }, service.ErrInvalidEmail},
		{"missing pickup", func(r *service.CreateBookingRequest) { r.PickUpAddress = "" }, service.ErrMissingPickUpAddress},
		{"bad booking type", func(r *service.CreateBookingRequest) { r.BookingType = "TRIANGLE" }, service.ErrInvalidBookingType},
		{"bad payment method", func(r *service.CreateBookingRequest) { r.PaymentMethod = "GOLD" }, service.ErrInvalidPaymentMethod},
		{"cancel as initial status", func(r *service.CreateBookingRequest) { r.PaymentStatus = domain.BookingStatusCancel }, service.ErrInvalidBookingStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(&req)
			if _, err := f.reservation.CreateBooking(context.Background(), req); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCreateBookingUnaddressableSeat(t *testing.T) {
	f := newFixture()

	// A18 exists on STANDARD but is suppressed on LIMOUSINE.
	req := validCreateRequest()
	req.TripID = 2
	req.SeatNumber = "A18"

	if _, err := f.reservation.CreateBooking(context.Background(), req); !errors.Is(err, service.ErrInvalidSeatNumber) {
		t.Errorf("expected ErrInvalidSeatNumber, got %v", err)
	}
}

func TestCreateBookingSeatConflict(t *testing.T) {
	f := newFixture()

	if _, err := f.reservation.CreateBooking(context.Background(), validCreateRequest()); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	if _, err := f.reservation.CreateBooking(context.Background(), validCreateRequest()); !errors.Is(err, domain.ErrSeatUnavailable) {
		t.Errorf("expected ErrSeatUnavailable on duplicate seat, got %v", err)
	}
}

func TestCreateBookingCommitTimeConflict(t *testing.T) {
	f := newFixture()

	// The availability read passes but a competing write lands first: the
	// repository's conditional guard rejects the insert.
	f.bookingRepo.CreateError = repository.ErrSeatTaken

	if _, err := f.reservation.CreateBooking(context.Background(), validCreateRequest()); !errors.Is(err, domain.ErrSeatUnavailable) {
		t.Errorf("expected ErrSeatUnavailable, got %v", err)
	}
	if f.bookingRepo.CreateCallCount != 1 {
		t.Errorf("expected the write to be attempted once, got %d", f.bookingRepo.CreateCallCount)
	}
}

func TestCreateBookingLockContention(t *testing.T) {
	f := newFixture()

	// Another session holds the redis lock for the seat.
	f.lockStore.HoldLock(1, "A5", time.Minute)

	if _, err := f.reservation.CreateBooking(context.Background(), validCreateRequest()); !errors.Is(err, domain.ErrSeatUnavailable) {
		t.Errorf("expected ErrSeatUnavailable under lock contention, got %v", err)
	}
	if f.bookingRepo.CreateCallCount != 0 {
		t.Errorf("expected no repository write under lock contention, got %d", f.bookingRepo.CreateCallCount)
	}
}

func TestCreateBookingCancelledSeatReusable(t *testing.T) {
	f := newFixture()

	booking, err := f.reservation.CreateBooking(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("CreateBooking returned error: %v", err)
	}

	if _, err := f.reservation.CancelBooking(context.Background(), booking.ID); err != nil {
		t.Fatalf("CancelBooking returned error: %v", err)
	}

	if _, err := f.reservation.CreateBooking(context.Background(), validCreateRequest()); err != nil {
		t.Errorf("expected seat freed by cancellation to be bookable, got %v", err)
	}
}

func TestUpdateBookingPaymentStatus(t *testing.T) {
	f := newFixture()

	booking, err := f.reservation.CreateBooking(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("CreateBooking returned error: %v", err)
	}

	updated, err := f.reservation.UpdateBooking(context.Background(), booking.ID, service.UpdateBookingRequest{
		PaymentStatus: domain.BookingStatusPaid,
	})
	if err != nil {
		t.Fatalf("UpdateBooking returned error: %v", err)
	}

	if updated.EffectiveStatus() != domain.BookingStatusPaid {
		t.Errorf("expected effective status PAID, got %s", updated.EffectiveStatus())
	}
	if got := f.bookingRepo.HistoryLen(booking.ID); got != 2 {
		t.Errorf("expected 2 history entries, got %d", got)
	}

	// Setting the same status again must not grow the history.
	if _, err := f.reservation.UpdateBooking(context.Background(), booking.ID, service.UpdateBookingRequest{
		PaymentStatus: domain.BookingStatusPaid,
	}); err != nil {
		t.Fatalf("idempotent status update returned error: %v", err)
	}
	if got := f.bookingRepo.HistoryLen(booking.ID); got != 2 {
		t.Errorf("expected history unchanged at 2 entries, got %d", got)
	}
}

func TestUpdateBookingTripChange(t *testing.T) {
	f := newFixture()

	booking, err := f.reservation.CreateBooking(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("CreateBooking returned error: %v", err)
	}

	updated, err := f.reservation.UpdateBooking(context.Background(), booking.ID, service.UpdateBookingRequest{
		TripID:     2,
		SeatNumber: "B3",
	})
	if err != nil {
		t.Fatalf("UpdateBooking returned error: %v", err)
	}

	if updated.TripID != 2 || updated.SeatNumber != "B3" {
		t.Errorf("expected booking moved to trip 2 seat B3, got trip %d seat %s", updated.TripID, updated.SeatNumber)
	}
	if updated.Status != domain.BookingStatusChanged {
		t.Errorf("expected status CHANGED, got %s", updated.Status)
	}

	wantNote := "Old trip price(₫450,000) => New trip price(₫600,000), changed: +₫150,000"
	if updated.Note != wantNote {
		t.Errorf("expected note %q, got %q", wantNote, updated.Note)
	}

	// The payment status in force survives the change.
	if updated.EffectiveStatus() != domain.BookingStatusUnpaid {
		t.Errorf("expected effective status UNPAID after change, got %s", updated.EffectiveStatus())
	}

	// The old seat is free again, the new one is held.
	avail := service.NewAvailabilityService(f.bookingRepo)
	free, _ := avail.IsSeatFree(context.Background(), standardTrip(1), "A5", nil)
	if !free {
		t.Error("expected old seat to be released after trip change")
	}
}

func TestUpdateBookingMergesExistingNote(t *testing.T) {
	f := newFixture()

	req := validCreateRequest()
	req.Note = "window seat please"
	booking, err := f.reservation.CreateBooking(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateBooking returned error: %v", err)
	}

	updated, err := f.reservation.UpdateBooking(context.Background(), booking.ID, service.UpdateBookingRequest{
		SeatNumber: "A6",
	})
	if err != nil {
		t.Fatalf("UpdateBooking returned error: %v", err)
	}

	want := "Old trip price(₫450,000) => New trip price(₫450,000), changed: +₫0, window seat please"
	if updated.Note != want {
		t.Errorf("expected note %q, got %q", want, updated.Note)
	}
}

func TestUpdateBookingChangeLock(t *testing.T) {
	f := newFixture()

	booking, err := f.reservation.CreateBooking(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("CreateBooking returned error: %v", err)
	}

	if _, err := f.reservation.UpdateBooking(context.Background(), booking.ID, service.UpdateBookingRequest{
		SeatNumber: "A6",
	}); err != nil {
		t.Fatalf("first change returned error: %v", err)
	}

	// A second trip/seat change on the same ticket is forbidden.
	if _, err := f.reservation.UpdateBooking(context.Background(), booking.ID, service.UpdateBookingRequest{
		SeatNumber: "A7",
	}); !errors.Is(err, service.ErrChangeLocked) {
		t.Errorf("expected ErrChangeLocked, got %v", err)
	}

	// Payment status updates stay allowed after a change.
	if _, err := f.reservation.UpdateBooking(context.Background(), booking.ID, service.UpdateBookingRequest{
		PaymentStatus: domain.BookingStatusPaid,
	}); err != nil {
		t.Errorf("expected payment update after change to succeed, got %v", err)
	}
}

func TestUpdateBookingSeatConflict(t *testing.T) {
	f := newFixture()

	booking, err := f.reservation.CreateBooking(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("CreateBooking returned error: %v", err)
	}

	rival := validCreateRequest()
	rival.SeatNumber = "A6"
	if _, err := f.reservation.CreateBooking(context.Background(), rival); err != nil {
		t.Fatalf("rival booking failed: %v", err)
	}

	if _, err := f.reservation.UpdateBooking(context.Background(), booking.ID, service.UpdateBookingRequest{
		SeatNumber: "A6",
	}); !errors.Is(err, domain.ErrSeatUnavailable) {
		t.Errorf("expected ErrSeatUnavailable, got %v", err)
	}
}

func TestUpdateCancelledBooking(t *testing.T) {
	f := newFixture()

	booking, err := f.reservation.CreateBooking(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("CreateBooking returned error: %v", err)
	}
	if _, err := f.reservation.CancelBooking(context.Background(), booking.ID); err != nil {
		t.Fatalf("CancelBooking returned error: %v", err)
	}

	if _, err := f.reservation.UpdateBooking(context.Background(), booking.ID, service.UpdateBookingRequest{
		PaymentStatus: domain.BookingStatusPaid,
	}); !errors.Is(err, service.ErrBookingCancelled) {
		t.Errorf("expected ErrBookingCancelled, got %v", err)
	}
}

func TestCancelBooking(t *testing.T) {
	f := newFixture()

	booking, err := f.reservation.CreateBooking(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("CreateBooking returned error: %v", err)
	}

	cancelled, err := f.reservation.CancelBooking(context.Background(), booking.ID)
	if err != nil {
		t.Fatalf("CancelBooking returned error: %v", err)
	}
	if cancelled.Status != domain.BookingStatusCancel {
		t.Errorf("expected status CANCEL, got %s", cancelled.Status)
	}
	if got := f.bookingRepo.HistoryLen(booking.ID); got != 2 {
		t.Errorf("expected 2 history entries after cancel, got %d", got)
	}

	// A second cancel fails and leaves the history untouched.
	if _, err := f.reservation.CancelBooking(context.Background(), booking.ID); !errors.Is(err, service.ErrAlreadyCancelled) {
		t.Errorf("expected ErrAlreadyCancelled, got %v", err)
	}
	if got := f.bookingRepo.HistoryLen(booking.ID); got != 2 {
		t.Errorf("expected history unchanged after failed cancel, got %d entries", got)
	}
}

func TestEffectiveStatusEndpointPath(t *testing.T) {
	f := newFixture()

	booking, err := f.reservation.CreateBooking(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("CreateBooking returned error: %v", err)
	}

	status, err := f.reservation.EffectiveStatus(context.Background(), booking.ID)
	if err != nil {
		t.Fatalf("EffectiveStatus returned error: %v", err)
	}
	if status != domain.BookingStatusUnpaid {
		t.Errorf("expected UNPAID, got %s", status)
	}

	if _, err := f.reservation.EffectiveStatus(context.Background(), ""); !errors.Is(err, service.ErrInvalidBookingID) {
		t.Errorf("expected ErrInvalidBookingID, got %v", err)
	}
}
