package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"coachbooking/internal/domain"
	"coachbooking/internal/redis"
	"coachbooking/internal/repository"
)

const seatLockTTL = 10 * time.Second

var (
	phoneRegex = regexp.MustCompile(`^(84|0[35789])[0-9]{8}$`)
	emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ReservationService orchestrates booking mutations: it validates a
// requested booking against current availability, applies the price and
// status updates, and persists the booking with its history atomically.
//
// Contention on a seat is resolved optimistically: availability is read
// fresh immediately before writing and the write itself is conditional on
// the seat still being free. The redis seat lock is only a fast path; a
// booking is never soft-reserved while a form is being edited.
type ReservationService struct {
	bookingRepo  repository.BookingRepository
	tripService  *TripService
	availability *AvailabilityService
	pricing      *PricingService
	lockStore    redis.SeatLockStoreInterface
}

// NewReservationService creates a new ReservationService. lockStore may be
// nil, in which case only the conditional write guards the seat.
func NewReservationService(
	bookingRepo repository.BookingRepository,
	tripService *TripService,
	availability *AvailabilityService,
	pricing *PricingService,
	lockStore redis.SeatLockStoreInterface,
) *ReservationService {
	return &ReservationService{
		bookingRepo:  bookingRepo,
		tripService:  tripService,
		availability: availability,
		pricing:      pricing,
		lockStore:    lockStore,
	}
}

// CreateBookingRequest contains the parameters for creating a booking.
type CreateBookingRequest struct {
	TripID        int64
	SeatNumber    string
	CustFirstName string
	CustLastName  string
	Phone         string
	Email         string
	PickUpAddress string
	BookingType   domain.BookingType   // Optional: defaults to ONEWAY
	PaymentMethod domain.PaymentMethod // Optional: defaults to CASH
	PaymentStatus domain.BookingStatus // Optional: defaults to UNPAID
	Note          string
}

// UpdateBookingRequest contains the mutable fields of a booking. Zero
// values mean "keep the current value".
type UpdateBookingRequest struct {
	TripID        int64
	SeatNumber    string
	PaymentStatus domain.BookingStatus
	PickUpAddress string
	Note          *string
}

// CreateBooking validates the request, re-checks seat availability at
// commit time and persists the booking. If the seat was taken between
// selection and submission the caller gets ErrSeatUnavailable and must
// re-prompt seat selection; another seat is never substituted silently.
func (s *ReservationService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, err
	}

	trip, err := s.tripService.GetTrip(ctx, req.TripID)
	if err != nil {
		return nil, err
	}

	if err := s.checkSeatAddressable(trip.Coach.CoachType, req.SeatNumber); err != nil {
		return nil, err
	}

	free, err := s.availability.IsSeatFree(ctx, trip, req.SeatNumber, nil)
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, domain.ErrSeatUnavailable
	}

	unlock, err := s.lockSeat(ctx, trip.ID, req.SeatNumber)
	if err != nil {
		return nil, err
	}
	defer unlock()

	status := req.PaymentStatus
	if status == "" {
		status = domain.BookingStatusUnpaid
	}
	bookingType := req.BookingType
	if bookingType == "" {
		bookingType = domain.BookingTypeOneWay
	}
	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = domain.PaymentMethodCash
	}

	now := time.Now()
	id := uuid.New().String()
	booking := &domain.Booking{
		ID:            id,
		Code:          bookingCode(id),
		CustFirstName: req.CustFirstName,
		CustLastName:  req.CustLastName,
		Phone:         req.Phone,
		Email:         req.Email,
		TripID:        trip.ID,
		SeatNumber:    req.SeatNumber,
		BookingType:   bookingType,
		PickUpAddress: req.PickUpAddress,
		PaymentMethod: paymentMethod,
		Status:        status,
		Note:          req.Note,
		StatusHistory: []domain.BookingStatusHistoryEntry{
			{OldStatus: "", NewStatus: status, CreatedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrSeatTaken) {
			return nil, domain.ErrSeatUnavailable
		}
		return nil, err
	}

	return booking, nil
}

// UpdateBooking applies a mutation to an existing booking. Mutations on a
// cancelled booking fail with ErrBookingCancelled; a second trip/seat
// change fails with ErrChangeLocked. A trip or seat change marks the
// booking CHANGED, appends the matching history entry and merges the
// price-change note into the freeform note.
func (s *ReservationService) UpdateBooking(ctx context.Context, bookingID string, req UpdateBookingRequest) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.IsCancelled() {
		return nil, ErrBookingCancelled
	}

	oldTrip, err := s.tripService.GetTrip(ctx, booking.TripID)
	if err != nil {
		return nil, err
	}

	newTripID := req.TripID
	if newTripID == 0 {
		newTripID = booking.TripID
	}
	newSeat := req.SeatNumber
	if newSeat == "" {
		newSeat = booking.SeatNumber
	}

	changed := newTripID != booking.TripID || newSeat != booking.SeatNumber

	var entry *domain.BookingStatusHistoryEntry
	now := time.Now()

	if changed {
		if booking.EverChanged() {
			return nil, ErrChangeLocked
		}

		newTrip := oldTrip
		if newTripID != booking.TripID {
			newTrip, err = s.tripService.GetTrip(ctx, newTripID)
			if err != nil {
				return nil, err
			}
		}

		if err := s.checkSeatAddressable(newTrip.Coach.CoachType, newSeat); err != nil {
			return nil, err
		}

		free, err := s.availability.IsSeatFree(ctx, newTrip, newSeat, booking)
		if err != nil {
			return nil, err
		}
		if !free {
			return nil, domain.ErrSeatUnavailable
		}

		unlock, err := s.lockSeat(ctx, newTrip.ID, newSeat)
		if err != nil {
			return nil, err
		}
		defer unlock()

		entry = &domain.BookingStatusHistoryEntry{
			OldStatus: booking.EffectiveStatus(),
			NewStatus: domain.BookingStatusChanged,
			CreatedAt: now,
		}

		priceNote := s.pricing.PriceChangeNote(newTrip, oldTrip)
		note := booking.Note
		if req.Note != nil {
			note = *req.Note
		}
		booking.Note = s.pricing.MergeNote(priceNote, note)
		booking.TripID = newTripID
		booking.SeatNumber = newSeat
		booking.Status = domain.BookingStatusChanged
	} else {
		if req.Note != nil {
			booking.Note = *req.Note
		}

		// Payment status may move independently of trip/seat edits.
		if req.PaymentStatus != "" {
			if req.PaymentStatus != domain.BookingStatusUnpaid && req.PaymentStatus != domain.BookingStatusPaid {
				return nil, ErrInvalidBookingStatus
			}
			if req.PaymentStatus != booking.EffectiveStatus() {
				entry = &domain.BookingStatusHistoryEntry{
					OldStatus: booking.EffectiveStatus(),
					NewStatus: req.PaymentStatus,
					CreatedAt: now,
				}
				booking.Status = req.PaymentStatus
			}
		}
	}

	if req.PickUpAddress != "" {
		booking.PickUpAddress = req.PickUpAddress
	}
	booking.UpdatedAt = now

	if err := s.bookingRepo.UpdateWithHistory(ctx, booking, entry); err != nil {
		if errors.Is(err, repository.ErrSeatTaken) {
			return nil, domain.ErrSeatUnavailable
		}
		return nil, err
	}

	if entry != nil {
		booking.StatusHistory = append(booking.StatusHistory, *entry)
	}

	return booking, nil
}

// CancelBooking marks a booking CANCEL and frees its seat. A second cancel
// fails with ErrAlreadyCancelled and leaves the history untouched.
func (s *ReservationService) CancelBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.IsCancelled() {
		return nil, ErrAlreadyCancelled
	}

	now := time.Now()
	entry := &domain.BookingStatusHistoryEntry{
		OldStatus: booking.EffectiveStatus(),
		NewStatus: domain.BookingStatusCancel,
		CreatedAt: now,
	}
	booking.Status = domain.BookingStatusCancel
	booking.UpdatedAt = now

	if err := s.bookingRepo.UpdateWithHistory(ctx, booking, entry); err != nil {
		return nil, err
	}

	booking.StatusHistory = append(booking.StatusHistory, *entry)
	return booking, nil
}

// GetBooking retrieves a booking with its status history.
func (s *ReservationService) GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}
	return s.bookingRepo.GetByID(ctx, bookingID)
}

// EffectiveStatus returns the payment status in force for a booking after
// resolving any CHANGED markers in its history.
func (s *ReservationService) EffectiveStatus(ctx context.Context, bookingID string) (domain.BookingStatus, error) {
	booking, err := s.GetBooking(ctx, bookingID)
	if err != nil {
		return "", err
	}
	return booking.EffectiveStatus(), nil
}

func (s *ReservationService) validateCreateRequest(req CreateBookingRequest) error {
	if req.TripID <= 0 {
		return ErrInvalidTripID
	}
	if req.SeatNumber == "" {
		return ErrSeatNotChosen
	}
	if strings.TrimSpace(req.CustFirstName) == "" || strings.TrimSpace(req.CustLastName) == "" {
		return ErrMissingCustomerName
	}
	if !phoneRegex.MatchString(req.Phone) {
		return ErrInvalidPhone
	}
	if !emailRegex.MatchString(req.Email) {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(req.PickUpAddress) == "" {
		return ErrMissingPickUpAddress
	}
	if req.BookingType != "" && !domain.ValidBookingType(req.BookingType) {
		return ErrInvalidBookingType
	}
	if req.PaymentMethod != "" && !domain.ValidPaymentMethod(req.PaymentMethod) {
		return ErrInvalidPaymentMethod
	}
	if req.PaymentStatus != "" &&
		req.PaymentStatus != domain.BookingStatusUnpaid && req.PaymentStatus != domain.BookingStatusPaid {
		return ErrInvalidBookingStatus
	}
	return nil
}

func (s *ReservationService) checkSeatAddressable(ct domain.CoachType, seatCode string) error {
	addressable, err := domain.IsAddressable(ct, seatCode)
	if err != nil {
		return err
	}
	if !addressable {
		return ErrInvalidSeatNumber
	}
	return nil
}

// lockSeat acquires the best-effort redis seat lock. The returned func
// releases it; it is a no-op when no lock store is wired.
func (s *ReservationService) lockSeat(ctx context.Context, tripID int64, seatCode string) (func(), error) {
	if s.lockStore == nil {
		return func() {}, nil
	}

	locked, err := s.lockStore.AcquireSeatLock(ctx, tripID, seatCode, seatLockTTL)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, domain.ErrSeatUnavailable
	}
	return func() { _ = s.lockStore.ReleaseSeatLock(ctx, tripID, seatCode) }, nil
}

// bookingCode derives the short human-readable ticket code shown to
// operators.
func bookingCode(id string) string {
	return "BK-" + strings.ToUpper(id[:8])
}
