package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"coachbooking/internal/domain"
	"coachbooking/internal/service"
)

// TripHandler handles HTTP requests for trips and seat availability.
type TripHandler struct {
	tripService         *service.TripService
	availabilityService *service.AvailabilityService
	pricingService      *service.PricingService
	reservationService  *service.ReservationService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(
	tripService *service.TripService,
	availabilityService *service.AvailabilityService,
	pricingService *service.PricingService,
	reservationService *service.ReservationService,
) *TripHandler {
	return &TripHandler{
		tripService:         tripService,
		availabilityService: availabilityService,
		pricingService:      pricingService,
		reservationService:  reservationService,
	}
}

// TripResponse is the HTTP representation of a trip.
type TripResponse struct {
	ID                int64   `json:"id"`
	SourceID          int64   `json:"source_id"`
	SourceName        string  `json:"source_name"`
	DestID            int64   `json:"dest_id"`
	DestName          string  `json:"dest_name"`
	DepartureDateTime string  `json:"departure_datetime"`
	CoachName         string  `json:"coach_name"`
	CoachType         string  `json:"coach_type"`
	Capacity          int     `json:"capacity"`
	Price             int64   `json:"price"`
	PayablePrice      int64   `json:"payable_price"`
	DurationHours     float64 `json:"duration_hours,omitempty"`
}

// TripSummaryResponse is a trip search result with its seats-left count.
type TripSummaryResponse struct {
	TripResponse
	SeatsLeft int `json:"seats_left"`
}

// AvailabilityResponse is the seat partition for a trip.
type AvailabilityResponse struct {
	TripID         int64    `json:"trip_id"`
	CoachType      string   `json:"coach_type"`
	AvailableSeats []string `json:"available_seats"`
	HeldSeats      []string `json:"held_seats"`
}

// Search handles GET /v1/trips?source_id=&dest_id=&from_date=&to_date=
func (h *TripHandler) Search(c *gin.Context) {
	sourceID, err := strconv.ParseInt(c.Query("source_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid source_id"})
		return
	}
	destID, err := strconv.ParseInt(c.Query("dest_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid dest_id"})
		return
	}

	from, err := time.Parse("2006-01-02", c.Query("from_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid from_date, expected YYYY-MM-DD"})
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid to_date, expected YYYY-MM-DD"})
		return
	}
	// to_date is inclusive.
	to = to.AddDate(0, 0, 1)

	summaries, err := h.tripService.Search(c.Request.Context(), sourceID, destID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TripSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		response = append(response, TripSummaryResponse{
			TripResponse: h.toTripResponse(s.Trip),
			SeatsLeft:    s.SeatsLeft,
		})
	}
	respondJSON(c, http.StatusOK, response)
}

// GetTrip handles GET /v1/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	tripID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid trip id"})
		return
	}

	trip, err := h.tripService.GetTrip(c.Request.Context(), tripID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, h.toTripResponse(trip))
}

// GetAvailability handles GET /v1/trips/:id/availability
func (h *TripHandler) GetAvailability(c *gin.Context) {
	tripID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid trip id"})
		return
	}

	trip, err := h.tripService.GetTrip(c.Request.Context(), tripID)
	if err != nil {
		respondError(c, err)
		return
	}

	current, err := h.editedBooking(c)
	if err != nil {
		respondError(c, err)
		return
	}

	avail, err := h.availabilityService.AvailableSeats(c.Request.Context(), trip, current)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, AvailabilityResponse{
		TripID:         trip.ID,
		CoachType:      string(trip.Coach.CoachType),
		AvailableSeats: avail.AvailableSeats,
		HeldSeats:      avail.HeldSeats,
	})
}

// editedBooking resolves the booking whose edit session is asking for
// availability, so its own current seat reads as available to itself. The
// booking is looked up server-side from ?booking_id=; callers cannot carve
// out arbitrary seat codes.
func (h *TripHandler) editedBooking(c *gin.Context) (*domain.Booking, error) {
	id := c.Query("booking_id")
	if id == "" {
		return nil, nil
	}
	return h.reservationService.GetBooking(c.Request.Context(), id)
}

func (h *TripHandler) toTripResponse(t *domain.Trip) TripResponse {
	return TripResponse{
		ID:                t.ID,
		SourceID:          t.Source.ID,
		SourceName:        t.Source.Name,
		DestID:            t.Destination.ID,
		DestName:          t.Destination.Name,
		DepartureDateTime: t.DepartureDateTime.Format("2006-01-02 15:04"),
		CoachName:         t.Coach.Name,
		CoachType:         string(t.Coach.CoachType),
		Capacity:          t.Coach.Capacity,
		Price:             t.Price,
		PayablePrice:      h.pricingService.PayableAmount(t),
		DurationHours:     t.DurationHours,
	}
}
