package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"coachbooking/internal/domain"
	"coachbooking/internal/service"
)

// BookingHandler handles HTTP requests for bookings.
type BookingHandler struct {
	reservationService *service.ReservationService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(reservationService *service.ReservationService) *BookingHandler {
	return &BookingHandler{reservationService: reservationService}
}

// CreateBookingRequest is the HTTP request body for creating a booking.
type CreateBookingRequest struct {
	TripID        int64  `json:"trip_id"`
	SeatNumber    string `json:"seat_number"`
	CustFirstName string `json:"cust_first_name"`
	CustLastName  string `json:"cust_last_name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	PickUpAddress string `json:"pick_up_address"`
	BookingType   string `json:"booking_type,omitempty"`   // ONEWAY, ROUNDTRIP
	PaymentMethod string `json:"payment_method,omitempty"` // CASH, CARD
	PaymentStatus string `json:"payment_status,omitempty"` // UNPAID, PAID
	Note          string `json:"note,omitempty"`
}

// UpdateBookingRequest is the HTTP request body for updating a booking.
// Omitted fields keep their current values.
type UpdateBookingRequest struct {
	TripID        int64   `json:"trip_id,omitempty"`
	SeatNumber    string  `json:"seat_number,omitempty"`
	PaymentStatus string  `json:"payment_status,omitempty"`
	PickUpAddress string  `json:"pick_up_address,omitempty"`
	Note          *string `json:"note,omitempty"`
}

// BookingResponse is the HTTP representation of a booking.
type BookingResponse struct {
	ID              string               `json:"id"`
	Code            string               `json:"code"`
	CustFirstName   string               `json:"cust_first_name"`
	CustLastName    string               `json:"cust_last_name"`
	Phone           string               `json:"phone"`
	Email           string               `json:"email"`
	TripID          int64                `json:"trip_id"`
	SeatNumber      string               `json:"seat_number"`
	BookingType     string               `json:"booking_type"`
	PickUpAddress   string               `json:"pick_up_address"`
	PaymentMethod   string               `json:"payment_method"`
	Status          string               `json:"status"`
	EffectiveStatus string               `json:"effective_status"`
	Note            string               `json:"note,omitempty"`
	StatusHistory   []StatusHistoryEntry `json:"status_history"`
	CreatedAt       string               `json:"created_at"`
	UpdatedAt       string               `json:"updated_at"`
}

// StatusHistoryEntry is one status transition record.
type StatusHistoryEntry struct {
	OldStatus string `json:"old_status,omitempty"`
	NewStatus string `json:"new_status"`
	CreatedAt string `json:"created_at"`
}

// EffectiveStatusResponse is the HTTP response for the status endpoint.
type EffectiveStatusResponse struct {
	BookingID       string `json:"booking_id"`
	EffectiveStatus string `json:"effective_status"`
}

// CreateBooking handles POST /v1/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	booking, err := h.reservationService.CreateBooking(c.Request.Context(), service.CreateBookingRequest{
		TripID:        req.TripID,
		SeatNumber:    req.SeatNumber,
		CustFirstName: req.CustFirstName,
		CustLastName:  req.CustLastName,
		Phone:         req.Phone,
		Email:         req.Email,
		PickUpAddress: req.PickUpAddress,
		BookingType:   domain.BookingType(req.BookingType),
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		PaymentStatus: domain.BookingStatus(req.PaymentStatus),
		Note:          req.Note,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toBookingResponse(booking))
}

// GetBooking handles GET /v1/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	booking, err := h.reservationService.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// UpdateBooking handles PUT /v1/bookings/:id
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	booking, err := h.reservationService.UpdateBooking(c.Request.Context(), c.Param("id"), service.UpdateBookingRequest{
		TripID:        req.TripID,
		SeatNumber:    req.SeatNumber,
		PaymentStatus: domain.BookingStatus(req.PaymentStatus),
		PickUpAddress: req.PickUpAddress,
		Note:          req.Note,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// CancelBooking handles POST /v1/bookings/:id/cancel
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	booking, err := h.reservationService.CancelBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// GetEffectiveStatus handles GET /v1/bookings/:id/status
func (h *BookingHandler) GetEffectiveStatus(c *gin.Context) {
	bookingID := c.Param("id")

	status, err := h.reservationService.EffectiveStatus(c.Request.Context(), bookingID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, EffectiveStatusResponse{
		BookingID:       bookingID,
		EffectiveStatus: string(status),
	})
}

func toBookingResponse(b *domain.Booking) BookingResponse {
	history := make([]StatusHistoryEntry, 0, len(b.StatusHistory))
	for _, entry := range b.StatusHistory {
		history = append(history, StatusHistoryEntry{
			OldStatus: string(entry.OldStatus),
			NewStatus: string(entry.NewStatus),
			CreatedAt: entry.CreatedAt.Format(time.RFC3339),
		})
	}

	return BookingResponse{
		ID:              b.ID,
		Code:            b.Code,
		CustFirstName:   b.CustFirstName,
		CustLastName:    b.CustLastName,
		Phone:           b.Phone,
		Email:           b.Email,
		TripID:          b.TripID,
		SeatNumber:      b.SeatNumber,
		BookingType:     string(b.BookingType),
		PickUpAddress:   b.PickUpAddress,
		PaymentMethod:   string(b.PaymentMethod),
		Status:          string(b.Status),
		EffectiveStatus: string(b.EffectiveStatus()),
		Note:            b.Note,
		StatusHistory:   history,
		CreatedAt:       b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       b.UpdatedAt.Format(time.RFC3339),
	}
}
