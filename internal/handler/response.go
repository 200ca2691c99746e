package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"coachbooking/internal/domain"
	"coachbooking/internal/repository"
	"coachbooking/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Unprocessable Entity
	case errors.Is(err, service.ErrInvalidBookingID),
		errors.Is(err, service.ErrInvalidTripID),
		errors.Is(err, service.ErrSeatNotChosen),
		errors.Is(err, service.ErrInvalidSeatNumber),
		errors.Is(err, service.ErrMissingCustomerName),
		errors.Is(err, service.ErrInvalidPhone),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrMissingPickUpAddress),
		errors.Is(err, service.ErrInvalidPaymentMethod),
		errors.Is(err, service.ErrInvalidBookingType),
		errors.Is(err, service.ErrInvalidBookingStatus):
		return http.StatusUnprocessableEntity

	// Conflict errors
	case errors.Is(err, domain.ErrSeatUnavailable),
		errors.Is(err, domain.ErrSelectionLimitReached),
		errors.Is(err, service.ErrAlreadyCancelled),
		errors.Is(err, service.ErrChangeLocked):
		return http.StatusConflict

	// Mutating a cancelled booking - Gone
	case errors.Is(err, service.ErrBookingCancelled):
		return http.StatusGone

	// Bad trip/coach records are a data integrity fault, not a client error.
	case errors.Is(err, domain.ErrUnknownCoachType):
		return http.StatusInternalServerError

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
