package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"coachbooking/internal/handler"
	"coachbooking/internal/service"
)

func availabilityRouter(f *fixture) *gin.Engine {
	gin.SetMode(gin.TestMode)

	pricing := service.NewPricingService()
	availability := service.NewAvailabilityService(f.bookingRepo)
	tripService := service.NewTripService(f.tripRepo, f.coachRepo, f.bookingRepo, nil)
	h := handler.NewTripHandler(tripService, availability, pricing, f.reservation)

	router := gin.New()
	router.GET("/v1/trips/:id/availability", h.GetAvailability)
	return router
}

func getAvailability(t *testing.T, router *gin.Engine, url string) (int, handler.AvailabilityResponse) {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	router.ServeHTTP(w, req)

	var resp handler.AvailabilityResponse
	if w.Code == http.StatusOK {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	return w.Code, resp
}

func contains(seats []string, code string) bool {
	for _, s := range seats {
		if s == code {
			return true
		}
	}
	return false
}

func TestGetAvailabilityCarveOut(t *testing.T) {
	f := newFixture()
	router := availabilityRouter(f)

	booking, err := f.reservation.CreateBooking(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("CreateBooking returned error: %v", err)
	}

	// Without an edit session the booked seat is held.
	code, resp := getAvailability(t, router, "/v1/trips/1/availability")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if !contains(resp.HeldSeats, "A5") {
		t.Errorf("expected A5 held, got held=%v", resp.HeldSeats)
	}

	// The booking's own edit session sees its seat as available.
	code, resp = getAvailability(t, router, "/v1/trips/1/availability?booking_id="+booking.ID)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if !contains(resp.AvailableSeats, "A5") {
		t.Errorf("expected A5 available to its own booking, got available=%v", resp.AvailableSeats)
	}

	// The carve-out is resolved server-side: an unknown booking id cannot
	// free anything.
	code, _ = getAvailability(t, router, "/v1/trips/1/availability?booking_id=no-such-booking")
	if code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown booking id, got %d", code)
	}
}
