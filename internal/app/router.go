package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"coachbooking/internal/handler"
	"coachbooking/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	TripHandler    *handler.TripHandler
	BookingHandler *handler.BookingHandler
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Trip routes.
		trips := v1.Group("/trips")
		{
			trips.GET("", deps.TripHandler.Search)
			trips.GET("/:id", deps.TripHandler.GetTrip)
			trips.GET("/:id/availability", deps.TripHandler.GetAvailability)
		}

		// Booking routes. Mutations are idempotency-guarded so a retried
		// submission never creates a second ticket.
		bookings := v1.Group("/bookings")
		bookings.Use(middleware.BookingIdempotency(deps.RedisClient))
		{
			bookings.POST("", deps.BookingHandler.CreateBooking)
			bookings.GET("/:id", deps.BookingHandler.GetBooking)
			bookings.PUT("/:id", deps.BookingHandler.UpdateBooking)
			bookings.POST("/:id/cancel", deps.BookingHandler.CancelBooking)
			bookings.GET("/:id/status", deps.BookingHandler.GetEffectiveStatus)
		}
	}

	return router
}
