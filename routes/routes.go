package routes

import (
	"github.com/gin-gonic/gin"

	"bookwise/handlers"
)

// RegisterRoutes wires the HTTP surface onto the router.
func RegisterRoutes(
	router *gin.Engine,
	availabilityHandler *handlers.AvailabilityHandler,
	bookingHandler *handlers.BookingHandler,
	providerHandler *handlers.ProviderHandler,
) {
	router.GET("/healthz", handlers.Healthz)

	api := router.Group("/api")
	{
		api.GET("/availability", availabilityHandler.GetAvailability)

		api.POST("/bookings", bookingHandler.CreateBooking)
		api.DELETE("/bookings/:id", bookingHandler.CancelBooking)

		api.GET("/providers/:id/policy", providerHandler.GetAvailabilityPolicy)
		api.GET("/providers/:id/services", providerHandler.ListServices)
		api.GET("/providers/:id/bookings", bookingHandler.ListProviderBookings)
	}
}
