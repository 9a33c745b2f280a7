package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookwise/services/booking"
	"bookwise/utils"
)

// BookingHandler serves the booking commit and lifecycle endpoints.
type BookingHandler struct {
	Engine booking.Engine
}

func NewBookingHandler(engine booking.Engine) *BookingHandler {
	return &BookingHandler{Engine: engine}
}

// CreateBooking handles POST /api/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req booking.CommitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	created, err := h.Engine.CommitBooking(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// CancelBooking handles DELETE /api/bookings/:id.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	cancelled, err := h.Engine.CancelBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cancelled)
}

// ListProviderBookings handles GET /api/providers/:id/bookings?date=.
func (h *BookingHandler) ListProviderBookings(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "date is required")
		return
	}

	bookings, err := h.Engine.ListProviderBookings(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}
