package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookwise/services/availability"
	"bookwise/services/booking"
	"bookwise/utils"
)

// respondError maps service errors onto HTTP responses: not-found to
// 404, invalid input to 400, the commit conflict to 409, everything
// else to 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, availability.ErrServiceNotFound):
		utils.JSONError(c, http.StatusNotFound, "service not found", err.Error())
	case errors.Is(err, availability.ErrProviderNotFound):
		utils.JSONError(c, http.StatusNotFound, "provider not found", err.Error())
	case errors.Is(err, booking.ErrBookingNotFound):
		utils.JSONError(c, http.StatusNotFound, "booking not found", err.Error())
	case errors.Is(err, availability.ErrInvalidInput):
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
	case errors.Is(err, booking.ErrSlotUnavailable):
		utils.JSONError(c, http.StatusConflict, "slot unavailable", "the selected slot was booked by someone else; refresh availability and pick another")
	default:
		utils.JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
	}
}
