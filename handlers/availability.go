package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bookwise/services/availability"
	"bookwise/utils"
)

// AvailabilityHandler serves generated slot grids.
type AvailabilityHandler struct {
	Availability availability.Service
	Cache        *utils.AvailabilityCache
}

func NewAvailabilityHandler(svc availability.Service, cache *utils.AvailabilityCache) *AvailabilityHandler {
	return &AvailabilityHandler{Availability: svc, Cache: cache}
}

// GetAvailability handles GET /api/availability?providerId=&serviceId=&date=&days=.
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	providerID := c.Query("providerId")
	serviceID := c.Query("serviceId")
	date := c.Query("date")
	if providerID == "" || serviceID == "" || date == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "providerId, serviceId and date are required")
		return
	}

	days := 1
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", "days must be a positive integer")
			return
		}
		days = parsed
	}

	// The cache key carries the requested span so single-day and
	// multi-day reads never shadow each other.
	cacheDate := fmt.Sprintf("%s+%dd", date, days)
	if cached, ok := h.Cache.Get(c.Request.Context(), providerID, serviceID, cacheDate); ok {
		c.JSON(http.StatusOK, gin.H{"providerId": providerID, "serviceId": serviceID, "days": cached})
		return
	}

	grids, err := h.Availability.GenerateRange(c.Request.Context(), providerID, serviceID, date, days)
	if err != nil {
		respondError(c, err)
		return
	}

	h.Cache.Set(c.Request.Context(), providerID, serviceID, cacheDate, grids)
	c.JSON(http.StatusOK, gin.H{"providerId": providerID, "serviceId": serviceID, "days": grids})
}
