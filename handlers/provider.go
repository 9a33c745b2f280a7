package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	providerRepo "bookwise/database/repository/provider"
	serviceRepo "bookwise/database/repository/service"
	"bookwise/services/availability"
	"bookwise/utils"
)

// ProviderHandler serves the read-only provider directory endpoints
// the booking flow needs: the availability policy and service list.
type ProviderHandler struct {
	Providers providerRepo.ProviderRepository
	Services  serviceRepo.ServiceRepository
}

func NewProviderHandler(providers providerRepo.ProviderRepository, services serviceRepo.ServiceRepository) *ProviderHandler {
	return &ProviderHandler{Providers: providers, Services: services}
}

// GetAvailabilityPolicy handles GET /api/providers/:id/policy.
func (h *ProviderHandler) GetAvailabilityPolicy(c *gin.Context) {
	policy, err := h.Providers.GetAvailabilityPolicy(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if policy == nil {
		respondError(c, availability.ErrProviderNotFound)
		return
	}
	c.JSON(http.StatusOK, policy)
}

// ListServices handles GET /api/providers/:id/services.
func (h *ProviderHandler) ListServices(c *gin.Context) {
	services, err := h.Services.ListByProvider(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": services})
}

// Healthz handles GET /healthz.
func Healthz(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.Mongo || !status.Redis {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
