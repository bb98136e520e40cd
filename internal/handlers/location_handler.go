// internal/handlers/location_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ToldYaOnce/kx-scheduler-services/internal/dto"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/middlewares"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/services"
)

// LocationHandler handles location-related HTTP requests
type LocationHandler struct {
	locationService *services.LocationService
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(locationService *services.LocationService) *LocationHandler {
	return &LocationHandler{locationService: locationService}
}

func (h *LocationHandler) Get(c *gin.Context) {
	tenantID := middlewares.TenantID(c)

	if locationID := c.Query("locationId"); locationID != "" {
		location, err := h.locationService.Get(c.Request.Context(), tenantID, locationID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, location)
		return
	}

	locations, err := h.locationService.List(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, locations)
}

func (h *LocationHandler) Create(c *gin.Context) {
	var req dto.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	location, err := h.locationService.Create(c.Request.Context(), middlewares.TenantID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, location)
}

func (h *LocationHandler) Update(c *gin.Context) {
	var req dto.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	location, err := h.locationService.Update(c.Request.Context(), middlewares.TenantID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, location)
}

func (h *LocationHandler) Delete(c *gin.Context) {
	locationID := c.Query("locationId")
	if locationID == "" {
		respondError(c, dto.ErrBadInput)
		return
	}

	if err := h.locationService.Delete(c.Request.Context(), middlewares.TenantID(c), locationID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": locationID})
}
