package handler

import (
	"net/http"

	"marketplace-backend/internal/middleware"
	"marketplace-backend/internal/model"
	"marketplace-backend/internal/service"
	"marketplace-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type LocationHandler struct {
	locationService service.LocationService
}

func NewLocationHandler(locationService service.LocationService) *LocationHandler {
	return &LocationHandler{locationService: locationService}
}

func (h *LocationHandler) RegisterRoutes(router *gin.RouterGroup) {
	locations := router.Group("/api/locations")
	{
		locations.GET("/governorates", middleware.RequireRole(model.RoleAdmin, model.RoleMerchant), h.ListGovernorates)
		locations.PUT("/governorates/:id/active", middleware.RequireRole(model.RoleAdmin), h.SetGovernorateActive)
		locations.PUT("/governorates/:id", middleware.RequireRole(model.RoleAdmin), h.UpdateGovernorate)

		locations.GET("/cities", middleware.RequireRole(model.RoleAdmin, model.RoleMerchant), h.ListCities)
		locations.PUT("/cities/:id/active", middleware.RequireRole(model.RoleAdmin), h.SetCityActive)

		locations.GET("/districts", middleware.RequireRole(model.RoleAdmin, model.RoleMerchant), h.ListDistricts)
		locations.POST("/districts", middleware.RequireRole(model.RoleAdmin), h.CreateDistrict)
		locations.PUT("/districts/:id/active", middleware.RequireRole(model.RoleAdmin), h.SetDistrictActive)

		locations.GET("/analytics", middleware.RequireRole(model.RoleAdmin), h.GetAnalytics)
	}
}

type setActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// ListGovernorates returns all governorates
// @Summary      List governorates
// @Tags         locations
// @Security     BearerAuth
// @Produce      json
// @Param        include_inactive  query  bool  false  "Include inactive rows"
// @Success      200  {object}  response.Response
// @Router       /api/locations/governorates [get]
func (h *LocationHandler) ListGovernorates(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"
	governorates, err := h.locationService.ListGovernorates(c.Request.Context(), includeInactive)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, governorates))
}

// SetGovernorateActive activates or deactivates a governorate
// @Summary      Activate/deactivate governorate
// @Tags         locations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string            true  "Governorate ID"
// @Param        payload  body  setActiveRequest  true  "Active flag"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/locations/governorates/{id}/active [put]
func (h *LocationHandler) SetGovernorateActive(c *gin.Context) {
	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	governorate, err := h.locationService.SetGovernorateActive(c.Request.Context(), c.Param("id"), *req.Active)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, governorate))
}

// UpdateGovernorate updates governorate settings (commission override)
// @Summary      Update governorate
// @Tags         locations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                            true  "Governorate ID"
// @Param        payload  body  service.UpdateGovernorateRequest  true  "Update payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/locations/governorates/{id} [put]
func (h *LocationHandler) UpdateGovernorate(c *gin.Context) {
	var req service.UpdateGovernorateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	governorate, err := h.locationService.UpdateGovernorate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, governorate))
}

// ListCities returns cities, optionally scoped to a governorate
// @Summary      List cities
// @Tags         locations
// @Security     BearerAuth
// @Produce      json
// @Param        governorate_id    query  string  false  "Filter by governorate"
// @Param        include_inactive  query  bool    false  "Include inactive rows"
// @Success      200  {object}  response.Response
// @Router       /api/locations/cities [get]
func (h *LocationHandler) ListCities(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"
	cities, err := h.locationService.ListCities(c.Request.Context(), c.Query("governorate_id"), includeInactive)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, cities))
}

// SetCityActive activates or deactivates a city
// @Summary      Activate/deactivate city
// @Tags         locations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string            true  "City ID"
// @Param        payload  body  setActiveRequest  true  "Active flag"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/locations/cities/{id}/active [put]
func (h *LocationHandler) SetCityActive(c *gin.Context) {
	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	city, err := h.locationService.SetCityActive(c.Request.Context(), c.Param("id"), *req.Active)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, city))
}

// ListDistricts returns districts, optionally scoped to a city
// @Summary      List districts
// @Tags         locations
// @Security     BearerAuth
// @Produce      json
// @Param        city_id           query  string  false  "Filter by city"
// @Param        include_inactive  query  bool    false  "Include inactive rows"
// @Success      200  {object}  response.Response
// @Router       /api/locations/districts [get]
func (h *LocationHandler) ListDistricts(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"
	districts, err := h.locationService.ListDistricts(c.Request.Context(), c.Query("city_id"), includeInactive)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, districts))
}

// CreateDistrict adds a new district under a city
// @Summary      Create district
// @Tags         locations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateDistrictRequest  true  "District payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/locations/districts [post]
func (h *LocationHandler) CreateDistrict(c *gin.Context) {
	var req service.CreateDistrictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	district, err := h.locationService.CreateDistrict(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, district))
}

// SetDistrictActive activates or deactivates a district
// @Summary      Activate/deactivate district
// @Tags         locations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string            true  "District ID"
// @Param        payload  body  setActiveRequest  true  "Active flag"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/locations/districts/{id}/active [put]
func (h *LocationHandler) SetDistrictActive(c *gin.Context) {
	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	district, err := h.locationService.SetDistrictActive(c.Request.Context(), c.Param("id"), *req.Active)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, district))
}

// GetAnalytics returns per-governorate readiness and activity roll-ups
// @Summary      Location analytics
// @Tags         locations
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/locations/analytics [get]
func (h *LocationHandler) GetAnalytics(c *gin.Context) {
	analytics, err := h.locationService.GetAnalytics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, analytics))
}
