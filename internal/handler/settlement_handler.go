package handler

import (
	"net/http"

	"marketplace-backend/internal/middleware"
	"marketplace-backend/internal/model"
	"marketplace-backend/internal/service"
	"marketplace-backend/pkg/pagination"
	"marketplace-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type SettlementHandler struct {
	settlementService service.SettlementService
}

func NewSettlementHandler(settlementService service.SettlementService) *SettlementHandler {
	return &SettlementHandler{settlementService: settlementService}
}

func (h *SettlementHandler) RegisterRoutes(router *gin.RouterGroup) {
	settlements := router.Group("/api/settlements")
	{
		settlements.POST("/generate", middleware.RequireRole(model.RoleAdmin), h.Generate)
		settlements.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleMerchant), h.ListSettlements)
		settlements.GET("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleMerchant), h.GetSettlement)
		settlements.POST("/:id/payment", middleware.RequireRole(model.RoleAdmin), h.RecordPayment)
		settlements.PUT("/:id/status", middleware.RequireRole(model.RoleAdmin), h.UpdateStatus)
	}
}

// Generate creates settlements for the period, one per provider
// @Summary      Generate settlements
// @Tags         settlements
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.GenerateSettlementsRequest  true  "Period and optional provider"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/settlements/generate [post]
func (h *SettlementHandler) Generate(c *gin.Context) {
	var req service.GenerateSettlementsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.settlementService.Generate(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// ListSettlements returns paginated settlements with optional filters
// @Summary      List settlements
// @Tags         settlements
// @Security     BearerAuth
// @Produce      json
// @Param        page         query  int     false  "Page number (default: 1)"
// @Param        limit        query  int     false  "Items per page (default: 20)"
// @Param        provider_id  query  string  false  "Filter by provider"
// @Param        status       query  string  false  "Filter by status"
// @Success      200  {object}  response.Response
// @Router       /api/settlements [get]
func (h *SettlementHandler) ListSettlements(c *gin.Context) {
	params := pagination.Parse(c)

	filter := service.SettlementFilter{
		ProviderID: c.Query("provider_id"),
		Status:     c.Query("status"),
		Page:       params.Page,
		Limit:      params.Limit,
	}

	settlements, total, err := h.settlementService.ListSettlements(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, settlements, params.Page, params.Limit, total))
}

// GetSettlement returns a single settlement
// @Summary      Get settlement
// @Tags         settlements
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Settlement ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/settlements/{id} [get]
func (h *SettlementHandler) GetSettlement(c *gin.Context) {
	settlement, err := h.settlementService.GetSettlement(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, settlement))
}

// RecordPayment records a full or partial payment against a settlement
// @Summary      Record settlement payment
// @Tags         settlements
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                        true  "Settlement ID"
// @Param        payload  body  service.RecordPaymentRequest  true  "Payment payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/settlements/{id}/payment [post]
func (h *SettlementHandler) RecordPayment(c *gin.Context) {
	var req service.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	settlement, err := h.settlementService.RecordPayment(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, settlement))
}

// UpdateStatus moves a settlement to a manual status (disputed, waived, pending)
// @Summary      Update settlement status
// @Tags         settlements
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                                true  "Settlement ID"
// @Param        payload  body  service.UpdateSettlementStatusRequest true  "Status payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/settlements/{id}/status [put]
func (h *SettlementHandler) UpdateStatus(c *gin.Context) {
	var req service.UpdateSettlementStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	settlement, err := h.settlementService.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, settlement))
}
