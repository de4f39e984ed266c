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

type AdminHandler struct {
	adminService service.AdminService
}

func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	admin := router.Group("/api/admin", middleware.RequireRole(model.RoleAdmin))
	{
		admin.GET("/providers", h.ListProviders)
		admin.POST("/providers/:id/approve", h.ApproveProvider)
		admin.POST("/providers/:id/reject", h.RejectProvider)
		admin.POST("/providers/:id/suspend", h.SuspendProvider)
		admin.POST("/providers/:id/reactivate", h.ReactivateProvider)

		admin.GET("/customers", h.ListCustomers)
		admin.POST("/customers/:id/ban", h.BanUser)
		admin.POST("/customers/:id/unban", h.UnbanUser)

		admin.GET("/orders", h.ListOrders)
		admin.PUT("/orders/:id/status", h.UpdateOrderStatus)
		admin.GET("/refunds", h.ListRefunds)
	}
}

// ListProviders returns paginated providers with optional status filter
// @Summary      List providers
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        page    query  int     false  "Page number (default: 1)"
// @Param        limit   query  int     false  "Items per page (default: 20)"
// @Param        status  query  string  false  "Filter by status: pending, approved, rejected, suspended"
// @Success      200  {object}  response.Response
// @Router       /api/admin/providers [get]
func (h *AdminHandler) ListProviders(c *gin.Context) {
	params := pagination.Parse(c)
	providers, total, err := h.adminService.ListProviders(c.Request.Context(), c.Query("status"), params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, providers, params.Page, params.Limit, total))
}

// ApproveProvider approves a pending provider
// @Summary      Approve provider
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Provider ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/admin/providers/{id}/approve [post]
func (h *AdminHandler) ApproveProvider(c *gin.Context) {
	provider, err := h.adminService.ApproveProvider(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, provider))
}

// RejectProvider rejects a pending provider with a reason
// @Summary      Reject provider
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                           true  "Provider ID"
// @Param        payload  body  service.ProviderDecisionRequest  true  "Rejection reason"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/admin/providers/{id}/reject [post]
func (h *AdminHandler) RejectProvider(c *gin.Context) {
	var req service.ProviderDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	provider, err := h.adminService.RejectProvider(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, provider))
}

// SuspendProvider suspends an approved provider with a reason
// @Summary      Suspend provider
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                           true  "Provider ID"
// @Param        payload  body  service.ProviderDecisionRequest  true  "Suspension reason"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/admin/providers/{id}/suspend [post]
func (h *AdminHandler) SuspendProvider(c *gin.Context) {
	var req service.ProviderDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	provider, err := h.adminService.SuspendProvider(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, provider))
}

// ReactivateProvider lifts a provider suspension
// @Summary      Reactivate provider
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Provider ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/admin/providers/{id}/reactivate [post]
func (h *AdminHandler) ReactivateProvider(c *gin.Context) {
	provider, err := h.adminService.ReactivateProvider(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, provider))
}

// ListCustomers returns paginated customer profiles
// @Summary      List customers
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        page    query  int     false  "Page number (default: 1)"
// @Param        limit   query  int     false  "Items per page (default: 20)"
// @Param        status  query  string  false  "Filter by status: active, banned"
// @Success      200  {object}  response.Response
// @Router       /api/admin/customers [get]
func (h *AdminHandler) ListCustomers(c *gin.Context) {
	params := pagination.Parse(c)
	customers, total, err := h.adminService.ListCustomers(c.Request.Context(), c.Query("status"), params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, customers, params.Page, params.Limit, total))
}

// BanUser bans a customer and cancels their in-flight orders
// @Summary      Ban customer
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                  true  "Customer ID"
// @Param        payload  body  service.BanUserRequest  true  "Ban reason"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/admin/customers/{id}/ban [post]
func (h *AdminHandler) BanUser(c *gin.Context) {
	var req service.BanUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	profile, err := h.adminService.BanUser(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, profile))
}

// UnbanUser lifts a customer ban
// @Summary      Unban customer
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Customer ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/admin/customers/{id}/unban [post]
func (h *AdminHandler) UnbanUser(c *gin.Context) {
	profile, err := h.adminService.UnbanUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, profile))
}

// ListOrders returns paginated orders with optional status filter
// @Summary      List orders
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        page    query  int     false  "Page number (default: 1)"
// @Param        limit   query  int     false  "Items per page (default: 20)"
// @Param        status  query  string  false  "Filter by order status"
// @Success      200  {object}  response.Response
// @Router       /api/admin/orders [get]
func (h *AdminHandler) ListOrders(c *gin.Context) {
	params := pagination.Parse(c)
	orders, total, err := h.adminService.ListOrders(c.Request.Context(), c.Query("status"), params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, orders, params.Page, params.Limit, total))
}

// UpdateOrderStatus moves an order along the status graph
// @Summary      Update order status
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                            true  "Order ID"
// @Param        payload  body  service.UpdateOrderStatusRequest  true  "Target status"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/admin/orders/{id}/status [put]
func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	var req service.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.adminService.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// ListRefunds returns paginated refunds with optional status filter
// @Summary      List refunds
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        page    query  int     false  "Page number (default: 1)"
// @Param        limit   query  int     false  "Items per page (default: 20)"
// @Param        status  query  string  false  "Filter by status: pending, processed, rejected"
// @Success      200  {object}  response.Response
// @Router       /api/admin/refunds [get]
func (h *AdminHandler) ListRefunds(c *gin.Context) {
	params := pagination.Parse(c)
	refunds, total, err := h.adminService.ListRefunds(c.Request.Context(), c.Query("status"), params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, refunds, params.Page, params.Limit, total))
}
