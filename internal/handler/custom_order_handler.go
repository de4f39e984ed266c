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

type CustomOrderHandler struct {
	customOrderService service.CustomOrderService
}

func NewCustomOrderHandler(customOrderService service.CustomOrderService) *CustomOrderHandler {
	return &CustomOrderHandler{customOrderService: customOrderService}
}

func (h *CustomOrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	requests := router.Group("/api/custom-orders")
	{
		requests.POST("", middleware.RequireRole(model.RoleAdmin), h.CreateRequest)
		requests.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleMerchant), h.ListRequests)
		requests.GET("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleMerchant), h.GetRequest)
		requests.POST("/:id/quote", middleware.RequireRole(model.RoleAdmin, model.RoleMerchant), h.SubmitQuote)
		requests.POST("/:id/approve", middleware.RequireRole(model.RoleAdmin), h.ApproveQuote)
		requests.POST("/:id/reject", middleware.RequireRole(model.RoleAdmin), h.RejectQuote)
		requests.GET("/price-history", middleware.RequireRole(model.RoleAdmin, model.RoleMerchant), h.PriceHistory)
	}
}

// CreateRequest records an incoming custom order request
// @Summary      Create custom order request
// @Tags         custom-orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateCustomOrderRequest  true  "Request payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/custom-orders [post]
func (h *CustomOrderHandler) CreateRequest(c *gin.Context) {
	var req service.CreateCustomOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	request, err := h.customOrderService.CreateRequest(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, request))
}

// ListRequests returns paginated custom order requests
// @Summary      List custom order requests
// @Tags         custom-orders
// @Security     BearerAuth
// @Produce      json
// @Param        page         query  int     false  "Page number (default: 1)"
// @Param        limit        query  int     false  "Items per page (default: 20)"
// @Param        provider_id  query  string  false  "Filter by provider"
// @Param        customer_id  query  string  false  "Filter by customer"
// @Param        status       query  string  false  "Filter by status"
// @Success      200  {object}  response.Response
// @Router       /api/custom-orders [get]
func (h *CustomOrderHandler) ListRequests(c *gin.Context) {
	params := pagination.Parse(c)

	filter := service.CustomOrderFilter{
		ProviderID: c.Query("provider_id"),
		CustomerID: c.Query("customer_id"),
		Status:     c.Query("status"),
		Page:       params.Page,
		Limit:      params.Limit,
	}

	requests, total, err := h.customOrderService.ListRequests(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, requests, params.Page, params.Limit, total))
}

// GetRequest returns a single custom order request with its items
// @Summary      Get custom order request
// @Tags         custom-orders
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Request ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/custom-orders/{id} [get]
func (h *CustomOrderHandler) GetRequest(c *gin.Context) {
	request, err := h.customOrderService.GetRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// SubmitQuote prices a custom order request
// @Summary      Submit quote
// @Tags         custom-orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                     true  "Request ID"
// @Param        payload  body  service.SubmitQuoteRequest true  "Priced line items"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/custom-orders/{id}/quote [post]
func (h *CustomOrderHandler) SubmitQuote(c *gin.Context) {
	var req service.SubmitQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	request, err := h.customOrderService.SubmitQuote(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// ApproveQuote records customer acceptance and creates the order
// @Summary      Approve quote
// @Tags         custom-orders
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Request ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/custom-orders/{id}/approve [post]
func (h *CustomOrderHandler) ApproveQuote(c *gin.Context) {
	request, err := h.customOrderService.ApproveQuote(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// RejectQuote records customer rejection of a quote
// @Summary      Reject quote
// @Tags         custom-orders
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Request ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/custom-orders/{id}/reject [post]
func (h *CustomOrderHandler) RejectQuote(c *gin.Context) {
	request, err := h.customOrderService.RejectQuote(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// PriceHistory returns recent priced lines matching an item name
// @Summary      Item price history
// @Tags         custom-orders
// @Security     BearerAuth
// @Produce      json
// @Param        provider_id  query  string  true  "Provider ID"
// @Param        name         query  string  true  "Item name to match"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/custom-orders/price-history [get]
func (h *CustomOrderHandler) PriceHistory(c *gin.Context) {
	history, err := h.customOrderService.PriceHistory(c.Request.Context(), c.Query("provider_id"), c.Query("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, history))
}
