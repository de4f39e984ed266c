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

type BannerHandler struct {
	bannerService service.BannerService
}

func NewBannerHandler(bannerService service.BannerService) *BannerHandler {
	return &BannerHandler{bannerService: bannerService}
}

func (h *BannerHandler) RegisterRoutes(router *gin.RouterGroup) {
	banners := router.Group("/api/banners")
	{
		banners.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleMerchant), h.ListBanners)
		banners.GET("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleMerchant), h.GetBanner)
		banners.POST("", middleware.RequireRole(model.RoleAdmin, model.RoleMerchant), h.CreateBanner)
		banners.PUT("/:id", middleware.RequireRole(model.RoleAdmin), h.UpdateBanner)
		banners.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.DeleteBanner)
		banners.PUT("/reorder", middleware.RequireRole(model.RoleAdmin), h.ReorderBanners)
		banners.POST("/:id/approve", middleware.RequireRole(model.RoleAdmin), h.ApproveBanner)
		banners.POST("/:id/reject", middleware.RequireRole(model.RoleAdmin), h.RejectBanner)
	}
}

// ListBanners returns paginated banners with optional filters
// @Summary      List banners
// @Tags         banners
// @Security     BearerAuth
// @Produce      json
// @Param        page             query  int     false  "Page number (default: 1)"
// @Param        limit            query  int     false  "Items per page (default: 20)"
// @Param        type             query  string  false  "Filter by banner type: customer, partner"
// @Param        status           query  string  false  "Filter by derived status: active, inactive, scheduled, expired"
// @Param        approval_status  query  string  false  "Filter by approval status: PENDING, APPROVED, REJECTED"
// @Param        search           query  string  false  "Search by title"
// @Success      200  {object}  response.Response
// @Router       /api/banners [get]
func (h *BannerHandler) ListBanners(c *gin.Context) {
	params := pagination.Parse(c)

	filter := service.BannerFilter{
		BannerType:     c.Query("type"),
		Status:         c.Query("status"),
		ApprovalStatus: c.Query("approval_status"),
		Search:         c.Query("search"),
		Page:           params.Page,
		Limit:          params.Limit,
	}

	banners, total, err := h.bannerService.ListBanners(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, banners, params.Page, params.Limit, total))
}

// GetBanner returns a single banner
// @Summary      Get banner
// @Tags         banners
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Banner ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/banners/{id} [get]
func (h *BannerHandler) GetBanner(c *gin.Context) {
	banner, err := h.bannerService.GetBanner(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, banner))
}

// CreateBanner creates a new banner
// @Summary      Create banner
// @Tags         banners
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateBannerRequest  true  "Banner payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/banners [post]
func (h *BannerHandler) CreateBanner(c *gin.Context) {
	var req service.CreateBannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	banner, err := h.bannerService.CreateBanner(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, banner))
}

// UpdateBanner updates an existing banner
// @Summary      Update banner
// @Tags         banners
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                       true  "Banner ID"
// @Param        payload  body  service.UpdateBannerRequest  true  "Update payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/banners/{id} [put]
func (h *BannerHandler) UpdateBanner(c *gin.Context) {
	var req service.UpdateBannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	banner, err := h.bannerService.UpdateBanner(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, banner))
}

// DeleteBanner deletes a banner (soft delete)
// @Summary      Delete banner
// @Tags         banners
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Banner ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/banners/{id} [delete]
func (h *BannerHandler) DeleteBanner(c *gin.Context) {
	if err := h.bannerService.DeleteBanner(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Banner deleted successfully"}))
}

// ReorderBanners persists a new display order for a banner type
// @Summary      Reorder banners
// @Tags         banners
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        type     query  string                         true  "Banner type: customer, partner"
// @Param        payload  body   service.ReorderBannersRequest  true  "Ordered banner IDs"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/banners/reorder [put]
func (h *BannerHandler) ReorderBanners(c *gin.Context) {
	var req service.ReorderBannersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.bannerService.ReorderBanners(c.Request.Context(), c.Query("type"), req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Banners reordered successfully"}))
}

// ApproveBanner approves a partner-submitted banner
// @Summary      Approve banner
// @Tags         banners
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Banner ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/banners/{id}/approve [post]
func (h *BannerHandler) ApproveBanner(c *gin.Context) {
	banner, err := h.bannerService.ApproveBanner(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, banner))
}

// RejectBanner rejects a partner-submitted banner
// @Summary      Reject banner
// @Tags         banners
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Banner ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/banners/{id}/reject [post]
func (h *BannerHandler) RejectBanner(c *gin.Context) {
	banner, err := h.bannerService.RejectBanner(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, banner))
}
