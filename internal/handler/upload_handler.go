package handler

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"marketplace-backend/internal/middleware"
	"marketplace-backend/internal/model"
	"marketplace-backend/internal/storage"
	"marketplace-backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	maxImageSize = 2 << 20 // banner images
	maxAudioSize = 5 << 20 // custom order voice notes
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

var allowedAudioExts = map[string]bool{
	".mp3": true,
	".m4a": true,
	".ogg": true,
}

type UploadHandler struct {
	store storage.Storage
}

func NewUploadHandler(store storage.Storage) *UploadHandler {
	return &UploadHandler{store: store}
}

func (h *UploadHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/api/uploads", middleware.RequireRole(model.RoleAdmin, model.RoleMerchant), h.Upload)
	router.GET("/uploads/*key", h.Serve)
}

// Upload stores a banner image or custom order attachment
// @Summary      Upload file
// @Tags         uploads
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        file    formData  file    true   "File to upload"
// @Param        prefix  formData  string  false  "Key prefix, e.g. banners or custom-orders"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/uploads [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "File is required"))
		return
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	switch {
	case allowedImageExts[ext]:
		if fileHeader.Size > maxImageSize {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Image exceeds the 2MB limit"))
			return
		}
	case allowedAudioExts[ext]:
		if fileHeader.Size > maxAudioSize {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Audio exceeds the 5MB limit"))
			return
		}
	default:
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Unsupported file type: "+ext))
		return
	}

	prefix := c.PostForm("prefix")
	if prefix == "" {
		prefix = "banners"
	}
	key := fmt.Sprintf("%s/%s/%s%s", prefix, time.Now().Format("2006-01"), uuid.New().String(), ext)

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to read upload"))
		return
	}
	defer file.Close()

	url, err := h.store.Save(key, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, gin.H{"key": key, "url": url}))
}

// Serve streams a stored file back to the client
// @Summary      Download file
// @Tags         uploads
// @Produce      octet-stream
// @Param        key  path  string  true  "Storage key"
// @Success      200
// @Failure      404  {object}  response.Response
// @Router       /uploads/{key} [get]
func (h *UploadHandler) Serve(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")

	reader, err := h.store.Open(key)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "File not found"))
		return
	}
	defer reader.Close()

	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}
