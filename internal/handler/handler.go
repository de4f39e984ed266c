package handler

import (
	"marketplace-backend/pkg/apperr"
	"marketplace-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// respondError maps a service error onto the response envelope. Coded
// errors carry their machine-readable code; everything else is a 500.
func respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	code := apperr.CodeOf(err)
	if code == "" {
		c.JSON(status, response.Error(status, err.Error()))
		return
	}
	c.JSON(status, response.ErrorWithCode(status, err.Error(), code))
}
