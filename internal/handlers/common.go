package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"merchant-console/internal/clients"
	"merchant-console/internal/middleware"
	"merchant-console/internal/models"
)

// backendCtx carries the owner's backend session token into client calls
func backendCtx(c *gin.Context) context.Context {
	return clients.WithToken(c.Request.Context(), middleware.GetBackendToken(c))
}

// respondBackendError maps client failures onto the response. Backend
// rejections keep their status code; transport failures become 502.
func respondBackendError(c *gin.Context, err error) {
	if apiErr, ok := clients.AsAPIError(err); ok {
		c.JSON(apiErr.StatusCode, models.NewError("BACKEND_ERROR", apiErr.Message))
		return
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		c.JSON(http.StatusGatewayTimeout, models.NewError("BACKEND_TIMEOUT", "Marketplace backend did not respond"))
		return
	}
	c.JSON(http.StatusBadGateway, models.NewError("BACKEND_UNAVAILABLE", err.Error()))
}

// isBackendError reports whether err came from talking to the backend
// rather than from local state.
func isBackendError(err error) bool {
	if _, ok := clients.AsAPIError(err); ok {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

func validationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.NewError("VALIDATION_ERROR", err.Error()))
}

func paramInt64(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, models.NewFieldError("INVALID_ID", "Invalid "+name, name))
		return 0, false
	}
	return id, true
}
