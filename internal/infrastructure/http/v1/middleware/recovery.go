// Package middleware provides HTTP middleware components.
package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"bankreco/internal/core/apperror"
	"bankreco/internal/infrastructure/http/v1/dto"
	"bankreco/pkg/logger"
)

// Recovery turns a panic into a 500 answer.
// The stack trace is logged, never returned.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error(c.Request.Context(), "panic recovered",
					"error", rec,
					"path", c.Request.URL.Path,
					"stack", string(debug.Stack()),
				)
				appErr := apperror.NewInternal(fmt.Errorf("panic: %v", rec)).
					WithDetail("request_id", c.GetString("request_id"))
				_ = c.Error(appErr)
				// ErrorHandler has already returned when the panic unwinds here.
				if !c.Writer.Written() {
					c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
						Code:    appErr.Code,
						Message: appErr.Message,
						Details: appErr.Details,
					})
					return
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}
