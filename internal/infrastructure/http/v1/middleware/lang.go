package middleware

import (
	"github.com/gin-gonic/gin"

	appctx "bankreco/internal/core/context"
	"bankreco/internal/core/i18n"
)

// Language negotiates the UI language from the lang query parameter or
// the Accept-Language header and stores it in the request context.
func Language() gin.HandlerFunc {
	return func(c *gin.Context) {
		value := c.Query("lang")
		if value == "" {
			value = c.GetHeader("Accept-Language")
		}
		lang := i18n.Parse(value)

		c.Request = c.Request.WithContext(appctx.WithLang(c.Request.Context(), string(lang)))
		c.Set("lang", string(lang))
		c.Header("Content-Language", string(lang))

		c.Next()
	}
}
