package middlewares

import (
	"github.com/gin-gonic/gin"
)

func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		// uploaded dish images are served from the same origin
		c.Header("Content-Security-Policy", "default-src 'self'; img-src 'self' data: https:")

		c.Next()
	}
}
