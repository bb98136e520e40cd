package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func CustomCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Set CORS headers
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "OPTIONS,GET,POST,PATCH,DELETE")
		c.Header("Access-Control-Allow-Headers", "Content-Type,Authorization,X-Tenant-Id,X-Subject-Id")
		c.Header("Access-Control-Max-Age", "86400")

		// Handle preflight with proper status code
		if c.Request.Method == http.MethodOptions {
			c.Header("Content-Length", "0")
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}

		c.Next()
	}
}
