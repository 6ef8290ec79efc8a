package middleware

import (
	"github.com/gin-gonic/gin"
)

// CORSMiddleware applies the cross-origin policy of the contact endpoint.
//
// The request origin is reflected only when it is on the allow list. Vary,
// Allow-Methods and Allow-Headers are sent on every response so a pre-flight
// can be inspected even when the real request will be refused by the browser.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if origin != "" && allowed[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
		}

		// Vary header to ensure caches differentiate by Origin
		c.Header("Vary", "Origin")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		c.Next()
	}
}
