package middleware

import (
	"net/http"

	"truckzone-contact-api/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// MethodGate answers pre-flight requests with an empty 204 and rejects every
// method other than the allowed one with 405.
func MethodGate(allowed string) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case allowed:
			c.Next()
		case http.MethodOptions:
			c.AbortWithStatus(http.StatusNoContent)
		default:
			c.Error(apperror.MethodNotAllowed())
			c.Abort()
		}
	}
}
