package middleware

import (
	"errors"
	"net/http"

	"truckzone-contact-api/internal/delivery/http/response"
	"truckzone-contact-api/pkg/apperror"
	"truckzone-contact-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler is the outermost boundary of request handling. AppErrors are
// rendered with their own status and message; anything else is logged and
// reported as a generic 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		requestID := c.GetString(RequestIDKey)

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Code >= http.StatusInternalServerError {
				logger.Log.Error("Request failed", "request_id", requestID, "path", c.Request.URL.Path, "error", err, "cause", appErr.Err)
			}
			response.Error(c, appErr.Code, appErr.Message)
			return
		}

		// SECURITY: Never expose internal error details to clients.
		logger.Log.Error("Internal Server Error", "request_id", requestID, "path", c.Request.URL.Path, "error", err)
		response.Error(c, http.StatusInternalServerError, "Internal Server Error")
	}
}

// Recovery turns panics into the same generic 500 body.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Log.Error("Panic recovered", "request_id", c.GetString(RequestIDKey), "path", c.Request.URL.Path, "panic", recovered)
		response.Error(c, http.StatusInternalServerError, "Internal Server Error")
		c.Abort()
	})
}
