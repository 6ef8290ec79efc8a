package response

import (
	"github.com/gin-gonic/gin"
)

// Response is the JSON envelope the contact form expects:
// {"ok": true} or {"ok": false, "error": "..."}
type Response struct {
	OK    bool        `json:"ok"`
	Error string      `json:"error,omitempty"`
	Data  interface{} `json:"data,omitempty"`
}

// Success sends a success response
func Success(c *gin.Context, code int, data interface{}) {
	c.JSON(code, Response{
		OK:   true,
		Data: data,
	})
}

// Error sends an error response
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		OK:    false,
		Error: message,
	})
}
