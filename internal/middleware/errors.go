package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every error response
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// RespondError sends {"detail": message} with the given status
func RespondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Detail: message})
}

// AbortWithError sends the error body and stops the handler chain
func AbortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Detail: message})
}

// UnprocessableEntity sends a 422 error for malformed request bodies
func UnprocessableEntity(c *gin.Context, message string) {
	RespondError(c, http.StatusUnprocessableEntity, message)
}

// InternalError sends a 500 error
func InternalError(c *gin.Context, message string) {
	RespondError(c, http.StatusInternalServerError, message)
}

// GatewayTimeout sends a 504 error when the completion service is too slow
func GatewayTimeout(c *gin.Context, message string) {
	RespondError(c, http.StatusGatewayTimeout, message)
}

// ServiceUnavailable sends a 503 error with a Retry-After hint in seconds
func ServiceUnavailable(c *gin.Context, message string, retryAfterSeconds int) {
	if retryAfterSeconds > 0 {
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
	}
	AbortWithError(c, http.StatusServiceUnavailable, message)
}

// Recovery turns panics into a 500 with the error envelope
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		AbortWithError(c, http.StatusInternalServerError, "internal server error")
	})
}
