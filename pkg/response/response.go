package response

import (
	"github.com/gin-gonic/gin"
)

// ErrorBody is the shape of every error response.
type ErrorBody struct {
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

type MessageBody struct {
	Message string `json:"message"`
}

// JSON writes data as the response body.
func JSON[T any](c *gin.Context, status int, data T) {
	c.JSON(status, data)
}

// Message writes {"message": msg}.
func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, MessageBody{Message: msg})
}

// Error writes an error body and aborts the chain.
func Error(c *gin.Context, status int, message string, details map[string]string) {
	c.AbortWithStatusJSON(status, ErrorBody{Message: message, Details: details})
}
