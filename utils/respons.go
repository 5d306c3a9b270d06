package utils

import (
	"github.com/gin-gonic/gin"
)

// MessageResponse is the body of every error and of message-only replies.
type MessageResponse struct {
	Message string `json:"message"`
}

// RespondJSON writes the payload as-is, without an envelope.
func RespondJSON(c *gin.Context, code int, data interface{}) {
	c.JSON(code, data)
}

func RespondError(c *gin.Context, code int, err error) {
	c.AbortWithStatusJSON(code, MessageResponse{Message: err.Error()})
}

// RespondMessage dipakai untuk respon yang hanya berisi pesan (mis. setelah delete).
func RespondMessage(c *gin.Context, code int, message string) {
	c.JSON(code, MessageResponse{Message: message})
}
