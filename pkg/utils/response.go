package utils

import (
	"github.com/gin-gonic/gin"
)

// Response is the envelope every API body is wrapped in.
type Response struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

func SuccessResponse(c *gin.Context, status int, message string, data interface{}) {
	if data == nil {
		data = gin.H{}
	}

	c.JSON(status, Response{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < 400,
	})
}

func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, Response{
		StatusCode: status,
		Data:       nil,
		Message:    message,
		Success:    false,
	})
}
