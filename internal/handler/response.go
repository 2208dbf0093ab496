package handler

import (
	"github.com/gin-gonic/gin"
)

type Response struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// RespondError records err on the context and stops the handler chain. The
// error-rendering middleware maps it to a status and body after the chain
// unwinds, so every error response is shaped in one place.
func RespondError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
