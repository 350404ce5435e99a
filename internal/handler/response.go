package handler

import (
	"github.com/labstack/echo/v4"
)

// Response is the JSON envelope of every non-file reply.
type Response struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ResponseError writes a failure envelope.
func ResponseError(c echo.Context, status int, msg string, err error) error {
	resp := Response{Message: msg}
	if err != nil {
		resp.Error = err.Error()
	}
	return c.JSON(status, resp)
}

// ResponseSuccess writes a success envelope.
func ResponseSuccess(c echo.Context, status int, msg string, data interface{}) error {
	return c.JSON(status, Response{Message: msg, Data: data})
}
