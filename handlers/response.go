package handlers

import "github.com/labstack/echo/v4"

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func Success(c echo.Context, status int, data any, message string) error {
	if message == "" {
		message = "Success"
	}
	return c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}
