// Package response renders the HTTP bodies the API exposes. Success bodies
// carry the payload directly; every error body is a single message field.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// MessageBody is the shape of every error response, and of confirmations
// that carry no other data.
type MessageBody struct {
	Message string `json:"message"`
}

// JSON writes a payload with the given status code.
func JSON(c echo.Context, statusCode int, data any) error {
	return c.JSON(statusCode, data)
}

// Created writes a 201 with the payload.
func Created(c echo.Context, data any) error {
	return c.JSON(http.StatusCreated, data)
}

// Message writes a confirmation body with the given status code.
func Message(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, MessageBody{Message: message})
}

// Error writes an error body with the given status code.
func Error(c echo.Context, statusCode int, message string) error {
	if message == "" {
		message = http.StatusText(statusCode)
	}

	return c.JSON(statusCode, MessageBody{Message: message})
}
