package server

import "github.com/gofiber/fiber/v2"

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func success(c *fiber.Ctx, code int, message string, data any) error {
	return c.Status(code).JSON(successResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func errorResponse(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(errorBody{Message: message})
}
