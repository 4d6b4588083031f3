package httpapi

import "github.com/labstack/echo/v4"

// Responses follow the jsend convention: "success" wraps data, "fail" is a
// client problem, "error" is ours.
type envelope struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func success(c echo.Context, code int, data any) error {
	return c.JSON(code, envelope{Status: "success", Data: data})
}

func fail(c echo.Context, code int, message string) error {
	return c.JSON(code, envelope{Status: "fail", Message: message})
}

func serverError(c echo.Context, code int, message string) error {
	return c.JSON(code, envelope{Status: "error", Message: message})
}
