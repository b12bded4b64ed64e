package middleware

import (
	"lookFeed/pkg/logger"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorHandler is the catch-all echo HTTP error handler for anything the
// handlers did not map themselves.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "internal server error"

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		}
	}

	if code >= http.StatusInternalServerError {
		logger.Error("Unhandled request error", "path", c.Request().URL.Path, "error", err)
	}

	if err := c.JSON(code, map[string]string{"message": message}); err != nil {
		logger.Error("Failed to write error response", err)
	}
}
