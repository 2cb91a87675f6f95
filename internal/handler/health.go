package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health answers liveness checks with a plain "ok".
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
