package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is a liveness endpoint for load balancers. It does not call the
// TalkMaster API.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
