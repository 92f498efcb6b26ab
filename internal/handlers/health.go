package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ConnCounter reports how many live connections this process holds.
type ConnCounter interface {
	Len() int
}

type HealthHandler struct {
	presence ConnCounter
}

func NewHealthHandler(presence ConnCounter) *HealthHandler {
	return &HealthHandler{presence: presence}
}

func (h *HealthHandler) HealthCheck(c echo.Context) error {
	return success(c, http.StatusOK, echo.Map{
		"status":      "healthy",
		"service":     "socialpulse-api",
		"connections": h.presence.Len(),
	})
}
