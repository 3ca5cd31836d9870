package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	ping func(ctx context.Context) error
}

// NewHandler takes an optional database ping used by the health check.
func NewHandler(ping func(ctx context.Context) error) *Handler { return &Handler{ping: ping} }

func (h *Handler) Health(c echo.Context) error {
	body := map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	}
	if h.ping != nil {
		if err := h.ping(c.Request().Context()); err != nil {
			body["status"] = "degraded"
			body["db"] = err.Error()
			return c.JSON(http.StatusServiceUnavailable, body)
		}
		body["db"] = "ok"
	}
	return c.JSON(http.StatusOK, body)
}
