package http

import (
	"log/slog"
	"net/http"

	ucAnalytics "loanpro-backend/internal/usecase/analytics"

	"github.com/labstack/echo/v4"
)

type AnalyticsHandler struct {
	uc  *ucAnalytics.Usecase
	log *slog.Logger
}

func NewAnalyticsHandler(uc *ucAnalytics.Usecase, log *slog.Logger) *AnalyticsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AnalyticsHandler{uc: uc, log: log}
}

func (h *AnalyticsHandler) Summary(c echo.Context) error {
	s, err := h.uc.Summary(c.Request().Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, s)
}
