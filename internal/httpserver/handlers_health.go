package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "leavedesk/internal/errors"
	"leavedesk/internal/platform/version"
)

const readinessProbeTimeout = 5 * time.Second

func (s *Server) registerHealthRoutes() {
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/version", s.handleVersion)
}

func (s *Server) handleLiveness(c echo.Context) error {
	return jsonOK(c, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.startTime).Seconds(),
	})
}

// handleReadiness probes the backend: the dashboard is not ready to serve
// anything useful while its collaborator is unreachable.
func (s *Server) handleReadiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessProbeTimeout)
	defer cancel()

	if err := s.app.ProbeBackend(ctx); err != nil {
		response := map[string]any{
			"status": "unhealthy",
			"error":  err.Error(),
		}
		if err := c.JSON(http.StatusServiceUnavailable, response); err != nil {
			return apperrors.InternalError("failed to send JSON response", err)
		}
		return nil
	}

	return jsonOK(c, map[string]string{"status": "ready"})
}

func (s *Server) handleVersion(c echo.Context) error {
	return jsonOK(c, version.Get())
}
