package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "leavedesk/internal/errors"
)

const (
	authRatePerSecond = 2
	authBurst         = 5
)

func (s *Server) registerRoutes() {
	s.echo.Use(s.setupRequestLoggerMiddleware())
	s.echo.Use(middleware.Recover())
	s.echo.Use(apperrors.Middleware())

	authLimiter := newRateLimiter(authRatePerSecond, authBurst)
	s.echo.POST("/auth/login", s.handleLogin, authLimiter)
	s.echo.POST("/auth/register", s.handleRegister, authLimiter)
	s.echo.POST("/auth/logout", s.handleLogout, s.requireSession)

	s.echo.GET("/dashboard/view", s.handleView, s.requireSession)
	s.echo.GET("/dashboard/stream", s.handleStream, s.requireSession)

	s.echo.POST("/leaves", s.handleSubmitLeave, s.requireSession)
	s.echo.POST("/leaves/:id/decide", s.handleDecide, s.requireSession)

	s.registerHealthRoutes()
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// requireSession gates authenticated views: no session means the caller
// belongs on the login/register surface.
func (s *Server) requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.app.Session() == nil {
			return apperrors.AuthorizationError("not signed in")
		}
		return next(c)
	}
}

func (s *Server) setupRequestLoggerMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		Skipper: func(c echo.Context) bool {
			// Health probes and scrapes would drown the log.
			path := c.Request().URL.Path
			return path == "/metrics" || path == "/health/live" || path == "/health/ready"
		},
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			slog.Info("Request", attrs...)
			return nil
		},
	})
}

func bindJSON(c echo.Context, out any) error {
	if err := c.Bind(out); err != nil {
		return apperrors.ValidationError("malformed request body")
	}
	return nil
}

func jsonOK(c echo.Context, payload any) error {
	if err := c.JSON(http.StatusOK, payload); err != nil {
		return apperrors.InternalError("failed to send JSON response", err)
	}
	return nil
}
