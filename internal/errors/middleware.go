package errors

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// APIErrorsTotal tracks errors surfaced on the local API by type.
var APIErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "leavedesk_api_errors_total",
		Help: "Errors surfaced on the local API by error type",
	},
	[]string{"type"},
)

// Middleware returns an Echo middleware that converts structured errors into
// JSON responses with the taxonomy's status mapping.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			// Echo's own errors (404s, bind failures from middleware) keep
			// their status; let the default handler render them.
			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) {
				APIErrorsTotal.WithLabelValues(string(TypeInternal)).Inc()
				return err
			}

			structured := AsStructuredError(err)
			APIErrorsTotal.WithLabelValues(string(structured.Type)).Inc()
			logError(c, structured)

			if err := c.JSON(structured.HTTPStatus(), structured.ToResponse()); err != nil {
				return fmt.Errorf("failed to write error response: %w", err)
			}
			return nil
		}
	}
}

func logError(c echo.Context, err *Error) {
	attrs := []any{
		"error_type", err.Type,
		"message", err.Message,
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
	}
	if err.Cause != nil {
		attrs = append(attrs, "cause", err.Cause)
	}

	switch err.Type {
	case TypeInternal, TypeNetwork:
		slog.ErrorContext(c.Request().Context(), "Request failed", attrs...)
	default:
		slog.WarnContext(c.Request().Context(), "Request rejected", attrs...)
	}
}
