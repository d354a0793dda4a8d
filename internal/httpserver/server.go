// Package httpserver exposes the local JSON API and view stream for UIs
// attached to the dashboard. Handlers are thin: every rule lives in the
// application layer.
package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"leavedesk/internal/domain"
	"leavedesk/internal/platform/config"
)

// appService is the slice of the application layer the server needs.
type appService interface {
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	Register(ctx context.Context, form domain.RegisterForm) error
	Logout() error
	Session() *domain.Session
	View() (domain.DashboardView, bool)
	Subscribe() (<-chan domain.DashboardView, func())
	Submit(ctx context.Context, form *domain.LeaveForm) (*domain.LeaveRequest, error)
	Decide(ctx context.Context, requestID string, status domain.LeaveStatus, comment string) error
	ProbeBackend(ctx context.Context) error
}

type Server struct {
	echo      *echo.Echo
	config    *config.Config
	app       appService
	startTime time.Time
}

func NewServer(cfg *config.Config, app appService) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:      e,
		config:    cfg,
		app:       app,
		startTime: time.Now(),
	}

	srv.registerRoutes()
	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
