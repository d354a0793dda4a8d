package httpserver

import (
	"github.com/labstack/echo/v4"

	"leavedesk/internal/domain"
	apperrors "leavedesk/internal/errors"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.ValidationError("email and password are required")
	}

	sess, err := s.app.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return jsonOK(c, sess)
}

func (s *Server) handleRegister(c echo.Context) error {
	var form domain.RegisterForm
	if err := bindJSON(c, &form); err != nil {
		return err
	}

	if err := s.app.Register(c.Request().Context(), form); err != nil {
		return err
	}
	return jsonOK(c, map[string]string{"status": "registered"})
}

func (s *Server) handleLogout(c echo.Context) error {
	if err := s.app.Logout(); err != nil {
		return err
	}
	return jsonOK(c, map[string]string{"status": "signed out"})
}
