package httpserver

import (
	"github.com/labstack/echo/v4"

	"leavedesk/internal/domain"
	apperrors "leavedesk/internal/errors"
)

// viewResponse is what an attached UI needs to render the dashboard: the
// signed-in user plus the last committed role-projected view. synced is false
// until the first fetch cycle of the session lands.
type viewResponse struct {
	User   domain.User          `json:"user"`
	Synced bool                 `json:"synced"`
	View   domain.DashboardView `json:"view"`
}

func (s *Server) handleView(c echo.Context) error {
	sess := s.app.Session()
	if sess == nil {
		return apperrors.AuthorizationError("not signed in")
	}

	view, ok := s.app.View()
	return jsonOK(c, viewResponse{
		User:   sess.User,
		Synced: ok,
		View:   view,
	})
}

func (s *Server) handleSubmitLeave(c echo.Context) error {
	var form domain.LeaveForm
	if err := bindJSON(c, &form); err != nil {
		return err
	}

	created, err := s.app.Submit(c.Request().Context(), &form)
	if err != nil {
		return err
	}
	return jsonOK(c, created)
}

type decideRequest struct {
	Status  domain.LeaveStatus `json:"status"`
	Comment string             `json:"comment,omitempty"`
}

func (s *Server) handleDecide(c echo.Context) error {
	requestID := c.Param("id")
	if requestID == "" {
		return apperrors.ValidationError("request id is required")
	}

	var req decideRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	if err := s.app.Decide(c.Request().Context(), requestID, req.Status, req.Comment); err != nil {
		return err
	}
	return jsonOK(c, map[string]string{"status": "decided"})
}
