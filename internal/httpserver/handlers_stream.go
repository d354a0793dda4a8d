package httpserver

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"leavedesk/internal/domain"
	apperrors "leavedesk/internal/errors"
)

const streamWriteTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// handleStream upgrades to a WebSocket and pushes every committed dashboard
// view to the client, starting with the current one. The connection closes
// when the client goes away or the subscription ends.
func (s *Server) handleStream(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return apperrors.InternalError("websocket upgrade failed", err)
	}

	views, cancel := s.app.Subscribe()
	go s.pumpViews(conn, views, cancel)
	return nil
}

func (s *Server) pumpViews(conn *websocket.Conn, views <-chan domain.DashboardView, cancel func()) {
	defer cancel()
	defer conn.Close()

	// Detect client close; the stream is write-only otherwise.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if view, ok := s.app.View(); ok {
		if err := writeView(conn, view); err != nil {
			return
		}
	}

	for {
		select {
		case view, ok := <-views:
			if !ok {
				return
			}
			if err := writeView(conn, view); err != nil {
				slog.Debug("View stream client gone", "error", err)
				return
			}
		case <-closed:
			return
		}
	}
}

func writeView(conn *websocket.Conn, view domain.DashboardView) error {
	data, err := json.Marshal(view)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
	return conn.WriteMessage(websocket.TextMessage, data)
}
