package errors

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runMiddleware(t *testing.T, handler echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := Middleware()(handler)(c)
	require.NoError(t, err)
	return rec
}

func TestMiddleware_StructuredError(t *testing.T) {
	rec := runMiddleware(t, func(c echo.Context) error {
		return ConflictError("request is no longer pending")
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "request is no longer pending")
	assert.Contains(t, rec.Body.String(), `"type":"conflict"`)
}

func TestMiddleware_UnknownErrorBecomesInternal(t *testing.T) {
	rec := runMiddleware(t, func(c echo.Context) error {
		return errors.New("surprise")
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMiddleware_BackendStatusPassesThrough(t *testing.T) {
	rec := runMiddleware(t, func(c echo.Context) error {
		return BackendError(http.StatusForbidden, "not allowed to view pending leaves")
	})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "not allowed to view pending leaves")
}

func TestMiddleware_NoError(t *testing.T) {
	rec := runMiddleware(t, func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMiddleware_EchoHTTPErrorPassesThrough(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := Middleware()(func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "missing")
	})(c)

	var httpErr *echo.HTTPError
	assert.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}
