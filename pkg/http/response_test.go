package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestDataResponseWritesStatusOnWire(t *testing.T) {
	c, rec := newTestContext(t)

	err := DataResponse(c, http.StatusCreated, map[string]string{"id": "1"})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, http.StatusCreated, body.Status)
	require.Equal(t, "Created", body.Message)
}

func TestAppErrorResponseUsesErrorStatus(t *testing.T) {
	c, rec := newTestContext(t)

	cause := errors.New("no row")
	err := AppErrorResponse(c, NotFoundError("user not found").WithError(cause))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "ERR_NOT_FOUND")
	require.NotContains(t, rec.Body.String(), "no row")
}

func TestAppErrorResponseOpaqueOnUnknownError(t *testing.T) {
	c, rec := newTestContext(t)

	err := AppErrorResponse(c, errors.New("pq: connection refused"))
	require.NoError(t, err)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "connection refused")
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	appErr := BadRequestError("bad input").WithError(cause)
	require.ErrorIs(t, appErr, cause)
	require.Equal(t, "bad input: boom", appErr.Error())
}
