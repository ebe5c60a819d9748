package api

import (
	"errors"

	"CapTrack/internal/repository"
	"CapTrack/internal/usecase"
	xhttp "CapTrack/pkg/http"

	"github.com/labstack/echo/v4"
)

// errorResponse maps domain errors to HTTP responses.
func errorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError(err.Error()).WithError(err))
	case errors.Is(err, usecase.ErrInsufficientBalance):
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("insufficient balance").WithError(err))
	case errors.Is(err, usecase.ErrRevenueExists):
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("revenue period already exists").WithError(err))
	default:
		return xhttp.AppErrorResponse(c, err)
	}
}
