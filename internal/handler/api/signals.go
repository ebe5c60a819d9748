package api

import (
	"time"

	"CapTrack/internal/domain/models"
	"CapTrack/internal/usecase"
	xhttp "CapTrack/pkg/http"
	xlogger "CapTrack/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SignalsHandler serves signal reads.
type SignalsHandler struct {
	logger  *xlogger.Logger
	signals *usecase.SignalService
}

func NewSignalsHandler(logger *xlogger.Logger, signals *usecase.SignalService) *SignalsHandler {
	return &SignalsHandler{logger: logger, signals: signals}
}

func (h *SignalsHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/signals/today", h.Today)
	g.GET("/signals", h.List)
	g.GET("/signals/stats", h.Stats)
}

// Today returns today's signals, creating placeholders on first call.
func (h *SignalsHandler) Today(c echo.Context) error {
	req := &models.UserIDRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	signals, err := h.signals.Today(c.Request().Context(), req.UserID, time.Now())
	if err != nil {
		h.logger.Error("signals today error", xlogger.Error(err))
		return errorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, signals)
}

func (h *SignalsHandler) List(c echo.Context) error {
	req := &models.ListSignalsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	signals, total, err := h.signals.List(c.Request().Context(), req.UserID, req.Status, req.Page, req.Limit)
	if err != nil {
		h.logger.Error("signals list error", xlogger.Error(err))
		return errorResponse(c, err)
	}
	return xhttp.ListResponse(c, signals, total)
}

func (h *SignalsHandler) Stats(c echo.Context) error {
	req := &models.UserIDRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	stats, err := h.signals.Stats(c.Request().Context(), req.UserID, time.Now())
	if err != nil {
		h.logger.Error("signals stats error", xlogger.Error(err))
		return errorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, stats)
}
