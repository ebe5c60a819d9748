package api

import (
	"time"

	"CapTrack/internal/domain/models"
	"CapTrack/internal/usecase"
	xhttp "CapTrack/pkg/http"
	xlogger "CapTrack/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ProjectionHandler serves capital forecasts.
type ProjectionHandler struct {
	logger    *xlogger.Logger
	projector *usecase.Projector
}

func NewProjectionHandler(logger *xlogger.Logger, projector *usecase.Projector) *ProjectionHandler {
	return &ProjectionHandler{logger: logger, projector: projector}
}

func (h *ProjectionHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/projection", h.Project)
}

func (h *ProjectionHandler) Project(c echo.Context) error {
	req := &models.ProjectionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	periods, err := h.projector.Project(c.Request().Context(), req, time.Now())
	if err != nil {
		h.logger.Error("projection error", xlogger.Error(err))
		return errorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, periods)
}
