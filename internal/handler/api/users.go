package api

import (
	"strconv"

	"CapTrack/internal/domain/models"
	drepo "CapTrack/internal/domain/repository"
	xhttp "CapTrack/pkg/http"
	xlogger "CapTrack/pkg/logger"

	"github.com/labstack/echo/v4"
)

// UsersHandler serves user capital reads and updates.
type UsersHandler struct {
	logger *xlogger.Logger
	users  drepo.UserRepository
}

func NewUsersHandler(logger *xlogger.Logger, users drepo.UserRepository) *UsersHandler {
	return &UsersHandler{logger: logger, users: users}
}

func (h *UsersHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/users/:id", h.Get)
	g.PUT("/users/:id/capital", h.UpdateCapital)
}

func (h *UsersHandler) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return xhttp.BadRequestResponse(c, []xhttp.ValidationError{{
			Code: "ERR_BAD_ID", Field: "id", Message: "id must be a positive integer",
		}})
	}

	user, err := h.users.GetByID(c.Request().Context(), id)
	if err != nil {
		h.logger.Error("user get error", xlogger.Error(err))
		return errorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, user)
}

func (h *UsersHandler) UpdateCapital(c echo.Context) error {
	req := &models.UpdateCapitalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	user, err := h.users.UpdateCapital(c.Request().Context(), req.UserID,
		req.StartingCapital, req.WeeklyCapital, req.RunningCapital)
	if err != nil {
		h.logger.Error("user capital update error", xlogger.Error(err))
		return errorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, user)
}
