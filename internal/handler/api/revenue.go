package api

import (
	"time"

	"CapTrack/internal/domain/models"
	"CapTrack/internal/usecase"
	xhttp "CapTrack/pkg/http"
	xlogger "CapTrack/pkg/logger"
	"CapTrack/pkg/util"

	"github.com/labstack/echo/v4"
)

// RevenueHandler serves the monthly rollups.
type RevenueHandler struct {
	logger  *xlogger.Logger
	revenue *usecase.RevenueService
}

func NewRevenueHandler(logger *xlogger.Logger, revenue *usecase.RevenueService) *RevenueHandler {
	return &RevenueHandler{logger: logger, revenue: revenue}
}

func (h *RevenueHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/revenue", h.List)
	g.GET("/revenue/current", h.Current)
	g.POST("/revenue", h.Create)
	g.POST("/revenue/recompute", h.Recompute)
}

// Create seeds a month's rollup explicitly, rejecting existing periods.
func (h *RevenueHandler) Create(c echo.Context) error {
	req := &models.CreateRevenueRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	rev, err := h.revenue.Create(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("revenue create error", xlogger.Error(err))
		return errorResponse(c, err)
	}
	return xhttp.CreatedResponse(c, rev)
}

func (h *RevenueHandler) List(c echo.Context) error {
	req := &models.ListRevenueRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if req.Period != "" {
		at, ok := parsePeriod(req.Period)
		if !ok {
			return xhttp.BadRequestResponse(c, []xhttp.ValidationError{{
				Code: "ERR_BAD_PERIOD", Field: "period", Message: "period must look like 2025-02",
			}})
		}
		rev, err := h.revenue.Get(c.Request().Context(), req.UserID, at)
		if err != nil {
			h.logger.Error("revenue get error", xlogger.Error(err))
			return errorResponse(c, err)
		}
		return xhttp.SuccessResponse(c, rev)
	}

	revenues, err := h.revenue.List(c.Request().Context(), req.UserID, req.Year)
	if err != nil {
		h.logger.Error("revenue list error", xlogger.Error(err))
		return errorResponse(c, err)
	}
	return xhttp.ListResponse(c, revenues, int64(len(revenues)))
}

// Current returns the rollup for the month in progress.
func (h *RevenueHandler) Current(c echo.Context) error {
	req := &models.UserIDRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	rev, err := h.revenue.Get(c.Request().Context(), req.UserID, time.Now())
	if err != nil {
		h.logger.Error("revenue current error", xlogger.Error(err))
		return errorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, rev)
}

// Recompute rebuilds a month's rollup from the raw ledgers.
func (h *RevenueHandler) Recompute(c echo.Context) error {
	req := &models.ListRevenueRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	at := time.Now()
	if req.Period != "" {
		parsed, ok := parsePeriod(req.Period)
		if !ok {
			return xhttp.BadRequestResponse(c, []xhttp.ValidationError{{
				Code: "ERR_BAD_PERIOD", Field: "period", Message: "period must look like 2025-02",
			}})
		}
		at = parsed
	}

	rev, err := h.revenue.Recompute(c.Request().Context(), req.UserID, at)
	if err != nil {
		h.logger.Error("revenue recompute error", xlogger.Error(err))
		return errorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, rev)
}

func parsePeriod(s string) (time.Time, bool) {
	return util.ParsePeriod(s)
}
