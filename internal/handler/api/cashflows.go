package api

import (
	"strconv"

	"CapTrack/internal/domain/models"
	"CapTrack/internal/usecase"
	xhttp "CapTrack/pkg/http"
	xlogger "CapTrack/pkg/logger"

	"github.com/labstack/echo/v4"
)

// CashflowsHandler serves deposit and withdrawal CRUD.
type CashflowsHandler struct {
	logger    *xlogger.Logger
	cashflows *usecase.CashflowService
}

func NewCashflowsHandler(logger *xlogger.Logger, cashflows *usecase.CashflowService) *CashflowsHandler {
	return &CashflowsHandler{logger: logger, cashflows: cashflows}
}

func (h *CashflowsHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/deposits", h.ListDeposits)
	g.POST("/deposits", h.CreateDeposit)
	g.PUT("/deposits/:id", h.UpdateDeposit)
	g.DELETE("/deposits/:id", h.DeleteDeposit)

	g.GET("/withdrawals", h.ListWithdrawals)
	g.POST("/withdrawals", h.CreateWithdrawal)
	g.PUT("/withdrawals/:id", h.UpdateWithdrawal)
	g.DELETE("/withdrawals/:id", h.DeleteWithdrawal)
}

func (h *CashflowsHandler) CreateDeposit(c echo.Context) error {
	req := &models.CreateDepositRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	d, err := h.cashflows.CreateDeposit(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("create deposit error", xlogger.Error(err))
		return errorResponse(c, err)
	}
	return xhttp.CreatedResponse(c, d)
}

func (h *CashflowsHandler) UpdateDeposit(c echo.Context) error {
	req := &models.UpdateDepositRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	d, err := h.cashflows.UpdateDeposit(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("update deposit error", xlogger.Error(err))
		return errorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, d)
}

func (h *CashflowsHandler) DeleteDeposit(c echo.Context) error {
	userID, id, verr := cashflowIDs(c)
	if verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if err := h.cashflows.DeleteDeposit(c.Request().Context(), userID, id); err != nil {
		h.logger.Error("delete deposit error", xlogger.Error(err))
		return errorResponse(c, err)
	}
	return xhttp.NoContentResponse(c)
}

func (h *CashflowsHandler) ListDeposits(c echo.Context) error {
	req := &models.ListCashflowsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	deposits, total, err := h.cashflows.ListDeposits(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("list deposits error", xlogger.Error(err))
		return errorResponse(c, err)
	}
	return xhttp.ListResponse(c, deposits, total)
}

func (h *CashflowsHandler) CreateWithdrawal(c echo.Context) error {
	req := &models.CreateWithdrawalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	w, err := h.cashflows.CreateWithdrawal(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("create withdrawal error", xlogger.Error(err))
		return errorResponse(c, err)
	}
	return xhttp.CreatedResponse(c, w)
}

func (h *CashflowsHandler) UpdateWithdrawal(c echo.Context) error {
	req := &models.UpdateWithdrawalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	w, err := h.cashflows.UpdateWithdrawal(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("update withdrawal error", xlogger.Error(err))
		return errorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, w)
}

func (h *CashflowsHandler) DeleteWithdrawal(c echo.Context) error {
	userID, id, verr := cashflowIDs(c)
	if verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if err := h.cashflows.DeleteWithdrawal(c.Request().Context(), userID, id); err != nil {
		h.logger.Error("delete withdrawal error", xlogger.Error(err))
		return errorResponse(c, err)
	}
	return xhttp.NoContentResponse(c)
}

func (h *CashflowsHandler) ListWithdrawals(c echo.Context) error {
	req := &models.ListCashflowsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	withdrawals, total, err := h.cashflows.ListWithdrawals(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("list withdrawals error", xlogger.Error(err))
		return errorResponse(c, err)
	}
	return xhttp.ListResponse(c, withdrawals, total)
}

func cashflowIDs(c echo.Context) (int64, int64, interface{}) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, 0, []xhttp.ValidationError{{Code: "ERR_BAD_ID", Field: "id", Message: "id must be a positive integer"}}
	}
	userID, err := strconv.ParseInt(c.QueryParam("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		return 0, 0, []xhttp.ValidationError{{Code: "ERR_BAD_ID", Field: "user_id", Message: "user_id must be a positive integer"}}
	}
	return userID, id, nil
}
