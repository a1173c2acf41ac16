package handlers

import (
	"errors"
	"net/http"

	"stroymart/internal/common"
	"stroymart/internal/repositories"
	"stroymart/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type DebtorHandlers struct {
	debtorSvc services.DebtorService
	logger    *zap.Logger
}

func NewDebtorHandlers(debtorSvc services.DebtorService, logger *zap.Logger) *DebtorHandlers {
	return &DebtorHandlers{
		debtorSvc: debtorSvc,
		logger:    logger,
	}
}

// ListDebtorsRequest represents query parameters for listing debtors
type ListDebtorsRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

func (h *DebtorHandlers) ListDebtors(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListDebtorsRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}
	limit, offset := common.ValidatePaginationParams(req.Limit, req.Offset)

	debtors, err := h.debtorSvc.ListUnsettled(ctx, limit, offset)
	if err != nil {
		h.logger.Error("debtor list failed", zap.Error(err))
		return common.SendServerError(c, "Failed to list debtors")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"debtors": debtors,
		"limit":   limit,
		"offset":  offset,
	})
}

func (h *DebtorHandlers) RemindDebtor(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "debtor id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.debtorSvc.Remind(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrDebtorNotFound) {
			return common.SendNotFoundError(c, "Debtor")
		}
		h.logger.Error("debtor reminder failed", zap.String("debtor_id", id.String()), zap.Error(err))
		return common.SendServerError(c, "Failed to send reminder")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *DebtorHandlers) SettleDebtor(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "debtor id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.debtorSvc.Settle(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrDebtorNotFound) {
			return common.SendNotFoundError(c, "Debtor")
		}
		h.logger.Error("debtor settle failed", zap.String("debtor_id", id.String()), zap.Error(err))
		return common.SendServerError(c, "Failed to settle debtor")
	}
	return c.NoContent(http.StatusNoContent)
}
