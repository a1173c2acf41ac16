package handlers

import (
	"errors"
	"net/http"

	"stroymart/internal/common"
	"stroymart/internal/repositories"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type UserHandlers struct {
	userRepo repositories.UserRepository
	logger   *zap.Logger
}

func NewUserHandlers(userRepo repositories.UserRepository, logger *zap.Logger) *UserHandlers {
	return &UserHandlers{
		userRepo: userRepo,
		logger:   logger,
	}
}

// GetProfile returns the authenticated caller's own user record.
func (h *UserHandlers) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return common.SendNotFoundError(c, "User")
		}
		h.logger.Error("profile lookup failed", zap.String("user_id", userID.String()), zap.Error(err))
		return common.SendServerError(c, "Failed to load profile")
	}

	return c.JSON(http.StatusOK, user)
}

// UpdateRolesRequest carries the full replacement role set for a user
type UpdateRolesRequest struct {
	Roles []string `json:"roles"`
}

// UpdateRoles replaces a user's role set. Roles live on the user row and
// are stamped into tokens by the auth provider on the next login.
func (h *UserHandlers) UpdateRoles(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "user id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req UpdateRolesRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if len(req.Roles) == 0 {
		return common.SendValidationError(c, "roles", "at least one role is required")
	}

	if err := h.userRepo.UpdateRoles(ctx, id, req.Roles); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return common.SendNotFoundError(c, "User")
		}
		h.logger.Error("role update failed", zap.String("user_id", id.String()), zap.Error(err))
		return common.SendServerError(c, "Failed to update roles")
	}

	return c.NoContent(http.StatusNoContent)
}
