package handlers

import (
	"errors"
	"net/http"

	"stroymart/internal/common"
	"stroymart/internal/models"
	"stroymart/internal/repositories"
	"stroymart/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type CartHandlers struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
	deliverySvc services.DeliveryService
	orderSvc    services.OrderService
	logger      *zap.Logger
}

func NewCartHandlers(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository, deliverySvc services.DeliveryService, orderSvc services.OrderService, logger *zap.Logger) *CartHandlers {
	return &CartHandlers{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		deliverySvc: deliverySvc,
		orderSvc:    orderSvc,
		logger:      logger,
	}
}

// GetCart returns the customer's cart lines with the delivery info block.
// delivery_info is null for an empty cart and when the computation
// failed; the client must not read null as a zero fee.
func (h *CartHandlers) GetCart(c echo.Context) error {
	ctx := c.Request().Context()

	customerID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	lines, err := h.cartRepo.ListLines(ctx, customerID)
	if err != nil {
		h.logger.Error("cart fetch failed", zap.Error(err))
		return common.SendServerError(c, "Failed to load cart")
	}

	info, err := h.deliverySvc.ForCart(ctx, lines)
	if err != nil {
		h.logger.Warn("delivery info computation failed", zap.Error(err))
		info = nil
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"items":         lines,
		"delivery_info": info,
	})
}

// AddCartItemRequest represents the add-to-cart payload
type AddCartItemRequest struct {
	ProductID      string `json:"product_id" validate:"required"`
	Quantity       int    `json:"quantity" validate:"required,min=1"`
	RentalDuration *int   `json:"rental_duration"`
}

func (h *CartHandlers) AddItem(c echo.Context) error {
	ctx := c.Request().Context()

	customerID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Quantity <= 0 {
		return common.SendValidationError(c, "quantity", "quantity must be positive")
	}
	if req.RentalDuration != nil && *req.RentalDuration <= 0 {
		return common.SendValidationError(c, "rental_duration", "rental duration must be positive")
	}

	productID, err := common.ValidateUUID(req.ProductID, "product_id")
	if err != nil {
		return common.SendValidationError(c, "product_id", err.Error())
	}

	product, err := h.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return common.SendNotFoundError(c, "Product")
		}
		h.logger.Error("product lookup failed", zap.Error(err))
		return common.SendServerError(c, "Failed to add item")
	}
	if !product.IsAvailable {
		return common.SendClientError(c, "Product is not available")
	}

	item := &models.CartItem{
		CustomerID:     customerID,
		ProductID:      productID,
		Quantity:       req.Quantity,
		RentalDuration: req.RentalDuration,
	}
	if err := h.cartRepo.AddItem(ctx, item); err != nil {
		h.logger.Error("cart add failed", zap.Error(err))
		return common.SendServerError(c, "Failed to add item")
	}

	return c.JSON(http.StatusCreated, item)
}

func (h *CartHandlers) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()

	customerID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	itemID, err := common.ValidateUUID(c.Param("id"), "item id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.cartRepo.RemoveItem(ctx, customerID, itemID); err != nil {
		if errors.Is(err, repositories.ErrCartItemNotFound) {
			return common.SendNotFoundError(c, "Cart item")
		}
		h.logger.Error("cart remove failed", zap.Error(err))
		return common.SendServerError(c, "Failed to remove item")
	}
	return c.NoContent(http.StatusNoContent)
}

// CheckoutRequest represents the checkout payload
type CheckoutRequest struct {
	Notes *string `json:"notes"`
}

func (h *CartHandlers) Checkout(c echo.Context) error {
	ctx := c.Request().Context()

	customerID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	order, err := h.orderSvc.Checkout(ctx, customerID, req.Notes)
	if err != nil {
		if errors.Is(err, services.ErrEmptyCart) {
			return common.SendClientError(c, "Cart is empty")
		}
		h.logger.Error("checkout failed", zap.Error(err))
		return common.SendServerError(c, "Failed to create order")
	}

	return c.JSON(http.StatusCreated, order)
}
