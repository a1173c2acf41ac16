package services

import (
	"context"
	"errors"
	"fmt"

	"stroymart/internal/models"
	"stroymart/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrEmptyCart = errors.New("cart is empty")

type OrderService interface {
	Checkout(ctx context.Context, customerID uuid.UUID, notes *string) (*models.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*models.Order, error)
}

type orderService struct {
	orderRepo   repositories.OrderRepository
	cartRepo    repositories.CartRepository
	deliverySvc DeliveryService
	logger      *zap.Logger
}

func NewOrderService(orderRepo repositories.OrderRepository, cartRepo repositories.CartRepository, deliverySvc DeliveryService, logger *zap.Logger) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		deliverySvc: deliverySvc,
		logger:      logger,
	}
}

// Checkout converts the customer's cart into an order. The delivery fee
// is the one computed for the cart at this moment; cart items are removed
// in the same transaction as the order insert.
func (s *orderService) Checkout(ctx context.Context, customerID uuid.UUID, notes *string) (*models.Order, error) {
	lines, err := s.cartRepo.ListLines(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	info, err := s.deliverySvc.ForCart(ctx, lines)
	if err != nil {
		return nil, fmt.Errorf("compute delivery: %w", err)
	}

	order := &models.Order{
		CustomerID:  customerID,
		Subtotal:    info.CartTotal,
		DeliveryFee: info.FinalDeliveryFee,
		Total:       info.CartTotal.Add(info.FinalDeliveryFee),
		Status:      "pending",
		Notes:       notes,
	}

	items := make([]*models.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, &models.OrderItem{
			ProductID:      line.ProductID,
			Quantity:       line.Quantity,
			RentalDuration: line.RentalDuration,
			UnitPrice:      line.UnitPrice,
		})
	}

	if err := s.orderRepo.Checkout(ctx, order, items); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("customer_id", customerID.String()),
		zap.String("total", order.Total.String()))
	return order, nil
}

func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

func (s *orderService) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*models.Order, error) {
	return s.orderRepo.ListByCustomer(ctx, customerID, limit, offset)
}
