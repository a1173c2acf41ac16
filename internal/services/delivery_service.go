package services

import (
	"context"
	"fmt"

	"stroymart/internal/models"
	"stroymart/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type DeliveryService interface {
	// ForCart computes delivery info for the given cart lines. An empty
	// cart yields (nil, nil): no computation at all, which callers must
	// keep distinct from a computed zero fee.
	ForCart(ctx context.Context, lines []*models.CartLine) (*models.DeliveryInfo, error)
}

type deliveryService struct {
	settingsRepo repositories.SettingsRepository
}

func NewDeliveryService(settingsRepo repositories.SettingsRepository) DeliveryService {
	return &deliveryService{settingsRepo: settingsRepo}
}

func (s *deliveryService) ForCart(ctx context.Context, lines []*models.CartLine) (*models.DeliveryInfo, error) {
	if len(lines) == 0 {
		return nil, nil
	}

	settings, err := s.settingsRepo.GetDeliverySettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load delivery settings: %w", err)
	}

	return ComputeDeliveryInfo(lines, settings), nil
}

// ComputeDeliveryInfo applies the free-delivery threshold to the cart.
// The fee is order-level: items without delivery support are only flagged
// for the UI and never change the amount. The threshold comparison is
// inclusive, so a cart total exactly at the threshold gets the full
// waiver. Pure and idempotent; the result is never cached.
func ComputeDeliveryInfo(lines []*models.CartLine, settings *models.DeliverySettings) *models.DeliveryInfo {
	if len(lines) == 0 {
		return nil
	}

	cartTotal := decimal.Zero
	hasDeliveryItems := false
	var nonDeliverable []uuid.UUID
	for _, line := range lines {
		cartTotal = cartTotal.Add(line.LineTotal())
		if line.HasDelivery {
			hasDeliveryItems = true
		} else {
			nonDeliverable = append(nonDeliverable, line.ProductID)
		}
	}

	info := &models.DeliveryInfo{
		CartTotal:             cartTotal,
		OriginalDeliveryFee:   settings.DeliveryFee,
		FreeDeliveryThreshold: settings.FreeDeliveryThreshold,
		HasDeliveryItems:      hasDeliveryItems,
		NonDeliverableItems:   nonDeliverable,
	}

	if cartTotal.GreaterThanOrEqual(settings.FreeDeliveryThreshold) {
		info.DeliveryDiscount = settings.DeliveryFee
		info.FinalDeliveryFee = decimal.Zero
		info.DiscountPercentage = hundred
	} else {
		info.DeliveryDiscount = decimal.Zero
		info.FinalDeliveryFee = settings.DeliveryFee
		info.DiscountPercentage = decimal.Zero
	}
	return info
}
