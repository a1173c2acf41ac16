package services

import (
	"context"
	"errors"
	"testing"

	"stroymart/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) GetDeliverySettings(ctx context.Context) (*models.DeliverySettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeliverySettings), args.Error(1)
}

func (m *MockSettingsRepository) UpdateDeliverySettings(ctx context.Context, settings *models.DeliverySettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func testDeliverySettings() *models.DeliverySettings {
	return &models.DeliverySettings{
		DeliveryFee:           decimal.NewFromInt(50000),
		FreeDeliveryThreshold: decimal.NewFromInt(500000),
	}
}

func cartLine(price int64, quantity int, hasDelivery bool) *models.CartLine {
	return &models.CartLine{
		CartItem: models.CartItem{
			ID:        uuid.New(),
			ProductID: uuid.New(),
			Quantity:  quantity,
		},
		UnitPrice:   decimal.NewFromInt(price),
		HasDelivery: hasDelivery,
	}
}

func TestComputeDeliveryInfo_BelowThresholdChargesFullFee(t *testing.T) {
	lines := []*models.CartLine{cartLine(100000, 2, true)}

	info := ComputeDeliveryInfo(lines, testDeliverySettings())

	assert.True(t, info.CartTotal.Equal(decimal.NewFromInt(200000)))
	assert.True(t, info.FinalDeliveryFee.Equal(decimal.NewFromInt(50000)))
	assert.True(t, info.DeliveryDiscount.IsZero())
	assert.True(t, info.DiscountPercentage.IsZero())
}

func TestComputeDeliveryInfo_ThresholdIsInclusive(t *testing.T) {
	// Cart total exactly at the threshold gets the full waiver.
	lines := []*models.CartLine{cartLine(500000, 1, true)}

	info := ComputeDeliveryInfo(lines, testDeliverySettings())

	assert.True(t, info.FinalDeliveryFee.IsZero())
	assert.True(t, info.DeliveryDiscount.Equal(decimal.NewFromInt(50000)))
	assert.True(t, info.DiscountPercentage.Equal(decimal.NewFromInt(100)))
}

func TestComputeDeliveryInfo_RentalDurationMultipliesLineTotal(t *testing.T) {
	duration := 3
	line := cartLine(100000, 2, true)
	line.IsRental = true
	line.RentalDuration = &duration

	info := ComputeDeliveryInfo([]*models.CartLine{line}, testDeliverySettings())

	// 100000 x 2 x 3 = 600000, over the threshold.
	assert.True(t, info.CartTotal.Equal(decimal.NewFromInt(600000)))
	assert.True(t, info.FinalDeliveryFee.IsZero())
}

func TestComputeDeliveryInfo_RentalWithoutDurationCountsOnePeriod(t *testing.T) {
	line := cartLine(100000, 1, true)
	line.IsRental = true

	info := ComputeDeliveryInfo([]*models.CartLine{line}, testDeliverySettings())

	assert.True(t, info.CartTotal.Equal(decimal.NewFromInt(100000)))
}

func TestComputeDeliveryInfo_NonDeliverableItemsOnlyFlagged(t *testing.T) {
	deliverable := cartLine(100000, 1, true)
	pickupOnly := cartLine(50000, 1, false)

	info := ComputeDeliveryInfo([]*models.CartLine{deliverable, pickupOnly}, testDeliverySettings())

	// The fee is order-level: a pickup-only item never changes the amount.
	assert.True(t, info.HasDeliveryItems)
	assert.Equal(t, []uuid.UUID{pickupOnly.ProductID}, info.NonDeliverableItems)
	assert.True(t, info.CartTotal.Equal(decimal.NewFromInt(150000)))
	assert.True(t, info.FinalDeliveryFee.Equal(decimal.NewFromInt(50000)))
}

func TestComputeDeliveryInfo_AllPickupOnly(t *testing.T) {
	info := ComputeDeliveryInfo([]*models.CartLine{cartLine(100000, 1, false)}, testDeliverySettings())

	assert.False(t, info.HasDeliveryItems)
	assert.Len(t, info.NonDeliverableItems, 1)
}

func TestComputeDeliveryInfo_Idempotent(t *testing.T) {
	lines := []*models.CartLine{cartLine(300000, 1, true), cartLine(250000, 1, false)}
	settings := testDeliverySettings()

	first := ComputeDeliveryInfo(lines, settings)
	second := ComputeDeliveryInfo(lines, settings)

	assert.Equal(t, first, second)
}

func TestDeliveryService_EmptyCartComputesNothing(t *testing.T) {
	settingsRepo := new(MockSettingsRepository)
	svc := NewDeliveryService(settingsRepo)

	info, err := svc.ForCart(context.Background(), nil)

	assert.NoError(t, err)
	assert.Nil(t, info, "empty cart must yield no delivery info, not a zero fee")
	settingsRepo.AssertNotCalled(t, "GetDeliverySettings", mock.Anything)
}

func TestDeliveryService_SettingsErrorPropagates(t *testing.T) {
	settingsRepo := new(MockSettingsRepository)
	settingsRepo.On("GetDeliverySettings", mock.Anything).Return(nil, errors.New("connection refused"))
	svc := NewDeliveryService(settingsRepo)

	info, err := svc.ForCart(context.Background(), []*models.CartLine{cartLine(1000, 1, true)})

	assert.Error(t, err)
	assert.Nil(t, info)
}

func TestDeliveryService_ForCartAppliesSettings(t *testing.T) {
	settingsRepo := new(MockSettingsRepository)
	settingsRepo.On("GetDeliverySettings", mock.Anything).Return(testDeliverySettings(), nil)
	svc := NewDeliveryService(settingsRepo)

	info, err := svc.ForCart(context.Background(), []*models.CartLine{cartLine(600000, 1, true)})

	assert.NoError(t, err)
	assert.NotNil(t, info)
	assert.True(t, info.FinalDeliveryFee.IsZero())
	settingsRepo.AssertExpectations(t)
}
