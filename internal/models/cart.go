package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CartItem struct {
	ID             uuid.UUID `json:"id" db:"id"`
	CustomerID     uuid.UUID `json:"customer_id" db:"customer_id"`
	ProductID      uuid.UUID `json:"product_id" db:"product_id"`
	Quantity       int       `json:"quantity" db:"quantity"`
	RentalDuration *int      `json:"rental_duration" db:"rental_duration"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// CartLine is a cart item joined with the product fields the delivery
// calculator needs. It is a read model, never written back.
type CartLine struct {
	CartItem
	ProductName string          `json:"product_name" db:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price" db:"unit_price"`
	HasDelivery bool            `json:"has_delivery" db:"has_delivery"`
	IsRental    bool            `json:"is_rental" db:"is_rental"`
}

// LineTotal computes unit_price x quantity, multiplied by the rental
// duration for rental products. A rental item without an explicit
// duration counts as one period.
func (l *CartLine) LineTotal() decimal.Decimal {
	total := l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
	if l.IsRental {
		duration := 1
		if l.RentalDuration != nil && *l.RentalDuration > 0 {
			duration = *l.RentalDuration
		}
		total = total.Mul(decimal.NewFromInt(int64(duration)))
	}
	return total
}

// DeliveryInfo is derived per request from the current cart and the
// delivery settings. It is never persisted or cached; a nil DeliveryInfo
// means "not computed" (empty cart or failed computation), which callers
// must not conflate with a zero fee.
type DeliveryInfo struct {
	CartTotal             decimal.Decimal `json:"cart_total"`
	OriginalDeliveryFee   decimal.Decimal `json:"original_delivery_fee"`
	DeliveryDiscount      decimal.Decimal `json:"delivery_discount"`
	FinalDeliveryFee      decimal.Decimal `json:"final_delivery_fee"`
	FreeDeliveryThreshold decimal.Decimal `json:"free_delivery_threshold"`
	DiscountPercentage    decimal.Decimal `json:"discount_percentage"`
	HasDeliveryItems      bool            `json:"has_delivery_items"`
	NonDeliverableItems   []uuid.UUID     `json:"non_deliverable_items,omitempty"`
}
