package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeliverySettings is the single-row global delivery configuration.
type DeliverySettings struct {
	DeliveryFee           decimal.Decimal `json:"delivery_fee" db:"delivery_fee"`
	FreeDeliveryThreshold decimal.Decimal `json:"free_delivery_threshold" db:"free_delivery_threshold"`
	UpdatedAt             time.Time       `json:"updated_at" db:"updated_at"`
}
