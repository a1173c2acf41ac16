package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Order struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	CustomerID  uuid.UUID       `json:"customer_id" db:"customer_id"`
	Subtotal    decimal.Decimal `json:"subtotal" db:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee" db:"delivery_fee"`
	Total       decimal.Decimal `json:"total" db:"total"`
	Status      string          `json:"status" db:"status"`
	Notes       *string         `json:"notes" db:"notes"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

type OrderItem struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	OrderID        uuid.UUID       `json:"order_id" db:"order_id"`
	ProductID      uuid.UUID       `json:"product_id" db:"product_id"`
	Quantity       int             `json:"quantity" db:"quantity"`
	RentalDuration *int            `json:"rental_duration" db:"rental_duration"`
	UnitPrice      decimal.Decimal `json:"unit_price" db:"unit_price"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}
