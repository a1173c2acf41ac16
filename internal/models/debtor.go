package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Debtor tracks an unpaid order with a borrowing period for reminder
// and collection workflows.
type Debtor struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	OrderID    uuid.UUID       `json:"order_id" db:"order_id"`
	CustomerID uuid.UUID       `json:"customer_id" db:"customer_id"`
	Phone      string          `json:"phone" db:"phone"`
	Amount     decimal.Decimal `json:"amount" db:"amount"`
	DueDate    time.Time       `json:"due_date" db:"due_date"`
	Notified   bool            `json:"notified" db:"notified"`
	Settled    bool            `json:"settled" db:"settled"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}
