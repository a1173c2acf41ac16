package repositories

import (
	"context"
	"errors"

	"stroymart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderRepository interface {
	Checkout(ctx context.Context, order *models.Order, items []*models.OrderItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

type orderRepo struct {
	db Database
}

func NewOrderRepo(db Database) OrderRepository {
	return &orderRepo{db: db}
}

const orderColumns = `id, customer_id, subtotal, delivery_fee, total, status, notes, created_at, updated_at`

func scanOrder(row pgx.Row) (*models.Order, error) {
	order := &models.Order{}
	err := row.Scan(&order.ID, &order.CustomerID, &order.Subtotal, &order.DeliveryFee,
		&order.Total, &order.Status, &order.Notes, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Checkout persists the order with its items and empties the customer's
// cart in one transaction. Cart items are ephemeral; checkout is the only
// place they are consumed.
func (r *orderRepo) Checkout(ctx context.Context, order *models.Order, items []*models.OrderItem) error {
	beginner, ok := r.db.(TxBeginner)
	if !ok {
		return r.checkout(ctx, r.db, order, items)
	}
	tx, err := beginner.Begin(ctx)
	if err != nil {
		return err
	}
	if err := r.checkout(ctx, tx, order, items); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func (r *orderRepo) checkout(ctx context.Context, db Database, order *models.Order, items []*models.OrderItem) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	orderQuery := `
		INSERT INTO orders (id, customer_id, subtotal, delivery_fee, total, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	if _, err := db.Exec(ctx, orderQuery, order.ID, order.CustomerID, order.Subtotal,
		order.DeliveryFee, order.Total, order.Status, order.Notes); err != nil {
		return err
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, quantity, rental_duration, unit_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	for _, item := range items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.OrderID = order.ID
		if _, err := db.Exec(ctx, itemQuery, item.ID, item.OrderID, item.ProductID,
			item.Quantity, item.RentalDuration, item.UnitPrice); err != nil {
			return err
		}
	}

	_, err := db.Exec(ctx, `DELETE FROM cart_items WHERE customer_id = $1`, order.CustomerID)
	return err
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	order, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, customerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}
