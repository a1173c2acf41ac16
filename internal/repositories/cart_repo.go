package repositories

import (
	"context"
	"errors"

	"stroymart/internal/models"

	"github.com/google/uuid"
)

var ErrCartItemNotFound = errors.New("cart item not found")

type CartRepository interface {
	AddItem(ctx context.Context, item *models.CartItem) error
	RemoveItem(ctx context.Context, customerID, itemID uuid.UUID) error
	ListLines(ctx context.Context, customerID uuid.UUID) ([]*models.CartLine, error)
	Clear(ctx context.Context, customerID uuid.UUID) error
}

type cartRepo struct {
	db Database
}

func NewCartRepo(db Database) CartRepository {
	return &cartRepo{db: db}
}

// AddItem upserts on (customer_id, product_id); adding the same product
// again bumps the quantity.
func (r *cartRepo) AddItem(ctx context.Context, item *models.CartItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	query := `
		INSERT INTO cart_items (id, customer_id, product_id, quantity, rental_duration, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (customer_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity,
		              rental_duration = EXCLUDED.rental_duration
	`
	_, err := r.db.Exec(ctx, query, item.ID, item.CustomerID, item.ProductID, item.Quantity, item.RentalDuration)
	return err
}

func (r *cartRepo) RemoveItem(ctx context.Context, customerID, itemID uuid.UUID) error {
	query := `DELETE FROM cart_items WHERE customer_id = $1 AND id = $2`
	tag, err := r.db.Exec(ctx, query, customerID, itemID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// ListLines joins cart items with the product fields the delivery
// calculator needs, in one query.
func (r *cartRepo) ListLines(ctx context.Context, customerID uuid.UUID) ([]*models.CartLine, error) {
	query := `
		SELECT ci.id, ci.customer_id, ci.product_id, ci.quantity, ci.rental_duration, ci.created_at,
		       p.name, p.unit_price, p.has_delivery, p.is_rental
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.customer_id = $1
		ORDER BY ci.created_at ASC
	`
	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []*models.CartLine
	for rows.Next() {
		line := &models.CartLine{}
		if err := rows.Scan(&line.ID, &line.CustomerID, &line.ProductID, &line.Quantity,
			&line.RentalDuration, &line.CreatedAt,
			&line.ProductName, &line.UnitPrice, &line.HasDelivery, &line.IsRental); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (r *cartRepo) Clear(ctx context.Context, customerID uuid.UUID) error {
	query := `DELETE FROM cart_items WHERE customer_id = $1`
	_, err := r.db.Exec(ctx, query, customerID)
	return err
}
