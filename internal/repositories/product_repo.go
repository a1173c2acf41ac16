package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"stroymart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrProductNotFound = errors.New("product not found")

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	List(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, error)
	SetImageURL(ctx context.Context, id uuid.UUID, url string) error
	CountAvailableByCategoryIDs(ctx context.Context, categoryIDs []uuid.UUID) (int64, error)
	CountAvailableByPathPrefix(ctx context.Context, pathPrefix string) (int64, error)
	AvailableCountsByCategory(ctx context.Context) (map[uuid.UUID]int64, error)
}

type productRepo struct {
	db Database
}

func NewProductRepo(db Database) ProductRepository {
	return &productRepo{db: db}
}

const productColumns = `id, category_id, name, description, unit_price, is_available, has_delivery, is_rental, image_url, created_at, updated_at`

func scanProduct(row pgx.Row) (*models.Product, error) {
	product := &models.Product{}
	err := row.Scan(&product.ID, &product.CategoryID, &product.Name, &product.Description,
		&product.UnitPrice, &product.IsAvailable, &product.HasDelivery, &product.IsRental,
		&product.ImageURL, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	query := `
		INSERT INTO products (id, category_id, name, description, unit_price, is_available, has_delivery, is_rental, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, product.ID, product.CategoryID, product.Name, product.Description,
		product.UnitPrice, product.IsAvailable, product.HasDelivery, product.IsRental, product.ImageURL)
	return err
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	product, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET category_id = $1, name = $2, description = $3, unit_price = $4, is_available = $5,
		    has_delivery = $6, is_rental = $7, updated_at = NOW()
		WHERE id = $8
	`
	tag, err := r.db.Exec(ctx, query, product.CategoryID, product.Name, product.Description,
		product.UnitPrice, product.IsAvailable, product.HasDelivery, product.IsRental, product.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *productRepo) List(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, error) {
	var conditions []string
	var args []any

	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if filter.Available != nil {
		args = append(args, *filter.Available)
		conditions = append(conditions, fmt.Sprintf("is_available = $%d", len(args)))
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		conditions = append(conditions, fmt.Sprintf("LOWER(name) LIKE LOWER($%d)", len(args)))
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, filter.Limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (r *productRepo) SetImageURL(ctx context.Context, id uuid.UUID, url string) error {
	query := `UPDATE products SET image_url = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, url, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

// CountAvailableByCategoryIDs issues a single count over the whole
// descendant id set instead of one query per node.
func (r *productRepo) CountAvailableByCategoryIDs(ctx context.Context, categoryIDs []uuid.UUID) (int64, error) {
	if len(categoryIDs) == 0 {
		return 0, nil
	}
	query := `
		SELECT COUNT(*)
		FROM products
		WHERE is_available = TRUE AND category_id = ANY($1)
	`
	var count int64
	if err := r.db.QueryRow(ctx, query, categoryIDs).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// CountAvailableByPathPrefix counts available products in the category
// owning the path and in every descendant, via a single materialized-path
// prefix match.
func (r *productRepo) CountAvailableByPathPrefix(ctx context.Context, pathPrefix string) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.is_available = TRUE
		  AND c.is_active = TRUE
		  AND (c.path = $1 OR c.path LIKE $2)
	`
	var count int64
	if err := r.db.QueryRow(ctx, query, pathPrefix, pathPrefix+"/%").Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// AvailableCountsByCategory returns per-category counts of available
// products in one grouped query. Ancestor roll-up happens in memory.
func (r *productRepo) AvailableCountsByCategory(ctx context.Context) (map[uuid.UUID]int64, error) {
	query := `
		SELECT category_id, COUNT(*)
		FROM products
		WHERE is_available = TRUE
		GROUP BY category_id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int64)
	for rows.Next() {
		var categoryID uuid.UUID
		var count int64
		if err := rows.Scan(&categoryID, &count); err != nil {
			return nil, err
		}
		counts[categoryID] = count
	}
	return counts, rows.Err()
}
