package repositories

import (
	"context"
	"errors"
	"fmt"

	"stroymart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrCategoryNotFound = errors.New("category not found")

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	ListActive(ctx context.Context) ([]*models.Category, error)
	FindActiveByNameAndParent(ctx context.Context, name string, parentID *uuid.UUID) (*models.Category, error)
	SetIconURL(ctx context.Context, id uuid.UUID, url string) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	InTx(ctx context.Context, fn func(CategoryRepository) error) error
}

type categoryRepo struct {
	db Database
}

func NewCategoryRepo(db Database) CategoryRepository {
	return &categoryRepo{db: db}
}

const categoryColumns = `id, name_primary, name_secondary, parent_id, level, path, icon_url, is_active, sort_order, created_at, updated_at`

func scanCategory(row pgx.Row) (*models.Category, error) {
	category := &models.Category{}
	err := row.Scan(&category.ID, &category.NamePrimary, &category.NameSecondary, &category.ParentID,
		&category.Level, &category.Path, &category.IconURL, &category.IsActive, &category.SortOrder,
		&category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return category, nil
}

// Create inserts a category and maintains the materialized level and path
// columns from the parent row. Paths are id-based ("p1/p2/self") so that
// renames never invalidate descendant prefixes.
func (r *categoryRepo) Create(ctx context.Context, category *models.Category) error {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	if category.ParentID != nil {
		parent, err := r.GetByID(ctx, *category.ParentID)
		if err != nil {
			return fmt.Errorf("resolve parent category: %w", err)
		}
		category.Level = parent.Level + 1
		category.Path = parent.Path + "/" + category.ID.String()
	} else {
		category.Level = 0
		category.Path = category.ID.String()
	}

	query := `
		INSERT INTO categories (id, name_primary, name_secondary, parent_id, level, path, icon_url, is_active, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, category.ID, category.NamePrimary, category.NameSecondary,
		category.ParentID, category.Level, category.Path, category.IconURL, category.IsActive, category.SortOrder)
	return err
}

func (r *categoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`
	category, err := scanCategory(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// ListActive returns the whole active category table in one round trip,
// ordered by sort_order. The tree is assembled in memory by the catalog
// service, never by per-node queries.
func (r *categoryRepo) ListActive(ctx context.Context) ([]*models.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE is_active = TRUE
		ORDER BY sort_order ASC, created_at ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// FindActiveByNameAndParent matches the primary name case-insensitively
// within the same parent. A nil parentID matches root categories.
func (r *categoryRepo) FindActiveByNameAndParent(ctx context.Context, name string, parentID *uuid.UUID) (*models.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE is_active = TRUE
		  AND LOWER(name_primary) = LOWER($1)
		  AND parent_id IS NOT DISTINCT FROM $2
	`
	category, err := scanCategory(r.db.QueryRow(ctx, query, name, parentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (r *categoryRepo) SetIconURL(ctx context.Context, id uuid.UUID, url string) error {
	query := `UPDATE categories SET icon_url = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, url, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// Deactivate soft-removes a category. Rows are never hard-deleted so the
// traversal logic only ever sees is_active.
func (r *categoryRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE categories SET is_active = FALSE, updated_at = NOW() WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// InTx runs fn against a transaction-bound repository. A failure rolls
// back everything fn did; nested calls reuse the surrounding transaction.
func (r *categoryRepo) InTx(ctx context.Context, fn func(CategoryRepository) error) error {
	beginner, ok := r.db.(TxBeginner)
	if !ok {
		return fn(r)
	}
	tx, err := beginner.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(&categoryRepo{db: tx}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}
