package repositories

import (
	"context"
	"errors"
	"time"

	"stroymart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrDebtorNotFound = errors.New("debtor not found")

type DebtorRepository interface {
	Create(ctx context.Context, debtor *models.Debtor) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Debtor, error)
	ListUnsettled(ctx context.Context, limit, offset int) ([]*models.Debtor, error)
	ListDueForReminder(ctx context.Context, before time.Time) ([]*models.Debtor, error)
	MarkNotified(ctx context.Context, id uuid.UUID) error
	Settle(ctx context.Context, id uuid.UUID) error
}

type debtorRepo struct {
	db Database
}

func NewDebtorRepo(db Database) DebtorRepository {
	return &debtorRepo{db: db}
}

const debtorColumns = `id, order_id, customer_id, phone, amount, due_date, notified, settled, created_at, updated_at`

func scanDebtor(row pgx.Row) (*models.Debtor, error) {
	debtor := &models.Debtor{}
	err := row.Scan(&debtor.ID, &debtor.OrderID, &debtor.CustomerID, &debtor.Phone,
		&debtor.Amount, &debtor.DueDate, &debtor.Notified, &debtor.Settled,
		&debtor.CreatedAt, &debtor.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return debtor, nil
}

func (r *debtorRepo) Create(ctx context.Context, debtor *models.Debtor) error {
	if debtor.ID == uuid.Nil {
		debtor.ID = uuid.New()
	}
	query := `
		INSERT INTO debtors (id, order_id, customer_id, phone, amount, due_date, notified, settled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, FALSE, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, debtor.ID, debtor.OrderID, debtor.CustomerID,
		debtor.Phone, debtor.Amount, debtor.DueDate)
	return err
}

func (r *debtorRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Debtor, error) {
	query := `SELECT ` + debtorColumns + ` FROM debtors WHERE id = $1`
	debtor, err := scanDebtor(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDebtorNotFound
		}
		return nil, err
	}
	return debtor, nil
}

func (r *debtorRepo) ListUnsettled(ctx context.Context, limit, offset int) ([]*models.Debtor, error) {
	query := `
		SELECT ` + debtorColumns + `
		FROM debtors
		WHERE settled = FALSE
		ORDER BY due_date ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var debtors []*models.Debtor
	for rows.Next() {
		debtor, err := scanDebtor(rows)
		if err != nil {
			return nil, err
		}
		debtors = append(debtors, debtor)
	}
	return debtors, rows.Err()
}

func (r *debtorRepo) ListDueForReminder(ctx context.Context, before time.Time) ([]*models.Debtor, error) {
	query := `
		SELECT ` + debtorColumns + `
		FROM debtors
		WHERE settled = FALSE AND notified = FALSE AND due_date <= $1
		ORDER BY due_date ASC
	`
	rows, err := r.db.Query(ctx, query, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var debtors []*models.Debtor
	for rows.Next() {
		debtor, err := scanDebtor(rows)
		if err != nil {
			return nil, err
		}
		debtors = append(debtors, debtor)
	}
	return debtors, rows.Err()
}

func (r *debtorRepo) MarkNotified(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE debtors SET notified = TRUE, updated_at = NOW() WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDebtorNotFound
	}
	return nil
}

func (r *debtorRepo) Settle(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE debtors SET settled = TRUE, updated_at = NOW() WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDebtorNotFound
	}
	return nil
}
