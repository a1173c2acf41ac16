package repositories

import (
	"context"
	"errors"

	"stroymart/internal/models"

	"github.com/jackc/pgx/v5"
)

var ErrSettingsNotFound = errors.New("delivery settings not found")

type SettingsRepository interface {
	GetDeliverySettings(ctx context.Context) (*models.DeliverySettings, error)
	UpdateDeliverySettings(ctx context.Context, settings *models.DeliverySettings) error
}

type settingsRepo struct {
	db Database
}

func NewSettingsRepo(db Database) SettingsRepository {
	return &settingsRepo{db: db}
}

// GetDeliverySettings reads the single global delivery configuration row.
func (r *settingsRepo) GetDeliverySettings(ctx context.Context) (*models.DeliverySettings, error) {
	settings := &models.DeliverySettings{}
	query := `SELECT delivery_fee, free_delivery_threshold, updated_at FROM delivery_settings LIMIT 1`
	err := r.db.QueryRow(ctx, query).Scan(&settings.DeliveryFee, &settings.FreeDeliveryThreshold, &settings.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, err
	}
	return settings, nil
}

func (r *settingsRepo) UpdateDeliverySettings(ctx context.Context, settings *models.DeliverySettings) error {
	query := `UPDATE delivery_settings SET delivery_fee = $1, free_delivery_threshold = $2, updated_at = NOW()`
	_, err := r.db.Exec(ctx, query, settings.DeliveryFee, settings.FreeDeliveryThreshold)
	return err
}
