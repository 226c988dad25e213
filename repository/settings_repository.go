package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"catalog-studio/db"
	"catalog-studio/models"
)

// settingsRowID is the key of the single settings row
const settingsRowID = 1

// SettingsRepository persists catalog settings as a JSONB document
type SettingsRepository struct{}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository() *SettingsRepository {
	return &SettingsRepository{}
}

// Ensure SettingsRepository implements SettingsRepositoryInterface
var _ SettingsRepositoryInterface = (*SettingsRepository)(nil)

// GetSettings returns the stored settings merged over the defaults. No row means defaults.
func (r *SettingsRepository) GetSettings(ctx context.Context) (models.CatalogSettings, error) {
	var payload []byte
	err := db.DB.QueryRowContext(ctx,
		"SELECT payload FROM catalog_settings WHERE id = $1", settingsRowID,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		log.Printf("❌ Error fetching catalog settings: %v", err)
		return models.CatalogSettings{}, fmt.Errorf("failed to get settings: %w", err)
	}

	settings, err := models.MergeSettingsJSON(payload)
	if err != nil {
		log.Printf("⚠️  Stored catalog settings are invalid, using defaults: %v", err)
		return models.DefaultSettings(), nil
	}
	return settings, nil
}

// SaveSettings normalizes and upserts the settings document
func (r *SettingsRepository) SaveSettings(ctx context.Context, settings models.CatalogSettings) error {
	settings.Normalize()
	payload, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	_, err = db.DB.ExecContext(ctx, `
		INSERT INTO catalog_settings (id, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()
	`, settingsRowID, payload)
	if err != nil {
		log.Printf("❌ Error saving catalog settings: %v", err)
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("✓ Catalog settings saved")
	return nil
}
