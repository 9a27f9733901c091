package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/settings"
)

// SettingsRepository loads and persists the server_config table backing
// settings.Store. settings.Store itself stays a plain in-memory map (§4.1
// requires single-read-per-computation semantics, not a repository
// interface), so this type is driven directly from the composition root
// rather than through a domain port: it hydrates the Store at startup and
// mirrors every Set back to the table so a restart doesn't forget operator
// overrides.
type SettingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new settings repository.
func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// LoadAll returns every persisted key/value pair, for hydrating a fresh
// settings.Store at startup.
func (r *SettingsRepository) LoadAll(ctx context.Context) (map[string]string, error) {
	var models []SettingModel
	if result := r.db.WithContext(ctx).Find(&models); result.Error != nil {
		return nil, fmt.Errorf("failed to load settings: %w", result.Error)
	}

	values := make(map[string]string, len(models))
	for _, m := range models {
		values[m.Key] = m.Value
	}
	return values, nil
}

// Save upserts a single key/value pair, rejecting keys outside the
// documented set (§4.1).
func (r *SettingsRepository) Save(ctx context.Context, key, value string) error {
	if !settings.IsRecognizedKey(key) {
		return &settings.ErrUnrecognizedKey{Key: key}
	}

	model := &SettingModel{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	if result := r.db.WithContext(ctx).Save(model); result.Error != nil {
		return fmt.Errorf("failed to save setting %q: %w", key, result.Error)
	}
	return nil
}
