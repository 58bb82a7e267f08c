package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/maildeck/maildeck/pkg/models"
)

type settingsRow struct {
	ID                     int    `db:"id"`
	AutoDeleteAfterDays    int    `db:"auto_delete_after_days"`
	DefaultChannels        string `db:"default_channels"`
	AutoRefresh            bool   `db:"auto_refresh"`
	RefreshIntervalSeconds int    `db:"refresh_interval_seconds"`
}

// GetSettings returns the stored settings, or the defaults if the user has
// never saved any.
func (db *DB) GetSettings(ctx context.Context) (*models.Settings, error) {
	var row settingsRow
	query := `SELECT * FROM settings WHERE id = 1`
	err := db.GetContext(ctx, &row, query)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	settings := &models.Settings{
		AutoDeleteAfterDays:    row.AutoDeleteAfterDays,
		AutoRefresh:            row.AutoRefresh,
		RefreshIntervalSeconds: row.RefreshIntervalSeconds,
	}
	if err := json.Unmarshal([]byte(row.DefaultChannels), &settings.DefaultChannels); err != nil {
		return nil, fmt.Errorf("failed to decode default channels: %w", err)
	}
	return settings, nil
}

// SaveSettings stores the settings, replacing any previous values
func (db *DB) SaveSettings(ctx context.Context, settings *models.Settings) error {
	channels, err := json.Marshal(settings.DefaultChannels)
	if err != nil {
		return fmt.Errorf("failed to encode default channels: %w", err)
	}
	query := `
		INSERT INTO settings (id, auto_delete_after_days, default_channels, auto_refresh, refresh_interval_seconds)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			auto_delete_after_days = excluded.auto_delete_after_days,
			default_channels = excluded.default_channels,
			auto_refresh = excluded.auto_refresh,
			refresh_interval_seconds = excluded.refresh_interval_seconds
	`
	_, err = db.ExecContext(ctx, query, settings.AutoDeleteAfterDays, string(channels), settings.AutoRefresh, settings.RefreshIntervalSeconds)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
