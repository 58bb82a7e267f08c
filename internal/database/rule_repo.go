package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/maildeck/maildeck/pkg/models"
)

type ruleRow struct {
	AccountID     string `db:"account_id"`
	Keywords      string `db:"keywords"`
	CaseSensitive bool   `db:"case_sensitive"`
	Enabled       bool   `db:"enabled"`
	Channels      string `db:"channels"`
}

func (r *ruleRow) toModel() (*models.MonitoringRule, error) {
	rule := &models.MonitoringRule{
		AccountID:     r.AccountID,
		CaseSensitive: r.CaseSensitive,
		Enabled:       r.Enabled,
	}
	if err := json.Unmarshal([]byte(r.Keywords), &rule.Keywords); err != nil {
		return nil, fmt.Errorf("failed to decode rule keywords: %w", err)
	}
	if err := json.Unmarshal([]byte(r.Channels), &rule.Channels); err != nil {
		return nil, fmt.Errorf("failed to decode rule channels: %w", err)
	}
	return rule, nil
}

// UpsertRule replaces the account's monitoring rule wholesale
func (db *DB) UpsertRule(ctx context.Context, rule *models.MonitoringRule) error {
	keywords, err := json.Marshal(rule.Keywords)
	if err != nil {
		return fmt.Errorf("failed to encode rule keywords: %w", err)
	}
	channels, err := json.Marshal(rule.Channels)
	if err != nil {
		return fmt.Errorf("failed to encode rule channels: %w", err)
	}
	query := `
		INSERT INTO monitoring_rules (account_id, keywords, case_sensitive, enabled, channels)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(account_id) DO UPDATE SET
			keywords = excluded.keywords,
			case_sensitive = excluded.case_sensitive,
			enabled = excluded.enabled,
			channels = excluded.channels
	`
	_, err = db.ExecContext(ctx, query, rule.AccountID, string(keywords), rule.CaseSensitive, rule.Enabled, string(channels))
	if err != nil {
		return fmt.Errorf("failed to upsert rule: %w", err)
	}
	return nil
}

// GetRule returns the monitoring rule for an account
func (db *DB) GetRule(ctx context.Context, accountID string) (*models.MonitoringRule, error) {
	var row ruleRow
	query := `SELECT * FROM monitoring_rules WHERE account_id = ?`
	err := db.GetContext(ctx, &row, query, accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rule: %w", err)
	}
	return row.toModel()
}

// DeleteRule removes the monitoring rule for an account
func (db *DB) DeleteRule(ctx context.Context, accountID string) error {
	query := `DELETE FROM monitoring_rules WHERE account_id = ?`
	_, err := db.ExecContext(ctx, query, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}
	return nil
}
