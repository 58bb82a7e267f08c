package database

import (
	"context"
	"fmt"
	"time"

	"github.com/maildeck/maildeck/pkg/models"
)

// InsertAuditEntry appends one audit log entry
func (db *DB) InsertAuditEntry(ctx context.Context, entry *models.AuditLogEntry) error {
	query := `
		INSERT INTO audit_log (id, action, account_id, details, ip_address, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := db.ExecContext(ctx, query,
		entry.ID,
		entry.Action,
		entry.AccountID,
		entry.Details,
		entry.IPAddress,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

// ListAuditEntries returns the audit log newest first, optionally filtered
// to one account.
func (db *DB) ListAuditEntries(ctx context.Context, accountID string) ([]*models.AuditLogEntry, error) {
	var entries []*models.AuditLogEntry
	var err error
	if accountID == "" {
		query := `SELECT * FROM audit_log ORDER BY created_at DESC, rowid DESC`
		err = db.SelectContext(ctx, &entries, query)
	} else {
		query := `SELECT * FROM audit_log WHERE account_id = ? ORDER BY created_at DESC, rowid DESC`
		err = db.SelectContext(ctx, &entries, query, accountID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}
