package database

import (
	"context"
	"fmt"
	"time"

	"github.com/maildeck/maildeck/pkg/models"
)

// InsertNotification appends a notification to the log. Inserting the same
// message id twice is a silent no-op.
func (db *DB) InsertNotification(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT OR IGNORE INTO notifications (id, account_id, subject, matched_keyword, received_at, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	_, err := db.ExecContext(ctx, query,
		n.ID,
		n.AccountID,
		n.Subject,
		n.MatchedKeyword,
		n.ReceivedAt,
		n.IsRead,
		n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

// MarkNotificationRead flips the read flag. An unknown id is a no-op.
func (db *DB) MarkNotificationRead(ctx context.Context, id string) error {
	query := `UPDATE notifications SET is_read = true WHERE id = ?`
	_, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

// ListNotifications returns the notification log newest first, optionally
// filtered to one account.
func (db *DB) ListNotifications(ctx context.Context, accountID string) ([]*models.Notification, error) {
	var notifications []*models.Notification
	var err error
	if accountID == "" {
		query := `SELECT * FROM notifications ORDER BY created_at DESC, rowid DESC`
		err = db.SelectContext(ctx, &notifications, query)
	} else {
		query := `SELECT * FROM notifications WHERE account_id = ? ORDER BY created_at DESC, rowid DESC`
		err = db.SelectContext(ctx, &notifications, query, accountID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}
