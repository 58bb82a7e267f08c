package database

import (
	"context"
	"fmt"
)

// FilterNewMessageIDs returns the subset of ids not yet in the account's
// seen set, preserving input order.
func (db *DB) FilterNewMessageIDs(ctx context.Context, accountID string, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var seen []string
	query := `SELECT message_id FROM seen_messages WHERE account_id = ?`
	if err := db.SelectContext(ctx, &seen, query, accountID); err != nil {
		return nil, fmt.Errorf("failed to load seen messages: %w", err)
	}

	seenSet := make(map[string]struct{}, len(seen))
	for _, id := range seen {
		seenSet[id] = struct{}{}
	}

	var fresh []string
	for _, id := range ids {
		if _, ok := seenSet[id]; !ok {
			fresh = append(fresh, id)
		}
	}
	return fresh, nil
}

// AddSeenMessages records message ids as evaluated. All-or-nothing: a
// failed batch leaves the seen set untouched.
func (db *DB) AddSeenMessages(ctx context.Context, accountID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT OR IGNORE INTO seen_messages (account_id, message_id) VALUES (?, ?)`
	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, query, accountID, id); err != nil {
			return fmt.Errorf("failed to record seen message: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seen messages: %w", err)
	}
	return nil
}

// CountSeenMessages returns the size of the account's seen set
func (db *DB) CountSeenMessages(ctx context.Context, accountID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM seen_messages WHERE account_id = ?`
	if err := db.GetContext(ctx, &count, query, accountID); err != nil {
		return 0, fmt.Errorf("failed to count seen messages: %w", err)
	}
	return count, nil
}
