package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/maildeck/maildeck/pkg/models"
)

// ErrNotFound is returned when a record is not found
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists is returned when trying to insert a duplicate record
var ErrAlreadyExists = errors.New("record already exists")

// CreateAccount stores a newly provisioned account
func (db *DB) CreateAccount(ctx context.Context, account *models.Account) error {
	query := `
		INSERT OR IGNORE INTO accounts (id, first_name, last_name, email, password, token, status, monitoring_enabled, created_at, last_login_at, last_email_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	if account.LastLoginAt.IsZero() {
		account.LastLoginAt = now
	}
	if account.LastEmailAt.IsZero() {
		account.LastEmailAt = now
	}
	result, err := db.ExecContext(ctx, query,
		account.ID,
		account.FirstName,
		account.LastName,
		account.Email,
		account.Password,
		account.Token,
		account.Status,
		account.MonitoringEnabled,
		account.CreatedAt,
		account.LastLoginAt,
		account.LastEmailAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	// Check if row was actually inserted (not ignored due to duplicate)
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrAlreadyExists
	}
	return nil
}

// GetAccountByID returns an account by ID
func (db *DB) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	var account models.Account
	query := `SELECT * FROM accounts WHERE id = ?`
	err := db.GetContext(ctx, &account, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

// ListAccounts returns all accounts, newest first
func (db *DB) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	var accounts []*models.Account
	query := `SELECT * FROM accounts ORDER BY created_at DESC, rowid DESC`
	err := db.SelectContext(ctx, &accounts, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// ListAccountsCreatedBefore returns accounts provisioned before the cutoff,
// oldest first. Used by the auto-delete sweep.
func (db *DB) ListAccountsCreatedBefore(ctx context.Context, cutoff time.Time) ([]*models.Account, error) {
	var accounts []*models.Account
	query := `SELECT * FROM accounts WHERE created_at < ? ORDER BY created_at ASC`
	err := db.SelectContext(ctx, &accounts, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired accounts: %w", err)
	}
	return accounts, nil
}

// ListMonitoredAccounts returns accounts with monitoring enabled
func (db *DB) ListMonitoredAccounts(ctx context.Context) ([]*models.Account, error) {
	var accounts []*models.Account
	query := `SELECT * FROM accounts WHERE monitoring_enabled = true`
	err := db.SelectContext(ctx, &accounts, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list monitored accounts: %w", err)
	}
	return accounts, nil
}

// UpdateAccountStatus sets the account status
func (db *DB) UpdateAccountStatus(ctx context.Context, id, status string) error {
	query := `UPDATE accounts SET status = ? WHERE id = ?`
	res, err := db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update account status: %w", err)
	}
	return requireRow(res)
}

// SetMonitoringEnabled flips the monitoring flag
func (db *DB) SetMonitoringEnabled(ctx context.Context, id string, enabled bool) error {
	query := `UPDATE accounts SET monitoring_enabled = ? WHERE id = ?`
	res, err := db.ExecContext(ctx, query, enabled, id)
	if err != nil {
		return fmt.Errorf("failed to set monitoring enabled: %w", err)
	}
	return requireRow(res)
}

// UpdateAccountToken stores a refreshed bearer token and records the login
func (db *DB) UpdateAccountToken(ctx context.Context, id, token string) error {
	query := `UPDATE accounts SET token = ?, last_login_at = ? WHERE id = ?`
	_, err := db.ExecContext(ctx, query, token, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update account token: %w", err)
	}
	return nil
}

// TouchLastEmail records when the account last received mail
func (db *DB) TouchLastEmail(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE accounts SET last_email_at = ? WHERE id = ?`
	_, err := db.ExecContext(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("failed to update last email time: %w", err)
	}
	return nil
}

// DeleteAccount removes an account. Its monitoring rule cascades; seen
// messages and notifications are kept on purpose.
func (db *DB) DeleteAccount(ctx context.Context, id string) error {
	query := `DELETE FROM accounts WHERE id = ?`
	_, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
