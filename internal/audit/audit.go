package audit

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/maildeck/maildeck/internal/database"
	"github.com/maildeck/maildeck/pkg/models"
)

// Service appends immutable audit records for account lifecycle actions.
// Writes are best-effort: a failed append is logged and never fails the
// action being audited.
type Service struct {
	db     *database.DB
	logger *slog.Logger
}

// New creates an audit service
func New(db *database.DB, logger *slog.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger.With("component", "audit"),
	}
}

// Log records one lifecycle action with its origin address
func (s *Service) Log(ctx context.Context, action, accountID string, details map[string]any, ipAddress string) {
	if details == nil {
		details = map[string]any{}
	}
	payload, err := json.Marshal(details)
	if err != nil {
		s.logger.Error("failed to encode audit details", "action", action, "error", err)
		payload = []byte("{}")
	}

	entry := &models.AuditLogEntry{
		ID:        uuid.NewString(),
		Action:    action,
		AccountID: accountID,
		Details:   string(payload),
		IPAddress: ipAddress,
	}
	if err := s.db.InsertAuditEntry(ctx, entry); err != nil {
		s.logger.Error("failed to write audit entry", "action", action, "account_id", accountID, "error", err)
	}
}

// List returns the audit log newest first, optionally filtered to one
// account.
func (s *Service) List(ctx context.Context, accountID string) ([]*models.AuditLogEntry, error) {
	return s.db.ListAuditEntries(ctx, accountID)
}
