package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/maildeck/maildeck/internal/audit"
	"github.com/maildeck/maildeck/internal/database"
	"github.com/maildeck/maildeck/internal/mailtm"
	"github.com/maildeck/maildeck/internal/metrics"
	"github.com/maildeck/maildeck/internal/monitor"
	"github.com/maildeck/maildeck/pkg/models"
)

// Provisioner talks to the mail provider's account endpoints
type Provisioner interface {
	CreateAccount(ctx context.Context, firstName, lastName string) (*mailtm.Account, error)
	DeleteAccount(ctx context.Context, token, id string) error
	Token(ctx context.Context, address, password string) (string, error)
}

// Service owns the account lifecycle: provisioning at the mail provider,
// local persistence, monitoring teardown, and audit trail. The HTTP API
// and the auto-delete janitor both go through it.
type Service struct {
	db          *database.DB
	provisioner Provisioner
	coordinator *monitor.Coordinator
	audit       *audit.Service
	logger      *slog.Logger
}

// NewService creates an account service
func NewService(db *database.DB, provisioner Provisioner, coordinator *monitor.Coordinator, auditSvc *audit.Service, logger *slog.Logger) *Service {
	return &Service{
		db:          db,
		provisioner: provisioner,
		coordinator: coordinator,
		audit:       auditSvc,
		logger:      logger.With("component", "accounts"),
	}
}

// Provision creates a disposable mailbox at the provider and stores it
func (s *Service) Provision(ctx context.Context, firstName, lastName, origin string) (*models.Account, error) {
	created, err := s.provisioner.CreateAccount(ctx, firstName, lastName)
	if err != nil {
		return nil, fmt.Errorf("failed to provision mailbox: %w", err)
	}

	account := &models.Account{
		ID:        created.ID,
		FirstName: firstName,
		LastName:  lastName,
		Email:     created.Address,
		Password:  created.Password,
		Token:     created.Token,
		Status:    models.StatusActive,
	}
	if err := s.db.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	metrics.IncAccountsProvisioned()
	s.audit.Log(ctx, models.AuditCreate, account.ID, map[string]any{"email": account.Email}, origin)
	s.logger.Info("provisioned account", "account_id", account.ID, "email", account.Email)
	return account, nil
}

// Delete stops monitoring, removes the mailbox at the provider, and deletes
// the local record. The monitoring rule cascades away; the seen set and
// past notifications remain queryable. An already-deleted remote mailbox
// counts as success.
func (s *Service) Delete(ctx context.Context, accountID, origin string) error {
	account, err := s.db.GetAccountByID(ctx, accountID)
	if err != nil {
		return err
	}

	s.coordinator.Stop(accountID)

	if err := s.provisioner.DeleteAccount(ctx, account.Token, accountID); err != nil {
		// A rejected token must not orphan the local record. Everything
		// else is surfaced to the caller.
		if !errors.Is(err, mailtm.ErrAuthentication) {
			return fmt.Errorf("failed to delete mailbox: %w", err)
		}
		s.logger.Warn("provider rejected token on delete, removing local record", "account_id", accountID, "error", err)
	}

	if err := s.db.DeleteAccount(ctx, accountID); err != nil {
		return err
	}

	metrics.IncAccountsDeleted()
	s.audit.Log(ctx, models.AuditDelete, accountID, map[string]any{"email": account.Email}, origin)
	s.logger.Info("deleted account", "account_id", accountID, "email", account.Email)
	return nil
}

// RefreshToken re-authenticates the account and records the login
func (s *Service) RefreshToken(ctx context.Context, accountID, origin string) (*models.Account, error) {
	account, err := s.db.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	token, err := s.provisioner.Token(ctx, account.Email, account.Password)
	if err != nil {
		return nil, err
	}
	if err := s.db.UpdateAccountToken(ctx, accountID, token); err != nil {
		return nil, err
	}
	account.Token = token

	s.audit.Log(ctx, models.AuditLogin, accountID, map[string]any{"email": account.Email}, origin)
	return account, nil
}
