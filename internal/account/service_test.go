package account

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maildeck/maildeck/internal/audit"
	"github.com/maildeck/maildeck/internal/database"
	"github.com/maildeck/maildeck/internal/mailtm"
	"github.com/maildeck/maildeck/internal/monitor"
	"github.com/maildeck/maildeck/pkg/models"
)

type fakeProvisioner struct {
	created   []*mailtm.Account
	deleted   []string
	deleteErr error
	token     string
	tokenErr  error
	createErr error
}

func (f *fakeProvisioner) CreateAccount(ctx context.Context, firstName, lastName string) (*mailtm.Account, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	acc := &mailtm.Account{
		ID:       "acc-" + firstName,
		Address:  firstName + "@example.test",
		Password: "pw",
		Token:    "tok",
	}
	f.created = append(f.created, acc)
	return acc, nil
}

func (f *fakeProvisioner) DeleteAccount(ctx context.Context, token, id string) error {
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

func (f *fakeProvisioner) Token(ctx context.Context, address, password string) (string, error) {
	if f.tokenErr != nil {
		return "", f.tokenErr
	}
	return f.token, nil
}

func (f *fakeProvisioner) Messages(ctx context.Context, token string) ([]mailtm.Message, error) {
	return nil, nil
}

type noopNotifier struct{}

func (noopNotifier) Notify(ctx context.Context, n *models.Notification, channels []models.Channel) error {
	return nil
}

func newTestService(t *testing.T) (*Service, *database.DB, *fakeProvisioner, *monitor.Coordinator) {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate(context.Background()))

	logger := slog.Default()
	prov := &fakeProvisioner{token: "fresh"}
	coord := monitor.NewCoordinator(db, prov, noopNotifier{}, time.Hour, logger)
	t.Cleanup(coord.StopAll)
	svc := NewService(db, prov, coord, audit.New(db, logger), logger)
	return svc, db, prov, coord
}

func TestProvisionStoresAccountAndAudits(t *testing.T) {
	ctx := context.Background()
	svc, db, prov, _ := newTestService(t)

	account, err := svc.Provision(ctx, "john", "smith", "203.0.113.7")
	require.NoError(t, err)
	require.Len(t, prov.created, 1)

	stored, err := db.GetAccountByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "john@example.test", stored.Email)
	assert.Equal(t, models.StatusActive, stored.Status)

	entries, err := db.ListAuditEntries(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.AuditCreate, entries[0].Action)
	assert.Equal(t, "203.0.113.7", entries[0].IPAddress)
}

func TestDeleteRemovesRuleKeepsHistory(t *testing.T) {
	ctx := context.Background()
	svc, db, prov, coord := newTestService(t)

	account, err := svc.Provision(ctx, "john", "smith", "")
	require.NoError(t, err)

	rule := &models.MonitoringRule{
		AccountID: account.ID,
		Keywords:  []string{"invoice"},
		Enabled:   true,
		Channels:  []models.Channel{models.ChannelWeb},
	}
	require.NoError(t, db.UpsertRule(ctx, rule))
	require.NoError(t, db.AddSeenMessages(ctx, account.ID, []string{"m1", "m2"}))
	require.NoError(t, db.InsertNotification(ctx, &models.Notification{
		ID:             "m1",
		AccountID:      account.ID,
		Subject:        "invoice due",
		MatchedKeyword: "invoice",
		ReceivedAt:     time.Now(),
	}))
	coord.Start(account.ID)

	require.NoError(t, svc.Delete(ctx, account.ID, ""))

	assert.Equal(t, []string{account.ID}, prov.deleted)
	assert.False(t, coord.Active(account.ID))

	_, err = db.GetAccountByID(ctx, account.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
	_, err = db.GetRule(ctx, account.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)

	// Dedup history and the notification log outlive the account
	count, err := db.CountSeenMessages(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	log, err := db.ListNotifications(ctx, account.ID)
	require.NoError(t, err)
	assert.Len(t, log, 1)
}

func TestDeleteUnknownAccount(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	err := svc.Delete(context.Background(), "missing", "")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestDeleteToleratesRejectedToken(t *testing.T) {
	ctx := context.Background()
	svc, db, prov, _ := newTestService(t)

	account, err := svc.Provision(ctx, "john", "smith", "")
	require.NoError(t, err)

	prov.deleteErr = mailtm.ErrAuthentication
	require.NoError(t, svc.Delete(ctx, account.ID, ""))

	_, err = db.GetAccountByID(ctx, account.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestDeletePropagatesProviderFailure(t *testing.T) {
	ctx := context.Background()
	svc, db, prov, _ := newTestService(t)

	account, err := svc.Provision(ctx, "john", "smith", "")
	require.NoError(t, err)

	prov.deleteErr = errors.New("provider down")
	require.Error(t, svc.Delete(ctx, account.ID, ""))

	// Local record survives a failed remote delete
	_, err = db.GetAccountByID(ctx, account.ID)
	assert.NoError(t, err)
}

func TestRefreshTokenStoresNewToken(t *testing.T) {
	ctx := context.Background()
	svc, db, prov, _ := newTestService(t)

	account, err := svc.Provision(ctx, "john", "smith", "")
	require.NoError(t, err)

	prov.token = "rotated"
	refreshed, err := svc.RefreshToken(ctx, account.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "rotated", refreshed.Token)

	stored, err := db.GetAccountByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "rotated", stored.Token)

	entries, err := db.ListAuditEntries(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AuditLogin, entries[0].Action)
}
