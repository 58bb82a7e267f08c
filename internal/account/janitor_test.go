package account

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maildeck/maildeck/internal/database"
	"github.com/maildeck/maildeck/pkg/models"
)

func seedAged(t *testing.T, db *database.DB, id string, age time.Duration) {
	t.Helper()
	acc := &models.Account{
		ID:        id,
		FirstName: "John",
		LastName:  "Smith",
		Email:     id + "@example.test",
		Password:  "pw",
		Token:     "tok",
		Status:    models.StatusActive,
		CreatedAt: time.Now().Add(-age),
	}
	require.NoError(t, db.CreateAccount(context.Background(), acc))
}

func TestSweepDeletesOnlyExpiredAccounts(t *testing.T) {
	ctx := context.Background()
	svc, db, prov, _ := newTestService(t)
	j := NewJanitor(db, svc, time.Hour, slog.Default())

	// Default retention is 7 days
	seedAged(t, db, "stale", 8*24*time.Hour)
	seedAged(t, db, "fresh", 2*24*time.Hour)

	n, err := j.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"stale"}, prov.deleted)

	_, err = db.GetAccountByID(ctx, "stale")
	assert.ErrorIs(t, err, database.ErrNotFound)
	_, err = db.GetAccountByID(ctx, "fresh")
	assert.NoError(t, err)
}

func TestSweepHonorsConfiguredRetention(t *testing.T) {
	ctx := context.Background()
	svc, db, _, _ := newTestService(t)
	j := NewJanitor(db, svc, time.Hour, slog.Default())

	settings := models.DefaultSettings()
	settings.AutoDeleteAfterDays = 1
	require.NoError(t, db.SaveSettings(ctx, settings))

	seedAged(t, db, "stale", 36*time.Hour)

	n, err := j.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSweepContinuesPastFailedDelete(t *testing.T) {
	ctx := context.Background()
	svc, db, prov, _ := newTestService(t)
	j := NewJanitor(db, svc, time.Hour, slog.Default())

	seedAged(t, db, "first", 9*24*time.Hour)
	seedAged(t, db, "second", 8*24*time.Hour)
	prov.deleteErr = errors.New("provider down")

	n, err := j.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	// Both were attempted despite the first failure
	assert.Equal(t, []string{"first", "second"}, prov.deleted)
}
