package notify

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maildeck/maildeck/internal/database"
	"github.com/maildeck/maildeck/pkg/models"
)

type fakeService struct {
	name  models.Channel
	calls []string
	fail  bool
}

func (f *fakeService) Name() models.Channel { return f.name }

func (f *fakeService) Deliver(ctx context.Context, n *models.Notification) error {
	f.calls = append(f.calls, n.ID)
	if f.fail {
		return errors.New("fail")
	}
	return nil
}

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate(context.Background()))
	return db
}

func notification(id string) *models.Notification {
	return &models.Notification{
		ID:             id,
		AccountID:      "acc1",
		Subject:        "urgent: invoice",
		MatchedKeyword: "invoice",
		ReceivedAt:     time.Now(),
	}
}

func TestNotifyDeliversToAllRequestedChannels(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	web := &fakeService{name: models.ChannelWeb}
	desktop := &fakeService{name: models.ChannelDesktop, fail: true}
	sound := &fakeService{name: models.ChannelSound}
	d := NewDispatcher(db, slog.Default(), web, desktop, sound)

	err := d.Notify(ctx, notification("n1"), []models.Channel{models.ChannelWeb, models.ChannelDesktop, models.ChannelSound})
	require.NoError(t, err)

	// The failing desktop channel must not block the sound channel
	assert.Equal(t, []string{"n1"}, web.calls)
	assert.Equal(t, []string{"n1"}, desktop.calls)
	assert.Equal(t, []string{"n1"}, sound.calls)
}

func TestNotifySkipsUnrequestedChannels(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	web := &fakeService{name: models.ChannelWeb}
	sound := &fakeService{name: models.ChannelSound}
	d := NewDispatcher(db, slog.Default(), web, sound)

	require.NoError(t, d.Notify(ctx, notification("n1"), []models.Channel{models.ChannelWeb}))

	assert.Len(t, web.calls, 1)
	assert.Empty(t, sound.calls)
}

func TestListIsNewestFirst(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	d := NewDispatcher(db, slog.Default(), &fakeService{name: models.ChannelWeb})

	for _, id := range []string{"first", "second", "third"} {
		require.NoError(t, d.Notify(ctx, notification(id), nil))
	}

	log, err := d.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, log, 3)
	assert.Equal(t, "third", log[0].ID)
	assert.Equal(t, "first", log[2].ID)
}

func TestListFiltersByAccount(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	d := NewDispatcher(db, slog.Default())

	n := notification("n1")
	require.NoError(t, d.Notify(ctx, n, nil))
	other := notification("n2")
	other.AccountID = "acc2"
	require.NoError(t, d.Notify(ctx, other, nil))

	log, err := d.List(ctx, "acc2")
	require.NoError(t, err)
	require.Len(t, log, 1)
	assert.Equal(t, "n2", log[0].ID)
}

func TestMarkAsReadUnknownIDIsNoOp(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	d := NewDispatcher(db, slog.Default())

	require.NoError(t, d.Notify(ctx, notification("n1"), nil))
	require.NoError(t, d.MarkAsRead(ctx, "does-not-exist"))

	log, err := d.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, log, 1)
	assert.False(t, log[0].IsRead)
}

func TestMarkAsRead(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	d := NewDispatcher(db, slog.Default())

	require.NoError(t, d.Notify(ctx, notification("n1"), nil))
	require.NoError(t, d.MarkAsRead(ctx, "n1"))

	log, err := d.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, log, 1)
	assert.True(t, log[0].IsRead)
}
