package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maildeck/maildeck/internal/database"
	"github.com/maildeck/maildeck/internal/metrics"
	"github.com/maildeck/maildeck/pkg/models"
)

// Service is the interface all notification channels implement
type Service interface {
	Name() models.Channel
	Deliver(ctx context.Context, n *models.Notification) error
}

// Dispatcher records notifications and delivers them through the requested
// channels. The persisted log is the contract for the web channel; desktop
// and sound are best-effort side effects.
type Dispatcher struct {
	db       *database.DB
	services map[models.Channel]Service
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher with the given channel services
func NewDispatcher(db *database.DB, logger *slog.Logger, services ...Service) *Dispatcher {
	d := &Dispatcher{
		db:       db,
		services: make(map[models.Channel]Service),
		logger:   logger.With("component", "dispatcher"),
	}
	for _, s := range services {
		d.services[s.Name()] = s
	}
	return d
}

// Notify appends the notification to the log and delivers it through each
// requested channel in sequence. A channel failure is logged and never
// blocks the remaining channels.
func (d *Dispatcher) Notify(ctx context.Context, n *models.Notification, channels []models.Channel) error {
	if err := d.db.InsertNotification(ctx, n); err != nil {
		return fmt.Errorf("failed to record notification: %w", err)
	}

	for _, ch := range channels {
		svc, ok := d.services[ch]
		if !ok {
			d.logger.Debug("no service for channel", "channel", ch)
			continue
		}
		if err := svc.Deliver(ctx, n); err != nil {
			d.logger.Warn("channel delivery failed", "channel", ch, "notification_id", n.ID, "error", err)
			continue
		}
		metrics.IncNotificationsDelivered(string(ch))
	}
	return nil
}

// MarkAsRead flips the read flag. Unknown ids are a no-op, not an error.
func (d *Dispatcher) MarkAsRead(ctx context.Context, id string) error {
	return d.db.MarkNotificationRead(ctx, id)
}

// List returns the notification log newest first, optionally filtered to
// one account. The log is never truncated.
func (d *Dispatcher) List(ctx context.Context, accountID string) ([]*models.Notification, error) {
	return d.db.ListNotifications(ctx, accountID)
}
