package account

import (
	"context"
	"log/slog"
	"time"

	"github.com/maildeck/maildeck/internal/database"
)

// Janitor deletes accounts older than the configured auto-delete age,
// through the same path the API uses. One sweep runs per interval.
type Janitor struct {
	db       *database.DB
	service  *Service
	interval time.Duration
	logger   *slog.Logger
}

// NewJanitor creates an auto-delete janitor
func NewJanitor(db *database.DB, service *Service, interval time.Duration, logger *slog.Logger) *Janitor {
	return &Janitor{
		db:       db,
		service:  service,
		interval: interval,
		logger:   logger.With("component", "janitor"),
	}
}

// Run sweeps until the context is cancelled
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := j.Sweep(ctx); err != nil {
				j.logger.Error("sweep failed", "error", err)
			} else if n > 0 {
				j.logger.Info("sweep deleted expired accounts", "count", n)
			}
		}
	}
}

// Sweep deletes every account older than the configured number of days and
// returns how many were removed.
func (j *Janitor) Sweep(ctx context.Context) (int, error) {
	settings, err := j.db.GetSettings(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().AddDate(0, 0, -settings.AutoDeleteAfterDays)
	expired, err := j.db.ListAccountsCreatedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, account := range expired {
		if err := j.service.Delete(ctx, account.ID, "janitor"); err != nil {
			j.logger.Error("failed to delete expired account", "account_id", account.ID, "error", err)
			continue
		}
		deleted++
	}
	return deleted, nil
}
