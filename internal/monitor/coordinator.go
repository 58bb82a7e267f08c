package monitor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/maildeck/maildeck/internal/database"
	"github.com/maildeck/maildeck/internal/mailtm"
	"github.com/maildeck/maildeck/internal/metrics"
	"github.com/maildeck/maildeck/pkg/models"
)

// MessageSource fetches mailbox contents from the mail provider
type MessageSource interface {
	Messages(ctx context.Context, token string) ([]mailtm.Message, error)
	Token(ctx context.Context, address, password string) (string, error)
}

// Notifier delivers keyword match notifications
type Notifier interface {
	Notify(ctx context.Context, n *models.Notification, channels []models.Channel) error
}

// Coordinator owns the per-account pollers. Each poller fetches the mailbox
// at a fixed interval, deduplicates against the persisted seen set, and
// runs new messages through the account's current monitoring rule.
type Coordinator struct {
	db       *database.DB
	source   MessageSource
	notifier Notifier
	interval time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	pollers map[string]*poller
}

type poller struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// NewCoordinator creates a new monitoring coordinator
func NewCoordinator(db *database.DB, source MessageSource, notifier Notifier, interval time.Duration, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		db:       db,
		source:   source,
		notifier: notifier,
		interval: interval,
		logger:   logger.With("component", "monitor"),
		pollers:  make(map[string]*poller),
	}
}

// Start launches a poller for the account. If one is already running it is
// stopped and replaced, so at most one poller per account exists.
func (c *Coordinator) Start(accountID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if old, exists := c.pollers[accountID]; exists {
		old.cancel()
		<-old.done
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &poller{cancel: cancel, done: make(chan struct{})}
	c.pollers[accountID] = p

	go c.run(ctx, accountID, p)

	c.logger.Info("started monitoring", "account_id", accountID)
}

// Stop cancels the account's poller. Idempotent when none is running. A
// cycle already in flight completes and its results stand. The seen set
// and notification history are never cleared.
func (c *Coordinator) Stop(accountID string) {
	c.mu.Lock()
	p, exists := c.pollers[accountID]
	if exists {
		delete(c.pollers, accountID)
	}
	c.mu.Unlock()

	if !exists {
		return
	}
	p.cancel()
	<-p.done
	c.logger.Info("stopped monitoring", "account_id", accountID)
}

// Active reports whether a poller is running for the account
func (c *Coordinator) Active(accountID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, exists := c.pollers[accountID]
	return exists
}

// StopAll stops every poller; used at shutdown
func (c *Coordinator) StopAll() {
	c.mu.Lock()
	pollers := c.pollers
	c.pollers = make(map[string]*poller)
	c.mu.Unlock()

	for id, p := range pollers {
		p.cancel()
		<-p.done
		c.logger.Debug("stopped monitoring", "account_id", id)
	}
}

// RestoreAll relaunches monitoring for every account flagged as monitored.
// Called once at startup.
func (c *Coordinator) RestoreAll(ctx context.Context) error {
	accounts, err := c.db.ListMonitoredAccounts(ctx)
	if err != nil {
		return err
	}
	for _, account := range accounts {
		c.Start(account.ID)
	}
	if len(accounts) > 0 {
		c.logger.Info("restored monitoring", "count", len(accounts))
	}
	return nil
}

func (c *Coordinator) run(ctx context.Context, accountID string, p *poller) {
	defer close(p.done)

	// ctx only decides whether the next tick fires. A tick already in
	// flight runs on an uncancellable context so stopping the poller
	// mid-cycle cannot commit ids to the seen set and then lose their
	// notifications to a cancelled write.
	workCtx := context.WithoutCancel(ctx)

	// Initial cycle before the first tick
	c.cycle(workCtx, accountID)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.cycle(workCtx, accountID)
		}
	}
}

// cycle performs one fetch-dedup-match pass. Any failure degrades to zero
// new messages for this cycle; the next tick is a fresh attempt.
func (c *Coordinator) cycle(ctx context.Context, accountID string) {
	account, err := c.db.GetAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			c.logger.Error("failed to load account", "account_id", accountID, "error", err)
		}
		return
	}

	messages, err := c.fetch(ctx, account)
	if err != nil {
		c.logger.Error("failed to fetch messages", "account_id", accountID, "error", err)
		metrics.IncFetchFailures()
		return
	}
	metrics.IncPollCycles()

	ids := make([]string, len(messages))
	byID := make(map[string]mailtm.Message, len(messages))
	for i, msg := range messages {
		ids[i] = msg.ID
		byID[msg.ID] = msg
	}

	fresh, err := c.db.FilterNewMessageIDs(ctx, accountID, ids)
	if err != nil {
		c.logger.Error("failed to filter seen messages", "account_id", accountID, "error", err)
		return
	}
	if len(fresh) == 0 {
		return
	}

	// Only ids from the batch actually returned get recorded; a failed
	// write leaves the seen set untouched and the cycle yields nothing.
	if err := c.db.AddSeenMessages(ctx, accountID, fresh); err != nil {
		c.logger.Error("failed to record seen messages", "account_id", accountID, "error", err)
		return
	}
	metrics.AddNewMessages(len(fresh))

	latest := account.LastEmailAt
	for _, id := range fresh {
		if created := byID[id].CreatedAt; created.After(latest) {
			latest = created
		}
	}
	if latest.After(account.LastEmailAt) {
		if err := c.db.TouchLastEmail(ctx, accountID, latest); err != nil {
			c.logger.Warn("failed to update last email time", "account_id", accountID, "error", err)
		}
	}

	// Always the current rule, never a snapshot: edits between cycles
	// apply to the next batch.
	rule, err := c.db.GetRule(ctx, accountID)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			c.logger.Error("failed to load rule", "account_id", accountID, "error", err)
		}
		return
	}
	if !rule.Enabled {
		return
	}

	for _, id := range fresh {
		msg := byID[id]
		keyword, ok := Match(msg.Subject, rule)
		if !ok {
			continue
		}
		metrics.IncKeywordMatches()

		n := &models.Notification{
			ID:             msg.ID,
			AccountID:      accountID,
			Subject:        msg.Subject,
			MatchedKeyword: keyword,
			ReceivedAt:     msg.CreatedAt,
		}
		if err := c.notifier.Notify(ctx, n, rule.Channels); err != nil {
			c.logger.Error("failed to dispatch notification", "account_id", accountID, "message_id", msg.ID, "error", err)
		}
	}
}

// fetch retrieves the mailbox, refreshing the bearer token once if the
// provider rejects it.
func (c *Coordinator) fetch(ctx context.Context, account *models.Account) ([]mailtm.Message, error) {
	messages, err := c.source.Messages(ctx, account.Token)
	if err == nil || !errors.Is(err, mailtm.ErrAuthentication) {
		return messages, err
	}

	token, err := c.source.Token(ctx, account.Email, account.Password)
	if err != nil {
		return nil, err
	}
	if err := c.db.UpdateAccountToken(ctx, account.ID, token); err != nil {
		c.logger.Warn("failed to store refreshed token", "account_id", account.ID, "error", err)
	}
	return c.source.Messages(ctx, token)
}
