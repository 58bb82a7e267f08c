package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/maildeck/maildeck/internal/audit"
	"github.com/maildeck/maildeck/internal/database"
	"github.com/maildeck/maildeck/internal/monitor"
	"github.com/maildeck/maildeck/internal/webutil"
	"github.com/maildeck/maildeck/pkg/models"
)

// MonitoringHandler serves the per-account monitoring rule endpoints
type MonitoringHandler struct {
	db          *database.DB
	coordinator *monitor.Coordinator
	audit       *audit.Service
}

// NewMonitoringHandler creates a monitoring handler
func NewMonitoringHandler(db *database.DB, coordinator *monitor.Coordinator, auditSvc *audit.Service) *MonitoringHandler {
	return &MonitoringHandler{db: db, coordinator: coordinator, audit: auditSvc}
}

func (h *MonitoringHandler) HandleGet(w http.ResponseWriter, r *http.Request) error {
	rule, err := h.db.GetRule(r.Context(), chi.URLParam(r, paramID))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return webutil.ErrNotFound("no monitoring rule for this account")
		}
		return err
	}
	webutil.RespondWithJSON(w, http.StatusOK, rule)
	return nil
}

// HandleUpsert replaces the account's rule wholesale and aligns the poller
// with the rule's enabled flag. A running poller picks the new rule up on
// its next cycle without restarting.
func (h *MonitoringHandler) HandleUpsert(w http.ResponseWriter, r *http.Request) error {
	accountID := chi.URLParam(r, paramID)
	ctx := r.Context()

	if _, err := h.db.GetAccountByID(ctx, accountID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return webutil.ErrNotFound("account not found")
		}
		return err
	}

	var req struct {
		Keywords      []string         `json:"keywords"`
		CaseSensitive bool             `json:"caseSensitive"`
		Enabled       bool             `json:"enabled"`
		Channels      []models.Channel `json:"notificationChannels"`
	}
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	var keywords []string
	for _, kw := range req.Keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	if len(keywords) == 0 {
		return webutil.ErrBadRequest("at least one keyword is required")
	}
	for _, ch := range req.Channels {
		if !models.ValidChannel(ch) {
			return webutil.ErrBadRequest("unknown notification channel \"" + string(ch) + "\"")
		}
	}

	channels := req.Channels
	if len(channels) == 0 {
		settings, err := h.db.GetSettings(ctx)
		if err != nil {
			return err
		}
		channels = settings.DefaultChannels
	}

	rule := &models.MonitoringRule{
		AccountID:     accountID,
		Keywords:      keywords,
		CaseSensitive: req.CaseSensitive,
		Enabled:       req.Enabled,
		Channels:      channels,
	}
	if err := h.db.UpsertRule(ctx, rule); err != nil {
		return err
	}
	if err := h.db.SetMonitoringEnabled(ctx, accountID, rule.Enabled); err != nil {
		return err
	}

	if rule.Enabled {
		// A running poller reads the stored rule fresh each batch, so an
		// edit needs no restart.
		if !h.coordinator.Active(accountID) {
			h.coordinator.Start(accountID)
		}
	} else {
		h.coordinator.Stop(accountID)
	}

	h.audit.Log(ctx, models.AuditMonitor, accountID, map[string]any{
		"enabled":  rule.Enabled,
		"keywords": rule.Keywords,
	}, clientIP(r))

	webutil.RespondWithJSON(w, http.StatusOK, rule)
	return nil
}

func (h *MonitoringHandler) HandleDelete(w http.ResponseWriter, r *http.Request) error {
	accountID := chi.URLParam(r, paramID)
	ctx := r.Context()

	if err := h.db.DeleteRule(ctx, accountID); err != nil {
		return err
	}
	if err := h.db.SetMonitoringEnabled(ctx, accountID, false); err != nil && !errors.Is(err, database.ErrNotFound) {
		return err
	}
	h.coordinator.Stop(accountID)

	h.audit.Log(ctx, models.AuditMonitor, accountID, map[string]any{"enabled": false}, clientIP(r))

	webutil.RespondWithJSON(w, http.StatusNoContent, nil)
	return nil
}
