package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maildeck/maildeck/internal/notify"
	"github.com/maildeck/maildeck/internal/webutil"
	"github.com/maildeck/maildeck/pkg/models"
)

// NotificationHandler serves the notification log endpoints
type NotificationHandler struct {
	dispatcher *notify.Dispatcher
}

// NewNotificationHandler creates a notification handler
func NewNotificationHandler(dispatcher *notify.Dispatcher) *NotificationHandler {
	return &NotificationHandler{dispatcher: dispatcher}
}

func (h *NotificationHandler) HandleList(w http.ResponseWriter, r *http.Request) error {
	notifications, err := h.dispatcher.List(r.Context(), r.URL.Query().Get("accountId"))
	if err != nil {
		return err
	}
	if notifications == nil {
		notifications = []*models.Notification{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, notifications)
	return nil
}

// HandleMarkRead flips the read flag; an unknown id is still a 204
func (h *NotificationHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) error {
	if err := h.dispatcher.MarkAsRead(r.Context(), chi.URLParam(r, paramID)); err != nil {
		return err
	}
	webutil.RespondWithJSON(w, http.StatusNoContent, nil)
	return nil
}
