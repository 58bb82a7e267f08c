package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/maildeck/maildeck/internal/metrics"
	"github.com/maildeck/maildeck/internal/webutil"
)

const (
	apiBasePath           = "/api"
	accountsBasePath      = "/accounts"
	notificationsBasePath = "/notifications"
	settingsBasePath      = "/settings"
	auditBasePath         = "/audit"

	monitoringSubPath = "/monitoring"
	messagesSubPath   = "/messages"
	loginSubPath      = "/login"
	readSubPath       = "/read"

	paramID    = "id"
	paramMsgID = "msgID"
)

// NewRouter assembles the dashboard API
func NewRouter(
	accountHandler *AccountHandler,
	monitoringHandler *MonitoringHandler,
	messageHandler *MessageHandler,
	notificationHandler *NotificationHandler,
	settingsHandler *SettingsHandler,
	auditHandler *AuditHandler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		webutil.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route(apiBasePath, func(r chi.Router) {
		r.Route(accountsBasePath, func(r chi.Router) {
			r.Get("/", webutil.MakeHandler(accountHandler.HandleList))
			r.Post("/", webutil.MakeHandler(accountHandler.HandleCreate))

			r.Route("/{"+paramID+"}", func(r chi.Router) {
				r.Get("/", webutil.MakeHandler(accountHandler.HandleGet))
				r.Patch("/", webutil.MakeHandler(accountHandler.HandleUpdate))
				r.Delete("/", webutil.MakeHandler(accountHandler.HandleDelete))
				r.Post(loginSubPath, webutil.MakeHandler(accountHandler.HandleLogin))

				r.Get(monitoringSubPath, webutil.MakeHandler(monitoringHandler.HandleGet))
				r.Put(monitoringSubPath, webutil.MakeHandler(monitoringHandler.HandleUpsert))
				r.Delete(monitoringSubPath, webutil.MakeHandler(monitoringHandler.HandleDelete))

				r.Get(messagesSubPath, webutil.MakeHandler(messageHandler.HandleList))
				r.Get(messagesSubPath+"/{"+paramMsgID+"}", webutil.MakeHandler(messageHandler.HandleGet))
			})
		})

		r.Route(notificationsBasePath, func(r chi.Router) {
			r.Get("/", webutil.MakeHandler(notificationHandler.HandleList))
			r.Post("/{"+paramID+"}"+readSubPath, webutil.MakeHandler(notificationHandler.HandleMarkRead))
		})

		r.Get(settingsBasePath, webutil.MakeHandler(settingsHandler.HandleGet))
		r.Put(settingsBasePath, webutil.MakeHandler(settingsHandler.HandleSave))

		r.Get(auditBasePath, webutil.MakeHandler(auditHandler.HandleList))
	})

	return r
}
