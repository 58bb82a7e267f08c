// Package metrics exposes Prometheus counters for the monitoring engine
// and account lifecycle.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	pollCycles = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "maildeck_poll_cycles_total",
			Help: "Total completed poll cycles across all accounts",
		},
	)
	fetchFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "maildeck_fetch_failures_total",
			Help: "Total poll cycles that failed to fetch messages",
		},
	)
	newMessages = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "maildeck_new_messages_total",
			Help: "Total messages seen for the first time",
		},
	)
	keywordMatches = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "maildeck_keyword_matches_total",
			Help: "Total messages that matched a monitoring rule",
		},
	)
	notificationsDelivered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maildeck_notifications_delivered_total",
			Help: "Total notification deliveries per channel",
		},
		[]string{"channel"},
	)
	accountsProvisioned = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "maildeck_accounts_provisioned_total",
			Help: "Total disposable accounts provisioned",
		},
	)
	accountsDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "maildeck_accounts_deleted_total",
			Help: "Total disposable accounts deleted",
		},
	)
)

func init() {
	prometheus.MustRegister(
		pollCycles,
		fetchFailures,
		newMessages,
		keywordMatches,
		notificationsDelivered,
		accountsProvisioned,
		accountsDeleted,
	)
}

// Handler returns the HTTP handler serving the metrics endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}

func IncPollCycles()    { pollCycles.Inc() }
func IncFetchFailures() { fetchFailures.Inc() }

// AddNewMessages records n first-seen messages
func AddNewMessages(n int) { newMessages.Add(float64(n)) }

func IncKeywordMatches() { keywordMatches.Inc() }

// IncNotificationsDelivered records one delivery on the named channel
func IncNotificationsDelivered(channel string) {
	notificationsDelivered.WithLabelValues(channel).Inc()
}

func IncAccountsProvisioned() { accountsProvisioned.Inc() }
func IncAccountsDeleted()     { accountsDeleted.Inc() }
