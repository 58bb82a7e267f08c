package models

// Channel is a notification delivery mechanism
type Channel string

// Notification channels
const (
	ChannelWeb     Channel = "web"
	ChannelDesktop Channel = "desktop"
	ChannelSound   Channel = "sound"
)

// ValidChannel reports whether c is a known channel name
func ValidChannel(c Channel) bool {
	switch c {
	case ChannelWeb, ChannelDesktop, ChannelSound:
		return true
	}
	return false
}

// MonitoringRule selects which incoming messages trigger a notification
// for one account. Keywords keep their original order; the first keyword
// that matches a subject is the one reported.
type MonitoringRule struct {
	AccountID     string    `db:"account_id" json:"accountId"`
	Keywords      []string  `json:"keywords"`
	CaseSensitive bool      `db:"case_sensitive" json:"caseSensitive"`
	Enabled       bool      `db:"enabled" json:"enabled"`
	Channels      []Channel `json:"notificationChannels"`
}
