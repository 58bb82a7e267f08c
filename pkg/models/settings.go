package models

import "fmt"

// Settings holds user-tunable dashboard behavior. A single row exists.
type Settings struct {
	AutoDeleteAfterDays    int       `db:"auto_delete_after_days" json:"autoDeleteAfterDays"`
	DefaultChannels        []Channel `json:"defaultNotificationChannels"`
	AutoRefresh            bool      `db:"auto_refresh" json:"autoRefresh"`
	RefreshIntervalSeconds int       `db:"refresh_interval_seconds" json:"refreshInterval"`
}

// DefaultSettings returns the settings used before the user saves any
func DefaultSettings() *Settings {
	return &Settings{
		AutoDeleteAfterDays:    7,
		DefaultChannels:        []Channel{ChannelWeb},
		AutoRefresh:            true,
		RefreshIntervalSeconds: 60,
	}
}

// Validate checks the value bounds enforced by the settings form
func (s *Settings) Validate() error {
	if s.AutoDeleteAfterDays < 1 || s.AutoDeleteAfterDays > 30 {
		return fmt.Errorf("autoDeleteAfterDays must be between 1 and 30, got %d", s.AutoDeleteAfterDays)
	}
	if s.RefreshIntervalSeconds < 30 || s.RefreshIntervalSeconds > 300 {
		return fmt.Errorf("refreshInterval must be between 30 and 300 seconds, got %d", s.RefreshIntervalSeconds)
	}
	for _, c := range s.DefaultChannels {
		if !ValidChannel(c) {
			return fmt.Errorf("unknown notification channel %q", c)
		}
	}
	return nil
}
