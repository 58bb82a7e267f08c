package models

import "time"

// Account statuses
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Account represents a provisioned disposable email account
type Account struct {
	ID                string    `db:"id" json:"id"` // provider-issued account ID
	FirstName         string    `db:"first_name" json:"firstName"`
	LastName          string    `db:"last_name" json:"lastName"`
	Email             string    `db:"email" json:"email"`
	Password          string    `db:"password" json:"-"`
	Token             string    `db:"token" json:"-"` // bearer token for the mail API
	Status            string    `db:"status" json:"status"`
	MonitoringEnabled bool      `db:"monitoring_enabled" json:"monitoringEnabled"`
	CreatedAt         time.Time `db:"created_at" json:"createdAt"`
	LastLoginAt       time.Time `db:"last_login_at" json:"lastLoginAt"`
	LastEmailAt       time.Time `db:"last_email_at" json:"lastEmailAt"`
}
