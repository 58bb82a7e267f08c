package models

import "time"

// Audit actions
const (
	AuditCreate  = "create"
	AuditDelete  = "delete"
	AuditMonitor = "monitor"
	AuditLogin   = "login"
)

// AuditLogEntry is an immutable record of an account lifecycle action
type AuditLogEntry struct {
	ID        string    `db:"id" json:"id"`
	Action    string    `db:"action" json:"action"`
	AccountID string    `db:"account_id" json:"accountId"`
	Details   string    `db:"details" json:"details"` // JSON object
	IPAddress string    `db:"ip_address" json:"ipAddress"`
	CreatedAt time.Time `db:"created_at" json:"timestamp"`
}
