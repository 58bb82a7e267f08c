package models

import "time"

// Notification represents one keyword match event. Its ID is the ID of the
// message that matched, so a message can never notify twice.
type Notification struct {
	ID             string    `db:"id" json:"id"`
	AccountID      string    `db:"account_id" json:"accountId"`
	Subject        string    `db:"subject" json:"subject"`
	MatchedKeyword string    `db:"matched_keyword" json:"matchedKeyword"`
	ReceivedAt     time.Time `db:"received_at" json:"receivedAt"`
	IsRead         bool      `db:"is_read" json:"isRead"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}
