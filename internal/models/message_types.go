package models

import "time"

// Message sender values. One conversation exists per reseller.
const (
	SenderAdmin    = "admin"
	SenderReseller = "reseller"
)

// Message is the model for the 'messages' table.
type Message struct {
	ID         int64     `json:"id" db:"id"`
	ResellerID int64     `json:"reseller_id" db:"reseller_id"`
	Sender     string    `json:"sender" db:"sender"`
	Content    string    `json:"content" db:"content"`
	IsRead     bool      `json:"is_read" db:"is_read"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Conversation is a per-reseller summary row for the admin inbox.
// LastAt stays a string: it comes out of an aggregate, so the driver
// hands it back as raw text rather than a parsed time.
type Conversation struct {
	ResellerID   int64  `json:"reseller_id"`
	ResellerName string `json:"reseller_name"`
	LastMessage  string `json:"last_message"`
	LastAt       string `json:"last_at"`
	UnreadCount  int    `json:"unread_count"`
}
