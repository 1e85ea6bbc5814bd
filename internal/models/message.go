package models

import "time"

// MessageDB represents a message record in the database.
// ReadAt is nil until the recipient marks the message read; once set it
// never changes.
type MessageDB struct {
	ID           int64      `json:"id" db:"id"`                       // Surrogate key, monotonically assigned
	FromUsername string     `json:"from_username" db:"from_username"` // Sender, references users.username
	ToUsername   string     `json:"to_username" db:"to_username"`     // Recipient, references users.username
	Body         string     `json:"body" db:"body"`                   // Non-empty message text
	SentAt       time.Time  `json:"sent_at" db:"sent_at"`             // Set once at creation
	ReadAt       *time.Time `json:"read_at" db:"read_at"`             // Nil while unread
}

// MessageDetail is a single message with both participants projected.
type MessageDetail struct {
	ID       int64       `json:"id"`
	Body     string      `json:"body"`
	SentAt   time.Time   `json:"sent_at"`
	ReadAt   *time.Time  `json:"read_at"`
	FromUser UserSummary `json:"from_user"`
	ToUser   UserSummary `json:"to_user"`
}

// MessageFromSummary is an element of a user's sent-messages listing.
type MessageFromSummary struct {
	ID     int64       `json:"id"`
	Body   string      `json:"body"`
	SentAt time.Time   `json:"sent_at"`
	ReadAt *time.Time  `json:"read_at"`
	ToUser UserSummary `json:"to_user"`
}

// MessageToSummary is an element of a user's received-messages listing.
type MessageToSummary struct {
	ID       int64       `json:"id"`
	Body     string      `json:"body"`
	SentAt   time.Time   `json:"sent_at"`
	ReadAt   *time.Time  `json:"read_at"`
	FromUser UserSummary `json:"from_user"`
}
