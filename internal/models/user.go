package models

import "time"

// UserDB represents a user record in the database.
// The password column always holds a bcrypt digest, never plaintext,
// and is excluded from JSON output.
type UserDB struct {
	Username    string    `json:"username" db:"username"`           // Primary identity, immutable
	Password    string    `json:"-" db:"password"`                  // Bcrypt digest
	FirstName   string    `json:"first_name" db:"first_name"`       // Required
	LastName    string    `json:"last_name" db:"last_name"`         // Required
	Phone       string    `json:"phone" db:"phone"`                 // Required, format not validated
	JoinAt      time.Time `json:"join_at" db:"join_at"`             // Set once at registration
	LastLoginAt time.Time `json:"last_login_at" db:"last_login_at"` // Updated on every successful login
}

// UserSummary is the public projection used in user listings and as the
// counterpart user nested in message payloads.
type UserSummary struct {
	Username  string `json:"username" db:"username"`
	FirstName string `json:"first_name" db:"first_name"`
	LastName  string `json:"last_name" db:"last_name"`
	Phone     string `json:"phone" db:"phone"`
}

// UserDetail is the public projection returned for a single user.
type UserDetail struct {
	Username    string    `json:"username"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Phone       string    `json:"phone"`
	JoinAt      time.Time `json:"join_at"`
	LastLoginAt time.Time `json:"last_login_at"`
}
