package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/messagely/internal/logger"
	"github.com/sbilibin2017/messagely/internal/models"
)

// UserReadRepository serves lookups over the users table and the
// per-user message listings.
type UserReadRepository struct {
	db *sqlx.DB
}

func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

// GetByUsername returns the full user record, or (nil, nil) when the
// username is unknown.
func (r *UserReadRepository) GetByUsername(ctx context.Context, username string) (*models.UserDB, error) {
	const query = `
		SELECT username, password, first_name, last_name, phone, join_at, last_login_at
		FROM users
		WHERE username = $1
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, username)

	logger.Log.Infow("query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{username},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// All returns the public summary of every user, ordered by username.
func (r *UserReadRepository) All(ctx context.Context) ([]models.UserSummary, error) {
	const query = `
		SELECT username, first_name, last_name, phone
		FROM users
		ORDER BY username
	`

	users := []models.UserSummary{}
	err := r.db.SelectContext(ctx, &users, query)

	logger.Log.Infow("query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"rows", len(users),
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return users, nil
}

// counterpartRow is a message joined with one counterpart user's
// public fields, scanned flat and reshaped by the callers below.
type counterpartRow struct {
	ID        int64      `db:"id"`
	Body      string     `db:"body"`
	SentAt    time.Time  `db:"sent_at"`
	ReadAt    *time.Time `db:"read_at"`
	Username  string     `db:"username"`
	FirstName string     `db:"first_name"`
	LastName  string     `db:"last_name"`
	Phone     string     `db:"phone"`
}

// MessagesFrom returns the messages sent by username, each joined with
// the recipient's public fields, ordered by sent_at ascending.
func (r *UserReadRepository) MessagesFrom(ctx context.Context, username string) ([]models.MessageFromSummary, error) {
	const query = `
		SELECT m.id, m.body, m.sent_at, m.read_at,
		       u.username, u.first_name, u.last_name, u.phone
		FROM messages AS m
		JOIN users AS u ON m.to_username = u.username
		WHERE m.from_username = $1
		ORDER BY m.sent_at
	`

	rows := []counterpartRow{}
	err := r.db.SelectContext(ctx, &rows, query, username)

	logger.Log.Infow("query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{username},
		"rows", len(rows),
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	messages := make([]models.MessageFromSummary, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, models.MessageFromSummary{
			ID:     row.ID,
			Body:   row.Body,
			SentAt: row.SentAt,
			ReadAt: row.ReadAt,
			ToUser: models.UserSummary{
				Username:  row.Username,
				FirstName: row.FirstName,
				LastName:  row.LastName,
				Phone:     row.Phone,
			},
		})
	}

	return messages, nil
}

// MessagesTo returns the messages received by username, each joined with
// the sender's public fields, ordered by sent_at ascending.
func (r *UserReadRepository) MessagesTo(ctx context.Context, username string) ([]models.MessageToSummary, error) {
	const query = `
		SELECT m.id, m.body, m.sent_at, m.read_at,
		       u.username, u.first_name, u.last_name, u.phone
		FROM messages AS m
		JOIN users AS u ON m.from_username = u.username
		WHERE m.to_username = $1
		ORDER BY m.sent_at
	`

	rows := []counterpartRow{}
	err := r.db.SelectContext(ctx, &rows, query, username)

	logger.Log.Infow("query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{username},
		"rows", len(rows),
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	messages := make([]models.MessageToSummary, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, models.MessageToSummary{
			ID:     row.ID,
			Body:   row.Body,
			SentAt: row.SentAt,
			ReadAt: row.ReadAt,
			FromUser: models.UserSummary{
				Username:  row.Username,
				FirstName: row.FirstName,
				LastName:  row.LastName,
				Phone:     row.Phone,
			},
		})
	}

	return messages, nil
}

// UserWriteRepository performs inserts and updates on the users table.
type UserWriteRepository struct {
	db *sqlx.DB
}

func NewUserWriteRepository(db *sqlx.DB) *UserWriteRepository {
	return &UserWriteRepository{db: db}
}

// Save inserts a new user. The password argument must already be a
// bcrypt digest. A duplicate username surfaces as a unique-violation
// error from the driver.
func (r *UserWriteRepository) Save(ctx context.Context, username, password, firstName, lastName, phone string) error {
	const query = `
		INSERT INTO users (username, password, first_name, last_name, phone, join_at, last_login_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	args := []any{username, password, firstName, lastName, phone}

	_, err := r.db.ExecContext(ctx, query, args...)

	logger.Log.Infow("query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{username, firstName, lastName, phone},
		"error", err,
	)

	return err
}

// UpdateLastLogin sets last_login_at to now and returns the new value,
// or (nil, nil) when the username is unknown.
func (r *UserWriteRepository) UpdateLastLogin(ctx context.Context, username string) (*time.Time, error) {
	const query = `
		UPDATE users
		SET last_login_at = NOW()
		WHERE username = $1
		RETURNING last_login_at
	`

	var lastLoginAt time.Time
	err := r.db.GetContext(ctx, &lastLoginAt, query, username)

	logger.Log.Infow("query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{username},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &lastLoginAt, nil
}
