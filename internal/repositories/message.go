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

// MessageReadRepository serves single-message lookups with both
// participants projected.
type MessageReadRepository struct {
	db *sqlx.DB
}

func NewMessageReadRepository(db *sqlx.DB) *MessageReadRepository {
	return &MessageReadRepository{db: db}
}

// messageDetailRow is a message joined with both users' public fields,
// scanned flat.
type messageDetailRow struct {
	ID            int64      `db:"id"`
	Body          string     `db:"body"`
	SentAt        time.Time  `db:"sent_at"`
	ReadAt        *time.Time `db:"read_at"`
	FromUsername  string     `db:"from_username"`
	FromFirstName string     `db:"from_first_name"`
	FromLastName  string     `db:"from_last_name"`
	FromPhone     string     `db:"from_phone"`
	ToUsername    string     `db:"to_username"`
	ToFirstName   string     `db:"to_first_name"`
	ToLastName    string     `db:"to_last_name"`
	ToPhone       string     `db:"to_phone"`
}

// Get returns one message with nested sender and recipient projections,
// or (nil, nil) when the id is unknown.
func (r *MessageReadRepository) Get(ctx context.Context, id int64) (*models.MessageDetail, error) {
	const query = `
		SELECT m.id, m.body, m.sent_at, m.read_at,
		       f.username AS from_username, f.first_name AS from_first_name,
		       f.last_name AS from_last_name, f.phone AS from_phone,
		       t.username AS to_username, t.first_name AS to_first_name,
		       t.last_name AS to_last_name, t.phone AS to_phone
		FROM messages AS m
		JOIN users AS f ON m.from_username = f.username
		JOIN users AS t ON m.to_username = t.username
		WHERE m.id = $1
	`

	var row messageDetailRow
	err := r.db.GetContext(ctx, &row, query, id)

	logger.Log.Infow("query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &models.MessageDetail{
		ID:     row.ID,
		Body:   row.Body,
		SentAt: row.SentAt,
		ReadAt: row.ReadAt,
		FromUser: models.UserSummary{
			Username:  row.FromUsername,
			FirstName: row.FromFirstName,
			LastName:  row.FromLastName,
			Phone:     row.FromPhone,
		},
		ToUser: models.UserSummary{
			Username:  row.ToUsername,
			FirstName: row.ToFirstName,
			LastName:  row.ToLastName,
			Phone:     row.ToPhone,
		},
	}, nil
}

// MessageWriteRepository performs inserts and the read-state transition
// on the messages table.
type MessageWriteRepository struct {
	db *sqlx.DB
}

func NewMessageWriteRepository(db *sqlx.DB) *MessageWriteRepository {
	return &MessageWriteRepository{db: db}
}

// Create inserts a new message in a single statement. An unknown sender
// or recipient surfaces as a foreign-key-violation error from the
// driver; there is no separate existence check to race against.
func (r *MessageWriteRepository) Create(ctx context.Context, fromUsername, toUsername, body string) (*models.MessageDB, error) {
	const query = `
		INSERT INTO messages (from_username, to_username, body, sent_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, from_username, to_username, body, sent_at, read_at
	`
	args := []any{fromUsername, toUsername, body}

	var message models.MessageDB
	err := r.db.GetContext(ctx, &message, query, args...)

	logger.Log.Infow("query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return &message, nil
}

// MarkRead sets read_at on an unread message and returns the new value.
// The update is conditional on read_at being unset, so two concurrent
// calls cannot both succeed. Returns (nil, nil) when no row matched,
// which means the message is absent or already read.
func (r *MessageWriteRepository) MarkRead(ctx context.Context, id int64) (*time.Time, error) {
	const query = `
		UPDATE messages
		SET read_at = NOW()
		WHERE id = $1 AND read_at IS NULL
		RETURNING read_at
	`

	var readAt time.Time
	err := r.db.GetContext(ctx, &readAt, query, id)

	logger.Log.Infow("query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &readAt, nil
}
