package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sbilibin2017/messagely/internal/logger"
	"github.com/sbilibin2017/messagely/internal/models"
)

// Error variables
var (
	ErrMessageNotFound    = errors.New("message not found")
	ErrRecipientNotFound  = errors.New("recipient user not found")
	ErrNotParticipant     = errors.New("caller is neither sender nor recipient")
	ErrNotRecipient       = errors.New("only the recipient can mark this message as read")
	ErrMessageAlreadyRead = errors.New("message has already been marked as read")
)

// pgForeignKeyViolation is the PostgreSQL error code for a foreign key
// constraint violation.
const pgForeignKeyViolation = "23503"

// MessageReader defines single-message lookups.
type MessageReader interface {
	Get(ctx context.Context, id int64) (*models.MessageDetail, error)
}

// MessageWriter defines message creation and the read-state transition.
type MessageWriter interface {
	Create(ctx context.Context, fromUsername, toUsername, body string) (*models.MessageDB, error)
	MarkRead(ctx context.Context, id int64) (*time.Time, error)
}

// MessageService handles sending, viewing, and marking messages read,
// enforcing ownership on every operation.
type MessageService struct {
	reader MessageReader
	writer MessageWriter
}

// NewMessageService creates a new MessageService instance.
func NewMessageService(reader MessageReader, writer MessageWriter) *MessageService {
	return &MessageService{
		reader: reader,
		writer: writer,
	}
}

// Send creates a message from the authenticated caller to toUsername.
// Recipient existence is enforced by the insert itself; an unknown
// recipient yields ErrRecipientNotFound.
func (svc *MessageService) Send(ctx context.Context, fromUsername, toUsername, body string) (*models.MessageDB, error) {
	message, err := svc.writer.Create(ctx, fromUsername, toUsername, body)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			logger.Log.Errorw("recipient does not exist", "to_username", toUsername)
			return nil, ErrRecipientNotFound
		}
		logger.Log.Errorw("failed to create message", "err", err)
		return nil, err
	}

	return message, nil
}

// Get returns one message with both participants projected. Only the
// sender or the recipient may view it.
func (svc *MessageService) Get(ctx context.Context, caller string, id int64) (*models.MessageDetail, error) {
	message, err := svc.reader.Get(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to get message", "err", err)
		return nil, err
	}
	if message == nil {
		return nil, ErrMessageNotFound
	}

	if !CanViewMessage(caller, message) {
		logger.Log.Errorw("caller is not a participant", "caller", caller, "message_id", id)
		return nil, ErrNotParticipant
	}

	return message, nil
}

// MarkRead transitions an unread message to read on behalf of its
// recipient and returns the updated message. The transition is
// one-directional: a second attempt yields ErrMessageAlreadyRead, even
// when a concurrent call won the race after the checks here passed.
func (svc *MessageService) MarkRead(ctx context.Context, caller string, id int64) (*models.MessageDetail, error) {
	message, err := svc.reader.Get(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to get message", "err", err)
		return nil, err
	}
	if message == nil {
		return nil, ErrMessageNotFound
	}

	if !CanMarkRead(caller, message) {
		logger.Log.Errorw("caller is not the recipient", "caller", caller, "message_id", id)
		return nil, ErrNotRecipient
	}
	if message.ReadAt != nil {
		return nil, ErrMessageAlreadyRead
	}

	readAt, err := svc.writer.MarkRead(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to mark message read", "err", err)
		return nil, err
	}
	if readAt == nil {
		// Lost the race against another mark-read call.
		return nil, ErrMessageAlreadyRead
	}

	message.ReadAt = readAt
	return message, nil
}
