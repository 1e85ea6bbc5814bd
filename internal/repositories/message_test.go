package repositories

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestMessageReadRepository_Get(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewMessageReadRepository(sqlxDB)
	ctx := context.Background()

	sentAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	readAt := sentAt.Add(time.Hour)

	columns := []string{
		"id", "body", "sent_at", "read_at",
		"from_username", "from_first_name", "from_last_name", "from_phone",
		"to_username", "to_first_name", "to_last_name", "to_phone",
	}

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM messages AS m")).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(
				int64(7), "hi", sentAt, &readAt,
				"alice", "Alice", "Anderson", "+14155550100",
				"bob", "Bob", "Brown", "+14155550101",
			))

		message, err := repo.Get(ctx, 7)
		assert.NoError(t, err)
		assert.NotNil(t, message)
		assert.Equal(t, int64(7), message.ID)
		assert.Equal(t, "hi", message.Body)
		assert.Equal(t, "alice", message.FromUser.Username)
		assert.Equal(t, "Bob", message.ToUser.FirstName)
		assert.NotNil(t, message.ReadAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM messages AS m")).
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows(columns))

		message, err := repo.Get(ctx, 99)
		assert.NoError(t, err)
		assert.Nil(t, message)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("QueryError", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM messages AS m")).
			WithArgs(int64(7)).
			WillReturnError(sql.ErrConnDone)

		message, err := repo.Get(ctx, 7)
		assert.Error(t, err)
		assert.Nil(t, message)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMessageWriteRepository_Create(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewMessageWriteRepository(sqlxDB)
	ctx := context.Background()

	sentAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	columns := []string{"id", "from_username", "to_username", "body", "sent_at", "read_at"}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO messages")).
			WithArgs("alice", "bob", "hi").
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(int64(1), "alice", "bob", "hi", sentAt, nil))

		message, err := repo.Create(ctx, "alice", "bob", "hi")
		assert.NoError(t, err)
		assert.NotNil(t, message)
		assert.Equal(t, int64(1), message.ID)
		assert.Equal(t, "alice", message.FromUsername)
		assert.Equal(t, "bob", message.ToUsername)
		assert.Nil(t, message.ReadAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("InsertError", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO messages")).
			WithArgs("alice", "ghost", "hi").
			WillReturnError(sql.ErrConnDone)

		message, err := repo.Create(ctx, "alice", "ghost", "hi")
		assert.Error(t, err)
		assert.Nil(t, message)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMessageWriteRepository_MarkRead(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewMessageWriteRepository(sqlxDB)
	ctx := context.Background()

	query := regexp.QuoteMeta("UPDATE messages SET read_at = NOW() WHERE id = $1 AND read_at IS NULL RETURNING read_at")

	t.Run("Success", func(t *testing.T) {
		readAt := time.Date(2024, 3, 1, 13, 0, 0, 0, time.UTC)
		mock.ExpectQuery(query).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"read_at"}).AddRow(readAt))

		got, err := repo.MarkRead(ctx, 7)
		assert.NoError(t, err)
		assert.NotNil(t, got)
		assert.Equal(t, readAt, *got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NoRowMatched", func(t *testing.T) {
		// Absent or already-read message: the conditional update touches
		// nothing and the repository reports (nil, nil).
		mock.ExpectQuery(query).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"read_at"}))

		got, err := repo.MarkRead(ctx, 7)
		assert.NoError(t, err)
		assert.Nil(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("QueryError", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(int64(7)).
			WillReturnError(sql.ErrConnDone)

		got, err := repo.MarkRead(ctx, 7)
		assert.Error(t, err)
		assert.Nil(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMessageLifecycle(t *testing.T) {
	db, cleanup := setupPostgres(t)
	defer cleanup()
	ctx := context.Background()

	userRepo := NewUserWriteRepository(db)
	saveUser(t, userRepo, "alice")
	saveUser(t, userRepo, "bob")

	writeRepo := NewMessageWriteRepository(db)
	readRepo := NewMessageReadRepository(db)

	created, err := writeRepo.Create(ctx, "alice", "bob", "hello bob")
	assert.NoError(t, err)
	assert.NotNil(t, created)
	assert.Positive(t, created.ID)
	assert.Nil(t, created.ReadAt)

	t.Run("UnknownRecipientViolatesForeignKey", func(t *testing.T) {
		message, err := writeRepo.Create(ctx, "alice", "ghost", "anyone there")
		assert.Error(t, err)
		assert.Nil(t, message)
	})

	t.Run("GetReturnsBothParticipants", func(t *testing.T) {
		message, err := readRepo.Get(ctx, created.ID)
		assert.NoError(t, err)
		assert.NotNil(t, message)
		assert.Equal(t, "alice", message.FromUser.Username)
		assert.Equal(t, "bob", message.ToUser.Username)
		assert.Equal(t, "hello bob", message.Body)
		assert.Nil(t, message.ReadAt)
	})

	t.Run("GetUnknownID", func(t *testing.T) {
		message, err := readRepo.Get(ctx, created.ID+1000)
		assert.NoError(t, err)
		assert.Nil(t, message)
	})

	t.Run("MarkReadOnlyOnce", func(t *testing.T) {
		readAt, err := writeRepo.MarkRead(ctx, created.ID)
		assert.NoError(t, err)
		assert.NotNil(t, readAt)

		again, err := writeRepo.MarkRead(ctx, created.ID)
		assert.NoError(t, err)
		assert.Nil(t, again)

		message, err := readRepo.Get(ctx, created.ID)
		assert.NoError(t, err)
		assert.NotNil(t, message.ReadAt)
		assert.Equal(t, readAt.Unix(), message.ReadAt.Unix())
	})
}
