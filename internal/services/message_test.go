package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sbilibin2017/messagely/internal/models"
	"github.com/sbilibin2017/messagely/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestMessageService_Send(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	created := &models.MessageDB{
		ID:           1,
		FromUsername: "alice",
		ToUsername:   "bob",
		Body:         "hi",
		SentAt:       time.Now(),
	}

	tests := []struct {
		name      string
		writerErr error
		message   *models.MessageDB
		wantErr   error
	}{
		{
			name:    "success",
			message: created,
		},
		{
			name:      "unknown recipient maps foreign key violation",
			writerErr: &pgconn.PgError{Code: "23503"},
			wantErr:   services.ErrRecipientNotFound,
		},
		{
			name:      "writer error",
			writerErr: errors.New("db error"),
			wantErr:   errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockReader := services.NewMockMessageReader(ctrl)
			mockWriter := services.NewMockMessageWriter(ctrl)
			svc := services.NewMessageService(mockReader, mockWriter)

			mockWriter.EXPECT().
				Create(gomock.Any(), "alice", "bob", "hi").
				Return(tt.message, tt.writerErr)

			message, err := svc.Send(context.Background(), "alice", "bob", "hi")
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Nil(t, message)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, created, message)
			}
		})
	}
}

func TestMessageService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	detail := &models.MessageDetail{
		ID:       1,
		Body:     "hi",
		SentAt:   time.Now(),
		FromUser: models.UserSummary{Username: "alice"},
		ToUser:   models.UserSummary{Username: "bob"},
	}

	tests := []struct {
		name      string
		caller    string
		message   *models.MessageDetail
		readerErr error
		wantErr   error
	}{
		{name: "sender may view", caller: "alice", message: detail},
		{name: "recipient may view", caller: "bob", message: detail},
		{name: "outsider rejected", caller: "mallory", message: detail, wantErr: services.ErrNotParticipant},
		{name: "absent message", caller: "alice", message: nil, wantErr: services.ErrMessageNotFound},
		{name: "reader error", caller: "alice", readerErr: errors.New("db error"), wantErr: errors.New("db error")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockReader := services.NewMockMessageReader(ctrl)
			mockWriter := services.NewMockMessageWriter(ctrl)
			svc := services.NewMessageService(mockReader, mockWriter)

			mockReader.EXPECT().
				Get(gomock.Any(), int64(1)).
				Return(tt.message, tt.readerErr)

			message, err := svc.Get(context.Background(), tt.caller, 1)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Nil(t, message)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, detail, message)
			}
		})
	}
}

func TestMessageService_MarkRead(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	readAt := time.Now()

	unread := func() *models.MessageDetail {
		return &models.MessageDetail{
			ID:       1,
			Body:     "hi",
			FromUser: models.UserSummary{Username: "alice"},
			ToUser:   models.UserSummary{Username: "bob"},
		}
	}
	alreadyRead := func() *models.MessageDetail {
		m := unread()
		m.ReadAt = &readAt
		return m
	}

	tests := []struct {
		name       string
		caller     string
		message    *models.MessageDetail
		markResult *time.Time
		expectMark bool
		wantErr    error
	}{
		{
			name:       "recipient marks unread message",
			caller:     "bob",
			message:    unread(),
			markResult: &readAt,
			expectMark: true,
		},
		{
			name:    "sender may not mark",
			caller:  "alice",
			message: unread(),
			wantErr: services.ErrNotRecipient,
		},
		{
			name:    "outsider may not mark",
			caller:  "mallory",
			message: unread(),
			wantErr: services.ErrNotRecipient,
		},
		{
			name:    "already read rejected",
			caller:  "bob",
			message: alreadyRead(),
			wantErr: services.ErrMessageAlreadyRead,
		},
		{
			name:    "absent message",
			caller:  "bob",
			message: nil,
			wantErr: services.ErrMessageNotFound,
		},
		{
			name:       "lost race treated as already read",
			caller:     "bob",
			message:    unread(),
			markResult: nil,
			expectMark: true,
			wantErr:    services.ErrMessageAlreadyRead,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockReader := services.NewMockMessageReader(ctrl)
			mockWriter := services.NewMockMessageWriter(ctrl)
			svc := services.NewMessageService(mockReader, mockWriter)

			mockReader.EXPECT().
				Get(gomock.Any(), int64(1)).
				Return(tt.message, nil)

			if tt.expectMark {
				mockWriter.EXPECT().
					MarkRead(gomock.Any(), int64(1)).
					Return(tt.markResult, nil)
			}

			message, err := svc.MarkRead(context.Background(), tt.caller, 1)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Nil(t, message)
				return
			}

			assert.NoError(t, err)
			assert.NotNil(t, message.ReadAt)
			assert.Equal(t, readAt, *message.ReadAt)
		})
	}
}
