package services

import (
	"context"
	"errors"

	"github.com/sbilibin2017/messagely/internal/logger"
	"github.com/sbilibin2017/messagely/internal/models"
)

// ErrForbidden means the caller is authenticated but not permitted to
// act on the requested resource.
var ErrForbidden = errors.New("not allowed to access this resource")

// UserDirectoryReader defines the read operations the user service
// needs.
type UserDirectoryReader interface {
	GetByUsername(ctx context.Context, username string) (*models.UserDB, error)
	All(ctx context.Context) ([]models.UserSummary, error)
	MessagesFrom(ctx context.Context, username string) ([]models.MessageFromSummary, error)
	MessagesTo(ctx context.Context, username string) ([]models.MessageToSummary, error)
}

// UserService serves user listings, user detail, and the per-user
// message lists, enforcing the self-only policy on the latter two.
type UserService struct {
	reader UserDirectoryReader
}

// NewUserService creates a new UserService instance.
func NewUserService(reader UserDirectoryReader) *UserService {
	return &UserService{reader: reader}
}

// List returns the public summary of every user. Any authenticated
// caller may list users.
func (svc *UserService) List(ctx context.Context) ([]models.UserSummary, error) {
	users, err := svc.reader.All(ctx)
	if err != nil {
		logger.Log.Errorw("failed to list users", "err", err)
		return nil, err
	}
	return users, nil
}

// Get returns the detail of one user. Callers may only view themselves.
func (svc *UserService) Get(ctx context.Context, caller, username string) (*models.UserDetail, error) {
	if !CanViewUser(caller, username) {
		logger.Log.Errorw("self-only policy rejected user detail", "caller", caller, "username", username)
		return nil, ErrForbidden
	}

	user, err := svc.reader.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return &models.UserDetail{
		Username:    user.Username,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Phone:       user.Phone,
		JoinAt:      user.JoinAt,
		LastLoginAt: user.LastLoginAt,
	}, nil
}

// MessagesFrom returns the messages sent by username. Callers may only
// view their own sent list.
func (svc *UserService) MessagesFrom(ctx context.Context, caller, username string) ([]models.MessageFromSummary, error) {
	if !CanViewUser(caller, username) {
		logger.Log.Errorw("self-only policy rejected sent messages", "caller", caller, "username", username)
		return nil, ErrForbidden
	}

	messages, err := svc.reader.MessagesFrom(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to get sent messages", "err", err)
		return nil, err
	}
	return messages, nil
}

// MessagesTo returns the messages received by username. Callers may
// only view their own received list.
func (svc *UserService) MessagesTo(ctx context.Context, caller, username string) ([]models.MessageToSummary, error) {
	if !CanViewUser(caller, username) {
		logger.Log.Errorw("self-only policy rejected received messages", "caller", caller, "username", username)
		return nil, ErrForbidden
	}

	messages, err := svc.reader.MessagesTo(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to get received messages", "err", err)
		return nil, err
	}
	return messages, nil
}
