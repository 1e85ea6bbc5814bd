package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sbilibin2017/messagely/internal/logger"
	"github.com/sbilibin2017/messagely/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// Error variables
var (
	ErrUserAlreadyExists  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
)

// bcryptCost matches the work factor the passwords were originally
// hashed with; changing it only affects newly registered users.
const bcryptCost = 12

// pgUniqueViolation is the PostgreSQL error code for a unique
// constraint violation.
const pgUniqueViolation = "23505"

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByUsername(ctx context.Context, username string) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, username, password, firstName, lastName, phone string) error
	UpdateLastLogin(ctx context.Context, username string) (*time.Time, error)
}

// TokenGenerator defines an interface for issuing bearer tokens.
type TokenGenerator interface {
	Generate(ctx context.Context, username string) (string, error)
}

// AuthService handles registration and login.
type AuthService struct {
	reader UserReader
	writer UserWriter
	jwt    TokenGenerator
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(reader UserReader, writer UserWriter, jwt TokenGenerator) *AuthService {
	return &AuthService{
		reader: reader,
		writer: writer,
		jwt:    jwt,
	}
}

// Register creates a new user, records the login timestamp, and returns
// a bearer token for the fresh account. The password is hashed before
// it is stored. Returns ErrUserAlreadyExists on a duplicate username,
// whether detected by the lookup or by the insert itself.
func (svc *AuthService) Register(ctx context.Context, username, password, firstName, lastName, phone string) (string, error) {
	user, err := svc.reader.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		return "", err
	}
	if user != nil {
		logger.Log.Errorw("user already exists", "username", username)
		return "", ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return "", err
	}

	if err := svc.writer.Save(ctx, username, string(hashedPassword), firstName, lastName, phone); err != nil {
		// Two concurrent registrations can both pass the lookup above;
		// the unique constraint settles the winner.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			logger.Log.Errorw("user already exists", "username", username)
			return "", ErrUserAlreadyExists
		}
		logger.Log.Errorw("failed to save user", "err", err)
		return "", err
	}

	if _, err := svc.writer.UpdateLastLogin(ctx, username); err != nil {
		logger.Log.Errorw("failed to update last login", "err", err)
		return "", err
	}

	token, err := svc.jwt.Generate(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to generate token", "err", err)
		return "", err
	}

	return token, nil
}

// Login authenticates a user, records the login timestamp, and returns
// a bearer token. An unknown username and a wrong password are
// indistinguishable to the caller: both yield ErrInvalidCredentials.
func (svc *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if !svc.Authenticate(ctx, username, password) {
		logger.Log.Errorw("invalid credentials", "username", username)
		return "", ErrInvalidCredentials
	}

	if _, err := svc.writer.UpdateLastLogin(ctx, username); err != nil {
		logger.Log.Errorw("failed to update last login", "err", err)
		return "", err
	}

	token, err := svc.jwt.Generate(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to generate token", "err", err)
		return "", err
	}

	return token, nil
}

// Authenticate reports whether the username/password pair is valid. It
// returns false, never an error, when the user is absent, the digest
// comparison fails, or the lookup itself fails.
func (svc *AuthService) Authenticate(ctx context.Context, username, password string) bool {
	user, err := svc.reader.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return false
	}
	if user == nil {
		return false
	}

	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil
}
