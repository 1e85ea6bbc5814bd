package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/messagely/internal/logger"
	"github.com/sbilibin2017/messagely/internal/middlewares"
	"github.com/sbilibin2017/messagely/internal/models"
	"github.com/sbilibin2017/messagely/internal/services"
)

// UserLister defines the interface for listing all users.
type UserLister interface {
	List(ctx context.Context) ([]models.UserSummary, error)
}

// UserGetter defines the interface for fetching one user's detail.
type UserGetter interface {
	Get(ctx context.Context, caller, username string) (*models.UserDetail, error)
}

// UserMessagesProvider defines the interface for a user's sent and
// received message listings.
type UserMessagesProvider interface {
	MessagesFrom(ctx context.Context, caller, username string) ([]models.MessageFromSummary, error)
	MessagesTo(ctx context.Context, caller, username string) ([]models.MessageToSummary, error)
}

// UsersResponse wraps a user listing
// swagger:model UsersResponse
type UsersResponse struct {
	Users []models.UserSummary `json:"users"`
}

// UserResponse wraps a single user detail
// swagger:model UserResponse
type UserResponse struct {
	User *models.UserDetail `json:"user"`
}

// SentMessagesResponse wraps a user's sent-messages listing
// swagger:model SentMessagesResponse
type SentMessagesResponse struct {
	Messages []models.MessageFromSummary `json:"messages"`
}

// ReceivedMessagesResponse wraps a user's received-messages listing
// swagger:model ReceivedMessagesResponse
type ReceivedMessagesResponse struct {
	Messages []models.MessageToSummary `json:"messages"`
}

// NewListUsersHandler returns an HTTP handler listing all users.
// @Summary List users
// @Description Returns the public summary of every user.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.UsersResponse "User summaries"
// @Failure 401 {object} handlers.ErrorResponse "Authentication required"
// @Router /users [get]
func NewListUsersHandler(svc UserLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := svc.List(r.Context())
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{
				Error: "Internal server error",
			})
			return
		}

		writeJSON(w, http.StatusOK, UsersResponse{Users: users})
	}
}

// NewGetUserHandler returns an HTTP handler for a single user's detail.
// @Summary Get user
// @Description Returns one user's detail. Callers may only view themselves.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Success 200 {object} handlers.UserResponse "User detail"
// @Failure 400 {object} handlers.ErrorResponse "Bad username parameter"
// @Failure 401 {object} handlers.ErrorResponse "Authentication required"
// @Failure 403 {object} handlers.ErrorResponse "Not your profile"
// @Failure 404 {object} handlers.ErrorResponse "User not found"
// @Router /users/{username} [get]
func NewGetUserHandler(svc UserGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := chi.URLParam(r, "username")
		if msg := fieldError("Username", username); msg != "" {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: msg})
			return
		}

		caller := middlewares.UsernameFromContext(r.Context())

		user, err := svc.Get(r.Context(), caller, username)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrForbidden):
				writeJSON(w, http.StatusForbidden, ErrorResponse{
					Error: "You may only view your own user detail.",
				})
			case errors.Is(err, services.ErrUserNotFound):
				writeJSON(w, http.StatusNotFound, ErrorResponse{
					Error: "User not found!",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeJSON(w, http.StatusInternalServerError, ErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		writeJSON(w, http.StatusOK, UserResponse{User: user})
	}
}

// NewMessagesFromHandler returns an HTTP handler for a user's sent messages.
// @Summary Get messages sent by user
// @Description Returns the messages sent by the user, each with the recipient's public fields. Callers may only view their own list.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Success 200 {object} handlers.SentMessagesResponse "Sent messages"
// @Failure 400 {object} handlers.ErrorResponse "Bad username parameter"
// @Failure 401 {object} handlers.ErrorResponse "Authentication required"
// @Failure 403 {object} handlers.ErrorResponse "Not your messages"
// @Router /users/{username}/from [get]
func NewMessagesFromHandler(svc UserMessagesProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := chi.URLParam(r, "username")
		if msg := fieldError("Username", username); msg != "" {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: msg})
			return
		}

		caller := middlewares.UsernameFromContext(r.Context())

		messages, err := svc.MessagesFrom(r.Context(), caller, username)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrForbidden):
				writeJSON(w, http.StatusForbidden, ErrorResponse{
					Error: "You may only view your own messages.",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeJSON(w, http.StatusInternalServerError, ErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		writeJSON(w, http.StatusOK, SentMessagesResponse{Messages: messages})
	}
}

// NewMessagesToHandler returns an HTTP handler for a user's received messages.
// @Summary Get messages received by user
// @Description Returns the messages received by the user, each with the sender's public fields. Callers may only view their own list.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Success 200 {object} handlers.ReceivedMessagesResponse "Received messages"
// @Failure 400 {object} handlers.ErrorResponse "Bad username parameter"
// @Failure 401 {object} handlers.ErrorResponse "Authentication required"
// @Failure 403 {object} handlers.ErrorResponse "Not your messages"
// @Router /users/{username}/to [get]
func NewMessagesToHandler(svc UserMessagesProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := chi.URLParam(r, "username")
		if msg := fieldError("Username", username); msg != "" {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: msg})
			return
		}

		caller := middlewares.UsernameFromContext(r.Context())

		messages, err := svc.MessagesTo(r.Context(), caller, username)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrForbidden):
				writeJSON(w, http.StatusForbidden, ErrorResponse{
					Error: "You may only view your own messages.",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeJSON(w, http.StatusInternalServerError, ErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		writeJSON(w, http.StatusOK, ReceivedMessagesResponse{Messages: messages})
	}
}
