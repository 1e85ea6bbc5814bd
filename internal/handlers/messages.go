package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/messagely/internal/logger"
	"github.com/sbilibin2017/messagely/internal/middlewares"
	"github.com/sbilibin2017/messagely/internal/models"
	"github.com/sbilibin2017/messagely/internal/services"
)

// MessageGetter defines the interface for fetching one message.
type MessageGetter interface {
	Get(ctx context.Context, caller string, id int64) (*models.MessageDetail, error)
}

// MessageSender defines the interface for sending a message.
type MessageSender interface {
	Send(ctx context.Context, fromUsername, toUsername, body string) (*models.MessageDB, error)
}

// MessageReadMarker defines the interface for the read-state transition.
type MessageReadMarker interface {
	MarkRead(ctx context.Context, caller string, id int64) (*models.MessageDetail, error)
}

// SendMessageRequest represents the JSON body for sending a message
// swagger:model SendMessageRequest
type SendMessageRequest struct {
	// Recipient username
	// required: true
	// default: alice
	ToUsername string `json:"to_username"`

	// Message text
	// required: true
	// default: hello there
	Body string `json:"body"`
}

// MessageResponse wraps a single message with both participants projected
// swagger:model MessageResponse
type MessageResponse struct {
	Message *models.MessageDetail `json:"message"`
}

// SentMessageResponse wraps a freshly created message
// swagger:model SentMessageResponse
type SentMessageResponse struct {
	Message *models.MessageDB `json:"message"`
}

// parseMessageID parses a message id path parameter into a typed,
// range-checked identifier.
func parseMessageID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, errors.New("message id must be positive")
	}
	return id, nil
}

// NewGetMessageHandler returns an HTTP handler for a single message.
// @Summary Get message
// @Description Returns one message with sender and recipient projections. Only a participant may view it.
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Success 200 {object} handlers.MessageResponse "Message detail"
// @Failure 400 {object} handlers.ErrorResponse "Bad message id"
// @Failure 401 {object} handlers.ErrorResponse "Authentication required"
// @Failure 403 {object} handlers.ErrorResponse "Not a participant"
// @Failure 404 {object} handlers.ErrorResponse "Message not found"
// @Router /messages/{id} [get]
func NewGetMessageHandler(svc MessageGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseMessageID(chi.URLParam(r, "id"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error: "Message ID must be a number.",
			})
			return
		}

		caller := middlewares.UsernameFromContext(r.Context())

		message, err := svc.Get(r.Context(), caller, id)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrMessageNotFound):
				writeJSON(w, http.StatusNotFound, ErrorResponse{
					Error: "Message not found!",
				})
			case errors.Is(err, services.ErrNotParticipant):
				writeJSON(w, http.StatusForbidden, ErrorResponse{
					Error: "You must be the recipient or sender to view this message!",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeJSON(w, http.StatusInternalServerError, ErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{Message: message})
	}
}

// NewSendMessageHandler returns an HTTP handler for sending a message.
// The sender is always the authenticated caller; it is never taken from
// the request body.
// @Summary Send message
// @Description Creates a message from the authenticated caller to the given recipient.
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sendMessageRequest body handlers.SendMessageRequest true "Message to send"
// @Success 200 {object} handlers.SentMessageResponse "Created message"
// @Failure 400 {object} handlers.ErrorResponse "Missing or oversized field"
// @Failure 401 {object} handlers.ErrorResponse "Authentication required"
// @Failure 404 {object} handlers.ErrorResponse "Recipient not found"
// @Router /messages [post]
func NewSendMessageHandler(svc MessageSender) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SendMessageRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error: "Invalid request body",
			})
			return
		}

		fields := []struct{ name, value string }{
			{"To Username", req.ToUsername},
			{"Message Body", req.Body},
		}
		for _, f := range fields {
			if msg := fieldError(f.name, f.value); msg != "" {
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: msg})
				return
			}
		}

		caller := middlewares.UsernameFromContext(r.Context())

		message, err := svc.Send(r.Context(), caller, req.ToUsername, req.Body)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrRecipientNotFound):
				writeJSON(w, http.StatusNotFound, ErrorResponse{
					Error: "Recipient user not found.",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeJSON(w, http.StatusInternalServerError, ErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		writeJSON(w, http.StatusOK, SentMessageResponse{Message: message})
	}
}

// NewMarkMessageReadHandler returns an HTTP handler for the read-state
// transition.
// @Summary Mark message read
// @Description Marks an unread message read. Only the recipient may, and only once.
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Success 200 {object} handlers.MessageResponse "Updated message"
// @Failure 400 {object} handlers.ErrorResponse "Bad message id / already read / not recipient"
// @Failure 401 {object} handlers.ErrorResponse "Authentication required"
// @Failure 404 {object} handlers.ErrorResponse "Message not found"
// @Router /messages/{id}/read [post]
func NewMarkMessageReadHandler(svc MessageReadMarker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseMessageID(chi.URLParam(r, "id"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error: "Message ID must be a number.",
			})
			return
		}

		caller := middlewares.UsernameFromContext(r.Context())

		message, err := svc.MarkRead(r.Context(), caller, id)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrMessageNotFound):
				writeJSON(w, http.StatusNotFound, ErrorResponse{
					Error: "Message not found!",
				})
			case errors.Is(err, services.ErrNotRecipient):
				writeJSON(w, http.StatusBadRequest, ErrorResponse{
					Error: "Only the recipient can mark this message as read!",
				})
			case errors.Is(err, services.ErrMessageAlreadyRead):
				writeJSON(w, http.StatusBadRequest, ErrorResponse{
					Error: "Message has already been marked as read!",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeJSON(w, http.StatusInternalServerError, ErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{Message: message})
	}
}
