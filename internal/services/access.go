package services

import "github.com/sbilibin2017/messagely/internal/models"

// Access policy for authenticated callers. Identity always comes from
// the verified token, never from request input.

// CanViewUser reports whether caller may view username's detail and
// message lists. The policy is strictly self-only; there is no admin
// override.
func CanViewUser(caller, username string) bool {
	return caller == username
}

// CanViewMessage reports whether caller is a participant of the
// message, i.e. its sender or its recipient.
func CanViewMessage(caller string, message *models.MessageDetail) bool {
	return caller == message.FromUser.Username || caller == message.ToUser.Username
}

// CanMarkRead reports whether caller may mark the message read. Only
// the recipient may.
func CanMarkRead(caller string, message *models.MessageDetail) bool {
	return caller == message.ToUser.Username
}
