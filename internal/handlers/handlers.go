package handlers

import (
	"encoding/json"
	"net/http"
)

// maxFieldLength bounds every client-supplied string field.
const maxFieldLength = 2048

// ErrorResponse is the JSON body of every failed request.
// swagger:model ErrorResponse
type ErrorResponse struct {
	// Error message
	// example: Invalid request body
	Error string `json:"error"`
}

// fieldError validates a required string field and returns a
// client-facing message, or "" when the field is acceptable.
func fieldError(name, value string) string {
	if value == "" {
		return name + " must have an input."
	}
	if len(value) > maxFieldLength {
		return name + " has a max length of 2048."
	}
	return ""
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
