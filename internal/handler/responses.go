package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tradepulse/arcade/internal/domain"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		// Headers already sent; nothing to do but log.
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUnknownError        = "Unknown error"
	ErrMsgInvalidRequestError = "Invalid request. Please check your inputs."

	ErrMsgUserNotFoundError        = "User not found"
	ErrMsgResourceNotFoundError    = "Resource not found"
	ErrMsgAlreadyClaimedTodayError = "already_claimed_today"
	ErrMsgPrestigeNotAvailableErr  = "prestige_not_available"
	ErrMsgPoolNotOpenError         = "pool_not_open"
	ErrMsgMissionNotActiveError    = "mission_not_active"
	ErrMsgVaultNotMaturedError     = "vault_not_matured"
	ErrMsgProtectorNotHeldError    = "protector_not_held"
	ErrMsgEntropyFailureError      = "Server error occurred. Please try again."
)

// mapServiceErrorToUserMessage maps domain errors to HTTP status codes and
// user-facing messages. Precondition errors are surfaced verbatim so clients
// can branch on them; everything unexpected collapses to a generic 500.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidRequestError
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusBadRequest, ErrMsgUserNotFoundError
	case errors.Is(err, domain.ErrAlreadyClaimedToday):
		return http.StatusConflict, ErrMsgAlreadyClaimedTodayError
	case errors.Is(err, domain.ErrPrestigeNotAvailable):
		return http.StatusConflict, ErrMsgPrestigeNotAvailableErr
	case errors.Is(err, domain.ErrPoolNotOpen):
		return http.StatusConflict, ErrMsgPoolNotOpenError
	case errors.Is(err, domain.ErrMissionNotActive):
		return http.StatusConflict, ErrMsgMissionNotActiveError
	case errors.Is(err, domain.ErrVaultNotMatured):
		return http.StatusConflict, ErrMsgVaultNotMaturedError
	case errors.Is(err, domain.ErrProtectorNotHeld):
		return http.StatusConflict, ErrMsgProtectorNotHeldError
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, ErrMsgResourceNotFoundError
	case errors.Is(err, domain.ErrEntropyFailure):
		return http.StatusInternalServerError, ErrMsgEntropyFailureError
	default:
		return http.StatusInternalServerError, ErrMsgGenericServerError
	}
}

// respondServiceError maps a service error and writes it.
func respondServiceError(w http.ResponseWriter, err error) {
	status, message := mapServiceErrorToUserMessage(err)
	respondError(w, status, message)
}
