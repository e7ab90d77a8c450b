package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/YobelBerhe/CoachOS-sub000/internal/domain"
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

	// Encode to a pooled buffer first; headers are already sent, so an encode
	// failure can only be logged.
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
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
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"

	ErrMsgRecipeNotFoundError = "Recipe not found"
	ErrMsgRecipeNotPaidError  = "Recipe is free; nothing to unlock"

	ErrMsgUnlockInProgressError = "An unlock for this recipe is already in progress. Try again shortly."
	ErrMsgUnlockConflictError   = "The unlock was resolved by another request. Check your library."
	ErrMsgPaymentDeclinedError  = "Payment was declined"
	ErrMsgPaymentTimeoutError   = "Payment provider did not respond in time. You were not charged; try again."

	ErrMsgClockSkewError    = "Event timestamp is too far in the future"
	ErrMsgUnknownEventError = "Unknown interaction type"
)

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP
// status codes and messages
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrRecipeNotFound):
		return http.StatusNotFound, ErrMsgRecipeNotFoundError
	case errors.Is(err, domain.ErrRecipeNotPaid):
		return http.StatusBadRequest, ErrMsgRecipeNotPaidError
	case errors.Is(err, domain.ErrUnlockInProgress):
		return http.StatusConflict, ErrMsgUnlockInProgressError
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, ErrMsgUnlockConflictError
	case errors.Is(err, domain.ErrAuthorizationDeclined):
		return http.StatusPaymentRequired, ErrMsgPaymentDeclinedError
	case errors.Is(err, domain.ErrAuthorizationTimeout):
		return http.StatusGatewayTimeout, ErrMsgPaymentTimeoutError
	case errors.Is(err, domain.ErrUnlockNotFound):
		return http.StatusNotFound, ErrMsgUnknownError
	case errors.Is(err, domain.ErrClockSkewTooLarge):
		return http.StatusUnprocessableEntity, ErrMsgClockSkewError
	case errors.Is(err, domain.ErrUnknownEventType):
		return http.StatusBadRequest, ErrMsgUnknownEventError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidRequestSummary
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}
