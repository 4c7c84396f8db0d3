// Package response writes the API's JSON envelopes from plain net/http handlers and middleware.
// Huma operations produce the same shapes through api.EnvelopeTransformer.
package response

import (
	"encoding/json/v2"
	"log/slog"
	"net/http"

	domainerrors "github.com/cinescope/cinescope-server/internal/errors"
)

// Version is the envelope format version, sent as "v".
const Version = 1

// Envelope wraps every successful response.
type Envelope struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ErrorEnvelope wraps coded error responses.
type ErrorEnvelope struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// JSON writes data in a success envelope, or in a failure envelope when status is 400 or above.
func JSON(w http.ResponseWriter, status int, data any, logger *slog.Logger) {
	write(w, status, Envelope{
		Version: Version,
		Success: status < 400,
		Data:    data,
	}, logger)
}

// Success writes a successful JSON response (200 OK).
func Success(w http.ResponseWriter, data any, logger *slog.Logger) {
	JSON(w, http.StatusOK, data, logger)
}

// Error writes a coded error envelope.
func Error(w http.ResponseWriter, status int, code domainerrors.Code, message string, logger *slog.Logger) {
	write(w, status, ErrorEnvelope{
		Version: Version,
		Error:   message,
		Code:    string(code),
		Message: message,
	}, logger)
}

// NotFound writes a 404 Not Found response.
func NotFound(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusNotFound, domainerrors.CodeNotFound, message, logger)
}

// TooManyRequests writes a 429 Too Many Requests response.
func TooManyRequests(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusTooManyRequests, domainerrors.CodeRateLimited, message, logger)
}

// InternalError writes a 500 Internal Server Error response.
func InternalError(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusInternalServerError, domainerrors.CodeInternal, message, logger)
}

// HandleError writes the response for err. Domain errors keep their code and status; anything
// else becomes a 500.
func HandleError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var domainErr *domainerrors.Error
	if domainerrors.As(err, &domainErr) {
		write(w, domainErr.HTTPStatus(), ErrorEnvelope{
			Version: Version,
			Error:   domainErr.Message,
			Code:    string(domainErr.Code),
			Message: domainErr.Message,
			Details: domainErr.Details,
		}, logger)
		return
	}

	if logger != nil {
		logger.Error("Unhandled error", "error", err)
	}
	InternalError(w, "internal server error", logger)
}

func write(w http.ResponseWriter, status int, body any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.MarshalWrite(w, body); err != nil && logger != nil {
		logger.Error("Failed to encode JSON response", "error", err)
	}
}
