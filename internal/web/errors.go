package web

// errors.go turns service errors into JSON responses.
//
// The technical error is logged with the request id; the client receives
// the mapped user message and support code from core.MapError.

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/scorecard/internal/core"
	"github.com/JonMunkholm/scorecard/internal/logging"
)

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Action    string `json:"action,omitempty"`
	Code      string `json:"code"`
	ScanID    string `json:"scan_id,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// statusFor picks the HTTP status for a service error.
func statusFor(err error) int {
	switch {
	case core.IsParseFailure(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrScanNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrTooManyScans), errors.Is(err, core.ErrOCRUnavailable):
		return http.StatusServiceUnavailable
	case isBodyTooLarge(err):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}

	code := core.MapError(err).Code
	switch {
	case code == "FILE001":
		return http.StatusRequestEntityTooLarge
	case strings.HasPrefix(code, "FILE"):
		return http.StatusBadRequest
	case strings.HasPrefix(code, "OCR"):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// isBodyTooLarge reports whether err came from an http.MaxBytesReader.
// The multipart reader does not always wrap the underlying error.
func isBodyTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}

// respondError logs err and writes the mapped user message.
// scanID is included when a failed scan result was retained.
func respondError(w http.ResponseWriter, r *http.Request, err error, scanID string) {
	status := statusFor(err)
	if isBodyTooLarge(err) {
		err = fmt.Errorf("image too large: %w", err)
	}
	userErr := core.NewUserError(err)
	msg := userErr.User

	logger := logging.FromContext(r.Context())
	args := []any{"path", r.URL.Path, "status", status, "code", msg.Code, "error", userErr.Technical}
	if status >= http.StatusInternalServerError {
		logger.Error("request error", args...)
	} else {
		logger.Warn("request error", args...)
	}

	writeJSON(w, status, ErrorResponse{
		Error:     msg.Message,
		Message:   msg.Message,
		Action:    msg.Action,
		Code:      msg.Code,
		ScanID:    scanID,
		RequestID: chimw.GetReqID(r.Context()),
	})
}

// respondBadRequest writes a 400 for malformed requests.
func respondBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	logging.FromContext(r.Context()).Warn("bad request", "path", r.URL.Path, "error", message)
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:     message,
		Message:   message,
		Code:      "REQ001",
		RequestID: chimw.GetReqID(r.Context()),
	})
}
