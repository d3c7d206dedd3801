package web

// errors.go provides unified error response handling for the web layer.
//
// Errors are logged with full technical details and request ID, then
// returned to the client as a core.UserMessage. The format depends on the
// request:
//
//   - HTML form posts are redirected back to the page with a flash message
//   - HTMX requests get an alert fragment
//   - API and JSON requests get an ErrorResponse body
//   - everything else gets plain text

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/quizdata/internal/core"
	"github.com/JonMunkholm/quizdata/internal/logging"
	"github.com/JonMunkholm/quizdata/internal/web/templates"
)

var errRateLimited = errors.New("rate limit exceeded")

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusFor picks the HTTP status for a store or request error.
func statusFor(err error) int {
	var (
		shapeErr *core.ShapeError
		fieldErr *core.UnknownFieldError
		indexErr *core.IndexError
	)
	switch {
	case errors.Is(err, core.ErrExportBusy):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	case errors.As(err, &indexErr):
		return http.StatusNotFound
	case errors.As(err, &shapeErr), errors.As(err, &fieldErr):
		return http.StatusBadRequest
	case core.MapError(err).Code == "REQ001":
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondError handles error responses with user-friendly messages.
// statusCode 0 derives the status from err.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	if statusCode == 0 {
		statusCode = statusFor(err)
	}
	userMsg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	logger.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	switch {
	case isForm(r) && !wantsJSON(r):
		s.redirectToPage(w, r, viewFromForm(r), templates.LevelError, core.FormatUserError(err))
	case isHTMX(r):
		renderErrorPartial(w, userMsg, statusCode)
	case wantsJSON(r):
		respondErrorJSON(w, userMsg, statusCode)
	default:
		respondErrorHTML(w, userMsg, statusCode)
	}
}

// respondErrorJSON writes a JSON error response.
func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// respondErrorHTML writes a plain error response.
func respondErrorHTML(w http.ResponseWriter, msg core.UserMessage, statusCode int) {
	http.Error(w, msg.Message+" ("+msg.Code+")", statusCode)
}

// renderErrorPartial renders an HTMX-compatible error fragment.
func renderErrorPartial(w http.ResponseWriter, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = templates.ErrorAlert(msg.Message, msg.Action, msg.Code).Render(context.Background(), w)
}

// isHTMX checks if the request is an HTMX request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// isForm reports whether the request body is an HTML form.
func isForm(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(ct, "multipart/form-data")
}

// wantsJSON checks if the client prefers JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}

	// API routes default to JSON unless a browser form posted to them
	return strings.HasPrefix(r.URL.Path, "/api/") && !isForm(r)
}
