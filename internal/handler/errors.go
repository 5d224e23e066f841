package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/camp-directory/internal/domain"
	"github.com/pkordes/camp-directory/internal/logging"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// notFound writes a 404. The caller supplies the message (e.g. "camp not
// found") because the handler is the layer that knows what was looked up.
func notFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, "not_found", message)
}

// validationError writes a 422 for a domain validation failure.
func validationError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusUnprocessableEntity, "validation_error", unwrapMessage(err))
}

// requestError writes a 422 for a request rejected before reaching the
// service layer (e.g. a malformed query parameter).
func requestError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnprocessableEntity, "validation_error", message)
}

func tooLarge(w http.ResponseWriter) {
	writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", "request body too large")
}

// serverError maps an unexpected service error to 503 or 500 and logs it.
// Internal details never reach the response body.
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	log := logging.FromContext(r.Context(), s.log)
	if errors.Is(err, context.Canceled) {
		log.WarnContext(r.Context(), "request cancelled", "path", r.URL.Path)
		return
	}
	if errors.Is(err, domain.ErrStoreUnavailable) {
		log.ErrorContext(r.Context(), "store unavailable", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusServiceUnavailable, "unavailable", "service temporarily unavailable")
		return
	}
	log.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
}

// unwrapMessage extracts the human-readable part from a wrapped service
// error, e.g. "service.SearchService.ListFeatured: unknown list \"x\":
// validation error" → "unknown list \"x\"".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	sentinel := domain.ErrValidation.Error()
	if i := strings.LastIndex(msg, sentinel+": "); i >= 0 {
		return msg[i+len(sentinel)+2:]
	}
	msg = strings.TrimSuffix(msg, ": "+sentinel)
	if strings.HasPrefix(msg, "service.") {
		if i := strings.Index(msg, ": "); i >= 0 {
			msg = msg[i+2:]
		}
	}
	return msg
}
