package http

import (
	"errors"
	"net/http"

	"findash/internal/log"
	"findash/internal/services"
	"findash/internal/snapshot"
)

// writeJSON sends v with status, logging encoding failures.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	if err := NewJSONResponse().Status(status).Payload(v).Write(w); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to write response", log.FieldError, err)
	}
}

// writeError maps err to a status code and writes it as a JSON error.
// Server-side failures are logged with op; client errors are not.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, msg := errorStatus(err)
	if status >= http.StatusInternalServerError {
		log.NewStructuredLogger(log.FromContext(r.Context())).
			LogError(r.Context(), "Request failed", err, log.ComponentHTTP, op, nil)
	}
	_ = ErrorResponse(status, msg).Write(w)
}

func errorStatus(err error) (int, string) {
	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr):
		return reqErr.status, reqErr.msg
	case errors.Is(err, snapshot.ErrInvalidPartial):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrNoEdits):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrUnknownField),
		errors.Is(err, services.ErrInvalidValue),
		errors.Is(err, services.ErrIndexOutOfRange):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, snapshot.ErrCorrupt):
		return http.StatusInternalServerError, "stored snapshot is corrupt"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.Ready != nil {
		if err := s.deps.Ready(r.Context()); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
