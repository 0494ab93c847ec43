package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/chain-explorer/internal/apperror"
)

// selectorError wraps a grammar failure. The message carries the typed
// reason so clients can tell what was wrong with their input.
func selectorError(input string, err error) *apperror.AppError {
	return apperror.New(apperror.CodeInvalidSelector,
		apperror.WithMessage(err.Error()),
		apperror.WithContext(input),
		apperror.WithCause(err),
		apperror.WithStatusCode(http.StatusNotFound))
}

func indexError(input string, err error) *apperror.AppError {
	return apperror.New(apperror.CodeInvalidIndex,
		apperror.WithContext(input),
		apperror.WithCause(err),
		apperror.WithStatusCode(http.StatusBadRequest))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders err as an AppError response. Errors that are not
// AppErrors become 500s.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		appErr = apperror.Internal(apperror.CodeInternalError, r.URL.Path, err)
	}

	if sc := trace.SpanContextFromContext(r.Context()); sc.HasTraceID() {
		appErr = appErr.WithTraceID(sc.TraceID().String())
	}

	if appErr.StatusCode >= http.StatusInternalServerError {
		s.log.Warn(r.Context(), "request failed", "path", r.URL.Path, "error", appErr)
	}

	writeJSON(w, appErr.StatusCode, appErr.ToResponse())
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, apperror.NotFound(apperror.CodeNotFound, r.URL.Path))
}
