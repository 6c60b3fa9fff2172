package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"go-book-library/internal/model"
	"go-book-library/pkg/apierror"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// ErrorWriter renders every failure as {message, field?, stack?}. Stacks and
// internal messages are only exposed in development.
type ErrorWriter struct {
	development bool
}

func NewErrorWriter(development bool) *ErrorWriter {
	return &ErrorWriter{development: development}
}

func (e *ErrorWriter) Write(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := apierror.From(err)

	body := model.ErrorResponse{
		Message: apiErr.Message,
		Field:   apiErr.Field,
	}

	if apiErr.Kind == apierror.KindInternal {
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err.Error(),
		)
		switch cause := apiErr.Unwrap(); {
		case !e.development:
			body.Message = http.StatusText(http.StatusInternalServerError)
		case cause != nil:
			body.Message = cause.Error()
		}
	}

	if e.development {
		body.Stack = apiErr.Stack()
	}

	writeJSON(w, apiErr.Status(), body)
}

func (e *ErrorWriter) NotFound(w http.ResponseWriter, r *http.Request) {
	e.Write(w, r, apierror.NotFound("API Not Found"))
}

func (e *ErrorWriter) MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{Message: http.StatusText(http.StatusMethodNotAllowed)})
}
