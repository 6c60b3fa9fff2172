package handler

import (
	"context"
	"log/slog"
	"net/http"
)

type healthChecker interface {
	Health(ctx context.Context) error
}

type HealthHandler struct {
	store healthChecker
}

// NewHealthHandler accepts a nil store; the check then only reports liveness.
func NewHealthHandler(store healthChecker) *HealthHandler {
	return &HealthHandler{store: store}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if h.store != nil {
		if err := h.store.Health(r.Context()); err != nil {
			slog.Error("health check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("UNAVAILABLE"))
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
