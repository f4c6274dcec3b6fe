package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/forgo/guildpanel/internal/database"
	"github.com/forgo/guildpanel/internal/model"
)

// HealthHandler reports liveness of the API and its store
type HealthHandler struct {
	store database.Pinger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store database.Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

// HealthResponse is the body of a healthy check
type HealthResponse struct {
	Status string `json:"status"`
}

// Health handles GET /health and GET /
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.store.Ping(ctx); err != nil {
			slog.Warn("health check failed", slog.String("error", err.Error()))
			WriteError(w, model.NewServiceUnavailableError("document store unreachable"))
			return
		}
	}

	WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}
