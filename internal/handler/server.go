package handler

import (
	"net/http"

	"github.com/forgo/guildpanel/internal/middleware"
	"github.com/forgo/guildpanel/internal/service"
)

// ServerHandler serves live guild details fetched with the bot credential.
// Routes sit behind GuildAccess.
type ServerHandler struct {
	svc *service.ServerService
}

// NewServerHandler creates a new server handler
func NewServerHandler(svc *service.ServerService) *ServerHandler {
	return &ServerHandler{svc: svc}
}

// Get handles GET /server/{guildID}
func (h *ServerHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	details, err := h.svc.GetServerDetails(ctx, middleware.GetGuildID(ctx), middleware.GetMembership(ctx))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, details)
}

// Roles handles GET /server/{guildID}/roles
func (h *ServerHandler) Roles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	roles, err := h.svc.GetServerRoles(ctx, middleware.GetGuildID(ctx))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, roles)
}
