package handler

import (
	"net/http"

	"github.com/forgo/guildpanel/internal/middleware"
	"github.com/forgo/guildpanel/internal/service"
)

// UserHandler serves the signed-in user's identity
type UserHandler struct {
	identity *service.IdentityService
}

// NewUserHandler creates a new user handler
func NewUserHandler(identity *service.IdentityService) *UserHandler {
	return &UserHandler{identity: identity}
}

// Get handles GET /user
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := h.identity.GetIdentity(ctx, middleware.GetAccessToken(ctx))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, id)
}
