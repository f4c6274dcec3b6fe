package handler

import (
	"net/http"

	"github.com/forgo/guildpanel/internal/middleware"
	"github.com/forgo/guildpanel/internal/model"
	"github.com/forgo/guildpanel/internal/service"
	"github.com/go-chi/chi/v5"
)

// ModuleIDParam is the chi URL parameter carrying the module id
const ModuleIDParam = "moduleID"

// GuildConfigHandler serves the stored per-guild module configuration.
// Routes sit behind GuildAccess.
type GuildConfigHandler struct {
	svc *service.GuildConfigService
}

// NewGuildConfigHandler creates a new guild config handler
func NewGuildConfigHandler(svc *service.GuildConfigService) *GuildConfigHandler {
	return &GuildConfigHandler{svc: svc}
}

// Get handles GET /guild/{guildID}
func (h *GuildConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cfg, err := h.svc.GetOrCreate(ctx, middleware.GetGuildID(ctx))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, cfg)
}

// GetModule handles GET /guild/{guildID}/module/{moduleID}
func (h *GuildConfigHandler) GetModule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	module, err := h.svc.GetModule(ctx, middleware.GetGuildID(ctx), chi.URLParam(r, ModuleIDParam))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, module)
}

// UpsertModule handles POST /guild/{guildID}/module
func (h *GuildConfigHandler) UpsertModule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var module model.Module
	if err := DecodeJSON(w, r, &module); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	cfg, err := h.svc.UpsertModule(ctx, middleware.GetGuildID(ctx), module)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, cfg)
}

// ReplaceModules handles POST /guild/{guildID}/modules. The body is a JSON
// array of modules.
func (h *GuildConfigHandler) ReplaceModules(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var modules []model.Module
	if err := DecodeJSON(w, r, &modules); err != nil || modules == nil {
		WriteError(w, model.NewBadRequestError("request body must be an array of modules"))
		return
	}

	cfg, err := h.svc.ReplaceModules(ctx, middleware.GetGuildID(ctx), modules)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, cfg)
}
