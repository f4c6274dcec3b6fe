package handler

import (
	"errors"

	"github.com/forgo/guildpanel/internal/model"
	"github.com/forgo/guildpanel/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling logic for all handlers, ensuring consistent
// HTTP status codes and error messages across the API.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	// Services return validation failures already shaped
	var pd *model.ProblemDetails
	if errors.As(err, &pd) {
		return pd
	}

	switch {
	// ===== Authentication Errors → 401 =====
	case errors.Is(err, service.ErrTokenRequired):
		p := model.NewUnauthorizedError(err.Error())
		p.Code = model.ErrCodeTokenMissing
		return p

	// ===== Authorization Errors → 403 =====
	case errors.Is(err, service.ErrCannotManageGuild):
		p := model.NewForbiddenError(err.Error())
		p.Code = model.ErrCodeCannotManage
		return p

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrGuildConfigNotFound):
		return model.NewNotFoundError("guild config")
	case errors.Is(err, service.ErrModuleNotFound):
		return model.NewNotFoundError("module")

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrConcurrentUpdate):
		return model.NewConflictError(err.Error())

	// ===== Validation Errors → 422 =====
	case errors.Is(err, service.ErrAuthCodeRequired):
		return model.NewValidationError([]model.FieldError{{Field: "code", Message: err.Error()}})

	// ===== Security Errors → 400 =====
	case errors.Is(err, service.ErrStateMismatch):
		return model.NewBadRequestError(err.Error())

	// ===== Upstream Errors → 504 / 502 =====
	case errors.Is(err, service.ErrUpstreamTimeout):
		return model.NewUpstreamTimeoutError("Discord did not respond in time")
	case errors.Is(err, service.ErrUpstream):
		return model.NewUpstreamError("Discord request failed")

	// ===== Default → 500 =====
	default:
		return model.NewInternalError("")
	}
}
