package service

import (
	"errors"

	"github.com/forgo/guildpanel/internal/discord"
)

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Authentication Errors =====
var (
	ErrTokenRequired    = errors.New("access token is required")
	ErrAuthCodeRequired = errors.New("authorization code is required")
	ErrStateMismatch    = errors.New("oauth state does not match")
)

// ===== Authorization Errors =====
var (
	ErrCannotManageGuild = errors.New("MANAGE_GUILD permission required for this guild")
)

// ===== Guild Config Errors =====
var (
	ErrGuildConfigNotFound = errors.New("guild config not found")
	ErrModuleNotFound      = errors.New("module not found")
	ErrConcurrentUpdate    = errors.New("guild config was modified concurrently")
)

// ===== Upstream Errors =====
// Re-exported so handlers depend on the service layer only.
var (
	ErrUpstream        = discord.ErrUpstream
	ErrUpstreamTimeout = discord.ErrUpstreamTimeout
)
