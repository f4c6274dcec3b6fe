// Package service implements the business logic behind the guildpanel API.
//
// # Services
//
//   - OAuthService: authorization URL and code-for-token exchange
//   - IdentityService: user profile plus guild list annotated with has_bot
//   - PermissionGuard: MANAGE_GUILD check against the user's guild list
//   - GuildConfigService: get-or-create, module lookup, upsert and replace
//   - ServerService: guild metadata, roles and channels via the bot token
//
// # Upstream Access
//
// Services talk to Discord through the DiscordAPI and TokenExchanger
// interfaces, implemented by package discord and faked in tests.
//
// # Error Handling
//
// Errors are sentinel values from errors.go, wrapped with context:
//
//	if errors.Is(err, service.ErrModuleNotFound) {
//	    // 404
//	}
//
// Validation failures are returned as *model.ProblemDetails. The
// PermissionGuard is the only component that turns failures into a
// boolean: it denies on any error.
//
// # Concurrency
//
// UpsertModule reads the config with its version, merges, and writes
// conditioned on that version. A lost race re-reads and retries up to
// MaxRetries times before returning ErrConcurrentUpdate.
package service
