// Package config manages application configuration for the guildpanel API.
//
// Configuration is read from environment variables, optionally seeded from a
// .env file in the working directory:
//
//	cfg, err := config.Load()
//	if err != nil { ... }
//	if err := cfg.Validate(); err != nil { ... }
//
// # Configuration Groups
//
//   - ServerConfig: HTTP server settings (port, timeouts, CORS origins)
//   - DiscordConfig: OAuth application, bot token and upstream timeout
//   - DatabaseConfig: store driver plus MongoDB or SurrealDB settings
//   - SessionConfig: secret for the OAuth state cookie
//   - RateLimitConfig: per-client request limits
//   - ModulesConfig: optimistic write retry budget
//
// # Environment Variables
//
//	SERVER_PORT            - HTTP server port (default: 8000)
//	TRUST_PROXY            - Key rate limits on X-Forwarded-For (default: false)
//	DISCORD_CLIENT_ID      - OAuth application id
//	DISCORD_CLIENT_SECRET  - OAuth application secret
//	DISCORD_REDIRECT_URI   - OAuth redirect URI registered with Discord
//	DISCORD_BOT_TOKEN      - Bot token used for bot-scoped lookups
//	UPSTREAM_TIMEOUT       - Per-call Discord deadline (default: 10s)
//	DB_DRIVER              - "mongo" (default) or "surrealdb"
//	MONGO_URL              - MongoDB connection string
//	SESSION_SECRET         - Cookie signing secret (32+ chars in production)
//	MODULE_WRITE_RETRIES   - Attempts before a module write reports a conflict
package config
