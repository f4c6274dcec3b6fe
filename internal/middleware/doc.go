// Package middleware provides HTTP middleware for the dashboard API.
//
// # Available Middleware
//
//   - RequestID, Logger, Recovery, CORS, Compress: request plumbing
//   - Metrics: Prometheus request count and latency per route pattern
//   - RateLimit: token bucket per client IP
//   - Auth: requires a Discord access token
//   - GuildAccess: requires MANAGE_GUILD on the {guildID} route parameter
//
// # Authentication
//
// Auth accepts "Authorization: Bearer <token>" or an accessToken query
// parameter and stores the token in the request context:
//
//	token := middleware.GetAccessToken(r.Context())
//
// # Guild Access
//
// GuildAccess runs the permission check once per request and fails closed.
// On success it stores the guild id and the caller's membership:
//
//	guildID := middleware.GetGuildID(r.Context())
//	membership := middleware.GetMembership(r.Context())
package middleware
