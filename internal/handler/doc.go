// Package handler provides the HTTP surface of the dashboard API.
//
// Each handler struct wraps one service and serves a small group of routes.
// NewRouter wires them onto a chi router together with the middleware
// stack. Success bodies are bare JSON values; failures are RFC 9457 Problem
// Details produced by MapServiceError.
//
// # Routes
//
//	GET  /health                          store ping
//	GET  /metrics                         Prometheus exposition
//	GET  /login                           redirect to Discord consent
//	GET  /callback?code=&state=           {accessToken}
//	GET  /user                            identity with has_bot
//	GET  /server/{guildID}                live guild details
//	GET  /server/{guildID}/roles          roles without @everyone
//	GET  /guild/{guildID}                 stored config, created on first read
//	GET  /guild/{guildID}/module/{id}     one module
//	POST /guild/{guildID}/module          upsert one module
//	POST /guild/{guildID}/modules         replace the module list
//
// Every route below /user needs an access token; /server and /guild routes
// also need MANAGE_GUILD on the guild.
package handler
