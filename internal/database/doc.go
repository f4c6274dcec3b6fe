// Package database provides store connectivity for the guildpanel API.
//
// Guild configuration documents live in one of two backends, selected by
// DB_DRIVER:
//
//   - Mongo: a MongoDB collection with a unique index on guild_id (default)
//   - SurrealDB: a guild_config table keyed by the guild id
//
// # SurrealDB
//
// The Database interface wraps SurrealDB's query API:
//
//	db := database.NewSurrealDB(cfg)
//	if err := db.Connect(ctx); err != nil { ... }
//	defer db.Close()
//
//	row, err := db.QueryOne(ctx, "SELECT * FROM type::thing('guild_config', $id)", vars)
//
// # MongoDB
//
//	m := database.NewMongo(cfg)
//	if err := m.Connect(ctx); err != nil { ... }
//	defer m.Close()
//	if err := m.EnsureIndexes(ctx); err != nil { ... }
//
//	coll := m.Collection()
//
// # Error Types
//
//   - ErrNotFound: Record does not exist
//   - ErrDuplicate: Unique constraint violation
//   - ErrConflict: Conditional write matched no document at the expected version
//   - ErrConnection: Database connection failed
//   - ErrQuery: Query execution failed
//
// Both backends satisfy Pinger so the health endpoint can probe whichever
// one is configured.
package database
