// Package repository implements guild configuration persistence.
//
// GuildConfigRepository has two implementations selected by DB_DRIVER:
//
//   - MongoGuildConfigRepository: one document per guild in a collection
//     with a unique index on guild_id. Creation is a $setOnInsert upsert.
//   - SurrealGuildConfigRepository: one record per guild, keyed
//     guild_config:<guild id>, created with CREATE and read back on conflict.
//
// # Concurrency
//
// Every document carries a version counter. UpdateModules is a
// compare-and-swap on that counter and returns database.ErrConflict when
// another writer got there first; callers re-read and retry. ReplaceModules
// bumps the counter unconditionally so in-flight merges notice it.
//
// # Not Found
//
// Lookups return (nil, nil) for a missing guild, following the rest of the
// data layer. Callers decide whether absence is an error.
//
// # Example Usage
//
//	repo := repository.NewMongoGuildConfigRepository(m.Collection())
//	cfg, err := repo.GetOrCreate(ctx, guildID)
//	if err != nil {
//	    return err
//	}
package repository
