// Package fixtures provides test data for guild configuration tests.
//
// # Factory Pattern
//
// Create a factory over any guild config repository:
//
//	f := fixtures.New(repo)
//
// # Creating Test Data
//
//	cfg := f.CreateGuildConfig(t)                                // random guild id
//	cfg := f.CreateGuildConfig(t, fixtures.WithGuildID("42"))    // fixed id
//	cfg := f.CreateGuildConfig(t, fixtures.WithModules(
//	    fixtures.Module("welcome", true),
//	))
//
// # In-Memory Store
//
// MemoryRepository mirrors the version semantics of the real stores and
// exposes hooks for race and failure injection:
//
//	repo := fixtures.NewMemoryRepository()
//	repo.BeforeUpdate = func(guildID string) { ... }
//	repo.Err = errors.New("store down")
package fixtures
