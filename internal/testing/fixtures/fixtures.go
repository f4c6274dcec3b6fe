// Package fixtures provides test data factories for guild configuration.
//
// Each factory method creates entities with sensible defaults while allowing
// customization via option functions. Factories write through a
// repository.GuildConfigRepository, so the same fixtures seed MongoDB,
// SurrealDB or the in-memory store.
//
// Usage:
//
//	repo := fixtures.NewMemoryRepository()
//	f := fixtures.New(repo)
//	cfg := f.CreateGuildConfig(t, fixtures.WithModules(fixtures.Module("welcome", true)))
package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"strconv"
	"testing"
	"time"

	"github.com/forgo/guildpanel/internal/model"
	"github.com/forgo/guildpanel/internal/repository"
)

// Factory creates test entities in a guild config store
type Factory struct {
	repo repository.GuildConfigRepository
}

// New creates a new fixture factory
func New(repo repository.GuildConfigRepository) *Factory {
	return &Factory{repo: repo}
}

// Snowflake returns a random Discord-style numeric id
func Snowflake() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	// Keep it positive and in the range of real snowflakes
	return strconv.FormatUint(binary.BigEndian.Uint64(b[:])>>1, 10)
}

// ctx returns a context with timeout
func ctx(t *testing.T) context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return c
}

// Module builds a module with empty settings
func Module(id string, enabled bool) model.Module {
	return model.Module{ID: id, Enabled: enabled, Settings: map[string]interface{}{}}
}

// ============================================================================
// Guild Config Fixtures
// ============================================================================

// GuildConfigOpts customizes guild config creation
type GuildConfigOpts struct {
	GuildID string
	Modules []model.Module
}

// WithGuildID fixes the guild id instead of generating one
func WithGuildID(id string) func(*GuildConfigOpts) {
	return func(o *GuildConfigOpts) { o.GuildID = id }
}

// WithModules seeds the config's module list
func WithModules(modules ...model.Module) func(*GuildConfigOpts) {
	return func(o *GuildConfigOpts) { o.Modules = modules }
}

// CreateGuildConfig creates a guild config with optional customizations
func (f *Factory) CreateGuildConfig(t *testing.T, opts ...func(*GuildConfigOpts)) *model.GuildConfig {
	t.Helper()

	o := &GuildConfigOpts{GuildID: Snowflake()}
	for _, fn := range opts {
		fn(o)
	}

	cfg, err := f.repo.GetOrCreate(ctx(t), o.GuildID)
	if err != nil {
		t.Fatalf("fixtures: failed to create guild config: %v", err)
	}
	if len(o.Modules) == 0 {
		return cfg
	}

	cfg, err = f.repo.ReplaceModules(ctx(t), o.GuildID, o.Modules)
	if err != nil {
		t.Fatalf("fixtures: failed to seed modules: %v", err)
	}
	return cfg
}

var _ repository.GuildConfigRepository = (*MemoryRepository)(nil)
