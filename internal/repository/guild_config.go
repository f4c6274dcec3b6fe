package repository

import (
	"context"

	"github.com/forgo/guildpanel/internal/model"
)

// GuildConfigRepository persists one GuildConfig document per guild.
//
// Lookups return (nil, nil) when no document exists. UpdateModules is a
// compare-and-swap on the document version and returns database.ErrConflict
// when the stored version no longer matches.
type GuildConfigRepository interface {
	// GetOrCreate returns the guild's config, creating an empty one atomically
	// when absent. Concurrent first calls yield exactly one document.
	GetOrCreate(ctx context.Context, guildID string) (*model.GuildConfig, error)

	// GetByGuildID returns the guild's config or nil when absent.
	GetByGuildID(ctx context.Context, guildID string) (*model.GuildConfig, error)

	// UpdateModules writes modules only if the stored version equals
	// expectedVersion, incrementing the version.
	UpdateModules(ctx context.Context, guildID string, expectedVersion int64, modules []model.Module) (*model.GuildConfig, error)

	// ReplaceModules unconditionally replaces the modules list, incrementing
	// the version. Returns nil when no config exists.
	ReplaceModules(ctx context.Context, guildID string, modules []model.Module) (*model.GuildConfig, error)
}
