package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgo/guildpanel/internal/database"
	"github.com/forgo/guildpanel/internal/model"
)

// SurrealGuildConfigRepository stores guild configs in SurrealDB. The record
// id is the guild id, so CREATE is unique per guild without an index.
type SurrealGuildConfigRepository struct {
	db database.Database
}

// NewSurrealGuildConfigRepository creates a new SurrealDB guild config repository
func NewSurrealGuildConfigRepository(db database.Database) *SurrealGuildConfigRepository {
	return &SurrealGuildConfigRepository{db: db}
}

// GetOrCreate creates the record and falls back to a read when another
// request created it first.
func (r *SurrealGuildConfigRepository) GetOrCreate(ctx context.Context, guildID string) (*model.GuildConfig, error) {
	query := `
		CREATE type::thing($table, $guild_id) CONTENT {
			guild_id: $guild_id,
			modules: [],
			version: 0,
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"table":    database.GuildConfigTable,
		"guild_id": guildID,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) || isUniqueConstraintError(err) {
			existing, getErr := r.GetByGuildID(ctx, guildID)
			if getErr != nil {
				return nil, getErr
			}
			if existing == nil {
				return nil, fmt.Errorf("%w: config for guild %s vanished after duplicate create", database.ErrQuery, guildID)
			}
			return existing, nil
		}
		return nil, err
	}

	return parseGuildConfigResult(result)
}

// GetByGuildID retrieves a guild config
func (r *SurrealGuildConfigRepository) GetByGuildID(ctx context.Context, guildID string) (*model.GuildConfig, error) {
	query := `SELECT * FROM type::thing($table, $guild_id)`
	vars := map[string]interface{}{
		"table":    database.GuildConfigTable,
		"guild_id": guildID,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseGuildConfigResult(result)
}

// UpdateModules writes modules conditioned on the stored version
func (r *SurrealGuildConfigRepository) UpdateModules(ctx context.Context, guildID string, expectedVersion int64, modules []model.Module) (*model.GuildConfig, error) {
	query := `
		UPDATE type::thing($table, $guild_id) SET
			modules = $modules,
			version += 1,
			updated_on = time::now()
		WHERE version = $version
		RETURN AFTER
	`
	vars := map[string]interface{}{
		"table":    database.GuildConfigTable,
		"guild_id": guildID,
		"modules":  modulesToDocuments(modules),
		"version":  expectedVersion,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, database.ErrConflict
		}
		return nil, err
	}

	return parseGuildConfigResult(result)
}

// ReplaceModules overwrites the modules list. The guild_id guard keeps
// UPDATE from materialising a record that was never created.
func (r *SurrealGuildConfigRepository) ReplaceModules(ctx context.Context, guildID string, modules []model.Module) (*model.GuildConfig, error) {
	query := `
		UPDATE type::thing($table, $guild_id) SET
			modules = $modules,
			version += 1,
			updated_on = time::now()
		WHERE guild_id = $guild_id
		RETURN AFTER
	`
	vars := map[string]interface{}{
		"table":    database.GuildConfigTable,
		"guild_id": guildID,
		"modules":  modulesToDocuments(modules),
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseGuildConfigResult(result)
}

// parseGuildConfigResult maps a SurrealDB record onto a GuildConfig
func parseGuildConfigResult(result interface{}) (*model.GuildConfig, error) {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: unexpected guild config result %T", database.ErrQuery, result)
	}

	modules, err := decodeModules(data["modules"])
	if err != nil {
		return nil, err
	}

	cfg := &model.GuildConfig{
		GuildID:   getString(data, "guild_id"),
		Modules:   modules,
		Version:   getInt64(data, "version"),
		CreatedOn: parseTime(data["created_on"]),
		UpdatedOn: parseTime(data["updated_on"]),
	}
	return normalizeConfig(cfg), nil
}
