package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/forgo/guildpanel/internal/database"
	"github.com/forgo/guildpanel/internal/metrics"
	"github.com/forgo/guildpanel/internal/model"
	"github.com/forgo/guildpanel/internal/repository"
)

// DefaultWriteRetries bounds compare-and-swap attempts per module write
const DefaultWriteRetries = 5

// GuildConfigService reads and writes per-guild module configuration.
// Callers must have passed the PermissionGuard for the guild.
type GuildConfigService struct {
	repo       repository.GuildConfigRepository
	maxRetries int
	metrics    metrics.Recorder
}

// GuildConfigServiceConfig holds configuration for the guild config service
type GuildConfigServiceConfig struct {
	Repo       repository.GuildConfigRepository
	MaxRetries int // Default: 5
	Metrics    metrics.Recorder
}

// NewGuildConfigService creates a new guild config service
func NewGuildConfigService(cfg GuildConfigServiceConfig) *GuildConfigService {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultWriteRetries
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.Nop{}
	}
	return &GuildConfigService{
		repo:       cfg.Repo,
		maxRetries: cfg.MaxRetries,
		metrics:    cfg.Metrics,
	}
}

// GetOrCreate returns the guild's config, creating an empty one on first access
func (s *GuildConfigService) GetOrCreate(ctx context.Context, guildID string) (*model.GuildConfig, error) {
	cfg, err := s.repo.GetOrCreate(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("get or create guild config: %w", err)
	}
	return cfg, nil
}

// GetModule returns a single module of the guild's config
func (s *GuildConfigService) GetModule(ctx context.Context, guildID, moduleID string) (*model.Module, error) {
	cfg, err := s.get(ctx, guildID)
	if err != nil {
		return nil, err
	}

	m, ok := cfg.FindModule(moduleID)
	if !ok {
		return nil, ErrModuleNotFound
	}
	return m, nil
}

// UpsertModule replaces the module with the same id in place, or appends it.
// It never creates the parent config. Concurrent writers are serialized by
// a version compare-and-swap; a writer that keeps losing gets
// ErrConcurrentUpdate.
func (s *GuildConfigService) UpsertModule(ctx context.Context, guildID string, module model.Module) (*model.GuildConfig, error) {
	if errs := module.Validate(); len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}
	if module.Settings == nil {
		module.Settings = map[string]interface{}{}
	}

	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		cfg, err := s.get(ctx, guildID)
		if err != nil {
			return nil, err
		}

		merged := model.MergeModule(cfg.Modules, module)
		updated, err := s.repo.UpdateModules(ctx, guildID, cfg.Version, merged)
		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, database.ErrConflict) {
			return nil, fmt.Errorf("update modules: %w", err)
		}

		s.metrics.RecordModuleWriteConflict()
		slog.Debug("module write lost version race",
			slog.String("guild_id", guildID),
			slog.String("module_id", module.ID),
			slog.Int("attempt", attempt),
		)
	}

	return nil, ErrConcurrentUpdate
}

// ReplaceModules replaces the whole module list. Ids must be present and
// unique; the list is otherwise stored verbatim.
func (s *GuildConfigService) ReplaceModules(ctx context.Context, guildID string, modules []model.Module) (*model.GuildConfig, error) {
	if errs := model.ValidateModules(modules); len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}
	if modules == nil {
		modules = []model.Module{}
	}

	cfg, err := s.repo.ReplaceModules(ctx, guildID, modules)
	if err != nil {
		return nil, fmt.Errorf("replace modules: %w", err)
	}
	if cfg == nil {
		return nil, ErrGuildConfigNotFound
	}
	return cfg, nil
}

// get loads an existing config, mapping absence to ErrGuildConfigNotFound
func (s *GuildConfigService) get(ctx context.Context, guildID string) (*model.GuildConfig, error) {
	cfg, err := s.repo.GetByGuildID(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("get guild config: %w", err)
	}
	if cfg == nil {
		return nil, ErrGuildConfigNotFound
	}
	return cfg, nil
}
