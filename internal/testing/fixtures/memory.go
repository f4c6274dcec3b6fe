package fixtures

import (
	"context"
	"sync"
	"time"

	"github.com/forgo/guildpanel/internal/database"
	"github.com/forgo/guildpanel/internal/model"
)

// MemoryRepository is an in-memory repository.GuildConfigRepository with the
// same version semantics as the real stores. Hooks let tests inject races
// and failures.
type MemoryRepository struct {
	mu      sync.Mutex
	configs map[string]*model.GuildConfig
	creates int

	// BeforeUpdate runs before each UpdateModules, outside the lock, so a
	// test can slip a competing write in between read and CAS.
	BeforeUpdate func(guildID string)

	// Err, when set, is returned by every operation.
	Err error
}

// NewMemoryRepository creates an empty in-memory store
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{configs: make(map[string]*model.GuildConfig)}
}

// Creates reports how many configs GetOrCreate actually inserted
func (r *MemoryRepository) Creates() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.creates
}

// Len reports how many configs are stored
func (r *MemoryRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.configs)
}

func (r *MemoryRepository) GetOrCreate(ctx context.Context, guildID string) (*model.GuildConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	if cfg, ok := r.configs[guildID]; ok {
		return clone(cfg), nil
	}
	cfg := model.NewGuildConfig(guildID)
	r.configs[guildID] = cfg
	r.creates++
	return clone(cfg), nil
}

func (r *MemoryRepository) GetByGuildID(ctx context.Context, guildID string) (*model.GuildConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	cfg, ok := r.configs[guildID]
	if !ok {
		return nil, nil
	}
	return clone(cfg), nil
}

func (r *MemoryRepository) UpdateModules(ctx context.Context, guildID string, expectedVersion int64, modules []model.Module) (*model.GuildConfig, error) {
	if r.BeforeUpdate != nil {
		r.BeforeUpdate(guildID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	cfg, ok := r.configs[guildID]
	if !ok || cfg.Version != expectedVersion {
		return nil, database.ErrConflict
	}
	r.write(cfg, modules)
	return clone(cfg), nil
}

func (r *MemoryRepository) ReplaceModules(ctx context.Context, guildID string, modules []model.Module) (*model.GuildConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	cfg, ok := r.configs[guildID]
	if !ok {
		return nil, nil
	}
	r.write(cfg, modules)
	return clone(cfg), nil
}

func (r *MemoryRepository) write(cfg *model.GuildConfig, modules []model.Module) {
	cfg.Modules = append([]model.Module{}, modules...)
	cfg.Version++
	cfg.UpdatedOn = time.Now().UTC()
}

// clone copies the config and its module list so callers cannot alias
// stored state
func clone(cfg *model.GuildConfig) *model.GuildConfig {
	out := *cfg
	out.Modules = append([]model.Module{}, cfg.Modules...)
	return &out
}
