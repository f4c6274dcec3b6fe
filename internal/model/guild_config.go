package model

import (
	"fmt"
	"time"
)

// MaxModuleIDLength bounds the identifier of a single module
const MaxModuleIDLength = 64

// Module is a toggle-and-settings unit of bot functionality scoped to one guild
type Module struct {
	ID       string                 `json:"id" bson:"id" yaml:"id"`
	Enabled  bool                   `json:"enabled" bson:"enabled" yaml:"enabled"`
	Settings map[string]interface{} `json:"settings" bson:"settings" yaml:"settings"`
}

// GuildConfig is the persisted per-guild configuration document.
// Version is an optimistic-concurrency counter and never leaves the server.
type GuildConfig struct {
	GuildID   string    `json:"guild_id" bson:"guild_id" yaml:"guild_id"`
	Modules   []Module  `json:"modules" bson:"modules" yaml:"modules"`
	Version   int64     `json:"-" bson:"version" yaml:"-"`
	CreatedOn time.Time `json:"created_on,omitempty" bson:"created_on" yaml:"created_on"`
	UpdatedOn time.Time `json:"updated_on,omitempty" bson:"updated_on" yaml:"updated_on"`
}

// NewGuildConfig returns an empty configuration for a guild
func NewGuildConfig(guildID string) *GuildConfig {
	now := time.Now().UTC()
	return &GuildConfig{
		GuildID:   guildID,
		Modules:   []Module{},
		CreatedOn: now,
		UpdatedOn: now,
	}
}

// FindModule returns the first module with the given id
func (c *GuildConfig) FindModule(id string) (*Module, bool) {
	for i := range c.Modules {
		if c.Modules[i].ID == id {
			m := c.Modules[i]
			return &m, true
		}
	}
	return nil, false
}

// MergeModule returns a new list with m replacing the first entry that
// shares its id, or appended when no entry matches. The input is not mutated.
func MergeModule(modules []Module, m Module) []Module {
	merged := make([]Module, len(modules), len(modules)+1)
	copy(merged, modules)

	for i := range merged {
		if merged[i].ID == m.ID {
			merged[i] = m
			return merged
		}
	}
	return append(merged, m)
}

// Validate validates a single module payload
func (m *Module) Validate() []FieldError {
	var errors []FieldError

	if m.ID == "" {
		errors = append(errors, FieldError{
			Field:   "id",
			Message: "module id is required",
		})
	}

	if len(m.ID) > MaxModuleIDLength {
		errors = append(errors, FieldError{
			Field:   "id",
			Message: fmt.Sprintf("module id exceeds %d characters", MaxModuleIDLength),
		})
	}

	return errors
}

// ValidateModules validates a full replacement list. Ids must be present
// and unique so the stored list keeps one entry per module.
func ValidateModules(modules []Module) []FieldError {
	var errors []FieldError
	seen := make(map[string]struct{}, len(modules))

	for i := range modules {
		for _, fe := range modules[i].Validate() {
			fe.Field = fmt.Sprintf("modules[%d].%s", i, fe.Field)
			errors = append(errors, fe)
		}

		id := modules[i].ID
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			errors = append(errors, FieldError{
				Field:   fmt.Sprintf("modules[%d].id", i),
				Message: fmt.Sprintf("duplicate module id %q", id),
			})
			continue
		}
		seen[id] = struct{}{}
	}

	return errors
}
