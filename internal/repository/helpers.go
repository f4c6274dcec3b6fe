package repository

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/forgo/guildpanel/internal/database"
	"github.com/forgo/guildpanel/internal/model"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// isUniqueConstraintError checks if an error is a unique constraint violation
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "unique") ||
		strings.Contains(errStr, "duplicate") ||
		strings.Contains(errStr, "already exists")
}

// normalizeConfig guarantees a non-nil modules list and settings maps so
// clients always see arrays and objects, never null.
func normalizeConfig(cfg *model.GuildConfig) *model.GuildConfig {
	if cfg.Modules == nil {
		cfg.Modules = []model.Module{}
	}
	for i := range cfg.Modules {
		if cfg.Modules[i].Settings == nil {
			cfg.Modules[i].Settings = map[string]interface{}{}
		}
	}
	return cfg
}

// decodeModules converts a SurrealDB array value into modules
func decodeModules(v interface{}) ([]model.Module, error) {
	if v == nil {
		return []model.Module{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: encode modules: %v", database.ErrQuery, err)
	}
	var modules []model.Module
	if err := json.Unmarshal(data, &modules); err != nil {
		return nil, fmt.Errorf("%w: decode modules: %v", database.ErrQuery, err)
	}
	return modules, nil
}

// modulesToDocuments converts modules into plain maps keyed by their JSON
// names, the shape SurrealDB stores.
func modulesToDocuments(modules []model.Module) []map[string]interface{} {
	docs := make([]map[string]interface{}, 0, len(modules))
	for _, m := range modules {
		settings := m.Settings
		if settings == nil {
			settings = map[string]interface{}{}
		}
		docs = append(docs, map[string]interface{}{
			"id":       m.ID,
			"enabled":  m.Enabled,
			"settings": settings,
		})
	}
	return docs
}

// parseTime parses time from various formats
func parseTime(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed
		}
	case models.CustomDateTime:
		return t.Time
	case *models.CustomDateTime:
		if t != nil {
			return t.Time
		}
	}
	return time.Time{}
}

// getString extracts a string value from a map
func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// getInt64 extracts an integer value from a map
func getInt64(m map[string]interface{}, key string) int64 {
	switch v := m[key].(type) {
	case float64:
		return int64(v)
	case float32:
		return int64(v)
	case int:
		return int64(v)
	case int64:
		return v
	case uint64:
		return int64(v)
	case uint32:
		return int64(v)
	}
	return 0
}
