package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/forgo/guildpanel/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

func TestIsUniqueConstraintError(t *testing.T) {
	t.Parallel()

	assert.False(t, isUniqueConstraintError(nil))
	assert.True(t, isUniqueConstraintError(errors.New("Database record `guild_config:1` already exists")))
	assert.True(t, isUniqueConstraintError(errors.New("E11000 duplicate key error")))
	assert.False(t, isUniqueConstraintError(errors.New("connection refused")))
}

func TestDecodeModules(t *testing.T) {
	t.Parallel()

	raw := []interface{}{
		map[string]interface{}{"id": "welcome", "enabled": true, "settings": map[string]interface{}{"channel": "123"}},
		map[string]interface{}{"id": "logging", "enabled": false},
	}

	modules, err := decodeModules(raw)
	require.NoError(t, err)
	require.Len(t, modules, 2)
	assert.Equal(t, "welcome", modules[0].ID)
	assert.True(t, modules[0].Enabled)
	assert.Equal(t, "123", modules[0].Settings["channel"])
	assert.Equal(t, "logging", modules[1].ID)

	empty, err := decodeModules(nil)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = decodeModules("not a list")
	assert.Error(t, err)
}

func TestModulesToDocuments(t *testing.T) {
	t.Parallel()

	docs := modulesToDocuments([]model.Module{{ID: "a", Enabled: true}})
	require.Len(t, docs, 1)
	assert.Equal(t, "a", docs[0]["id"])
	assert.Equal(t, true, docs[0]["enabled"])
	assert.Equal(t, map[string]interface{}{}, docs[0]["settings"])

	assert.Empty(t, modulesToDocuments(nil))
}

func TestNormalizeConfig(t *testing.T) {
	t.Parallel()

	cfg := normalizeConfig(&model.GuildConfig{GuildID: "1", Modules: []model.Module{{ID: "a"}}})
	assert.NotNil(t, cfg.Modules[0].Settings)

	cfg = normalizeConfig(&model.GuildConfig{GuildID: "1"})
	assert.NotNil(t, cfg.Modules)
}

func TestGetInt64(t *testing.T) {
	t.Parallel()

	m := map[string]interface{}{
		"f":   float64(3),
		"i":   7,
		"u":   uint64(9),
		"i64": int64(11),
		"s":   "12",
	}
	assert.Equal(t, int64(3), getInt64(m, "f"))
	assert.Equal(t, int64(7), getInt64(m, "i"))
	assert.Equal(t, int64(9), getInt64(m, "u"))
	assert.Equal(t, int64(11), getInt64(m, "i64"))
	assert.Equal(t, int64(0), getInt64(m, "s"))
	assert.Equal(t, int64(0), getInt64(m, "missing"))
}

func TestParseTime(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, ts, parseTime(ts))
	assert.True(t, ts.Equal(parseTime("2024-05-01T12:00:00Z")))
	assert.True(t, ts.Equal(parseTime(models.CustomDateTime{Time: ts})))
	assert.True(t, parseTime(nil).IsZero())
	assert.True(t, parseTime("yesterday").IsZero())
}
