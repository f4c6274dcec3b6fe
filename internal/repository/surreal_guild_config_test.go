package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/forgo/guildpanel/internal/database"
	"github.com/forgo/guildpanel/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockDB implements database.Database with per-method overrides
type mockDB struct {
	queryOneFn func(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error)
	calls      []string
}

func (m *mockDB) Connect(ctx context.Context) error { return nil }
func (m *mockDB) Close() error                      { return nil }
func (m *mockDB) Ping(ctx context.Context) error    { return nil }

func (m *mockDB) Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
	return nil, nil
}

func (m *mockDB) QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error) {
	m.calls = append(m.calls, strings.Fields(query)[0])
	return m.queryOneFn(ctx, query, vars)
}

func (m *mockDB) Execute(ctx context.Context, query string, vars map[string]interface{}) error {
	return nil
}

func surrealRecord(guildID string, version int64, modules ...map[string]interface{}) map[string]interface{} {
	list := make([]interface{}, 0, len(modules))
	for _, m := range modules {
		list = append(list, m)
	}
	return map[string]interface{}{
		"guild_id":   guildID,
		"modules":    list,
		"version":    uint64(version),
		"created_on": "2024-05-01T12:00:00Z",
		"updated_on": "2024-05-01T12:00:00Z",
	}
}

func TestSurrealGuildConfig_GetOrCreate_Created(t *testing.T) {
	t.Parallel()

	db := &mockDB{queryOneFn: func(_ context.Context, query string, vars map[string]interface{}) (interface{}, error) {
		assert.Equal(t, database.GuildConfigTable, vars["table"])
		assert.Equal(t, "42", vars["guild_id"])
		return surrealRecord("42", 0), nil
	}}

	cfg, err := NewSurrealGuildConfigRepository(db).GetOrCreate(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "42", cfg.GuildID)
	assert.Empty(t, cfg.Modules)
	assert.NotNil(t, cfg.Modules)
	assert.Equal(t, []string{"CREATE"}, db.calls)
}

func TestSurrealGuildConfig_GetOrCreate_DuplicateFallsBackToRead(t *testing.T) {
	t.Parallel()

	db := &mockDB{queryOneFn: func(_ context.Context, query string, _ map[string]interface{}) (interface{}, error) {
		if strings.Contains(query, "CREATE") {
			return nil, fmt.Errorf("%w: Database record `guild_config:42` already exists", database.ErrDuplicate)
		}
		return surrealRecord("42", 3, map[string]interface{}{"id": "m1", "enabled": true}), nil
	}}

	cfg, err := NewSurrealGuildConfigRepository(db).GetOrCreate(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, int64(3), cfg.Version)
	require.Len(t, cfg.Modules, 1)
	assert.Equal(t, "m1", cfg.Modules[0].ID)
	assert.Equal(t, []string{"CREATE", "SELECT"}, db.calls)
}

func TestSurrealGuildConfig_GetByGuildID_Missing(t *testing.T) {
	t.Parallel()

	db := &mockDB{queryOneFn: func(context.Context, string, map[string]interface{}) (interface{}, error) {
		return nil, database.ErrNotFound
	}}

	cfg, err := NewSurrealGuildConfigRepository(db).GetByGuildID(context.Background(), "42")
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestSurrealGuildConfig_UpdateModules_VersionMismatchIsConflict(t *testing.T) {
	t.Parallel()

	db := &mockDB{queryOneFn: func(_ context.Context, _ string, vars map[string]interface{}) (interface{}, error) {
		assert.Equal(t, int64(2), vars["version"])
		return nil, database.ErrNotFound
	}}

	_, err := NewSurrealGuildConfigRepository(db).UpdateModules(context.Background(), "42", 2, []model.Module{{ID: "a"}})
	assert.True(t, errors.Is(err, database.ErrConflict))
}

func TestSurrealGuildConfig_UpdateModules_SendsDocuments(t *testing.T) {
	t.Parallel()

	db := &mockDB{queryOneFn: func(_ context.Context, _ string, vars map[string]interface{}) (interface{}, error) {
		docs, ok := vars["modules"].([]map[string]interface{})
		require.True(t, ok)
		require.Len(t, docs, 1)
		assert.Equal(t, "a", docs[0]["id"])
		return surrealRecord("42", 1, map[string]interface{}{"id": "a", "enabled": true, "settings": map[string]interface{}{}}), nil
	}}

	cfg, err := NewSurrealGuildConfigRepository(db).UpdateModules(context.Background(), "42", 0, []model.Module{{ID: "a", Enabled: true}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), cfg.Version)
	assert.True(t, cfg.Modules[0].Enabled)
}

func TestSurrealGuildConfig_ReplaceModules_Missing(t *testing.T) {
	t.Parallel()

	db := &mockDB{queryOneFn: func(context.Context, string, map[string]interface{}) (interface{}, error) {
		return nil, database.ErrNotFound
	}}

	cfg, err := NewSurrealGuildConfigRepository(db).ReplaceModules(context.Background(), "42", nil)
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestParseGuildConfigResult_UnexpectedType(t *testing.T) {
	t.Parallel()

	_, err := parseGuildConfigResult("oops")
	assert.ErrorIs(t, err, database.ErrQuery)
}
