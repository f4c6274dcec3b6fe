package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/forgo/guildpanel/internal/model"
	"github.com/forgo/guildpanel/internal/testing/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuildConfigService(repo *fixtures.MemoryRepository, rec *recordingMetrics) *GuildConfigService {
	cfg := GuildConfigServiceConfig{Repo: repo}
	if rec != nil {
		cfg.Metrics = rec
	}
	return NewGuildConfigService(cfg)
}

func TestGuildConfigService_GetOrCreate_CreatesEmpty(t *testing.T) {
	t.Parallel()

	repo := fixtures.NewMemoryRepository()
	svc := newGuildConfigService(repo, nil)

	cfg, err := svc.GetOrCreate(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "42", cfg.GuildID)
	assert.Empty(t, cfg.Modules)
	assert.NotNil(t, cfg.Modules)

	again, err := svc.GetOrCreate(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, cfg.CreatedOn, again.CreatedOn)
	assert.Equal(t, 1, repo.Len())
}

func TestGuildConfigService_GetOrCreate_ConcurrentSingleRecord(t *testing.T) {
	t.Parallel()

	repo := fixtures.NewMemoryRepository()
	svc := newGuildConfigService(repo, nil)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.GetOrCreate(context.Background(), "42")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, repo.Creates())
	assert.Equal(t, 1, repo.Len())
}

func TestGuildConfigService_GetModule(t *testing.T) {
	t.Parallel()

	repo := fixtures.NewMemoryRepository()
	cfg := fixtures.New(repo).CreateGuildConfig(t, fixtures.WithModules(
		fixtures.Module("welcome", true),
		fixtures.Module("logging", false),
	))
	svc := newGuildConfigService(repo, nil)

	m, err := svc.GetModule(context.Background(), cfg.GuildID, "logging")
	require.NoError(t, err)
	assert.Equal(t, "logging", m.ID)
	assert.False(t, m.Enabled)

	_, err = svc.GetModule(context.Background(), cfg.GuildID, "missing")
	assert.ErrorIs(t, err, ErrModuleNotFound)

	_, err = svc.GetModule(context.Background(), "no-such-guild", "welcome")
	assert.ErrorIs(t, err, ErrGuildConfigNotFound)
}

func TestGuildConfigService_UpsertModule_ReplacesInPlace(t *testing.T) {
	t.Parallel()

	repo := fixtures.NewMemoryRepository()
	cfg := fixtures.New(repo).CreateGuildConfig(t, fixtures.WithModules(
		fixtures.Module("welcome", true),
		fixtures.Module("m1", false),
		fixtures.Module("logging", true),
	))
	svc := newGuildConfigService(repo, nil)

	updated, err := svc.UpsertModule(context.Background(), cfg.GuildID, model.Module{ID: "m1", Enabled: true})
	require.NoError(t, err)

	require.Len(t, updated.Modules, 3)
	assert.Equal(t, []string{"welcome", "m1", "logging"},
		[]string{updated.Modules[0].ID, updated.Modules[1].ID, updated.Modules[2].ID})
	assert.True(t, updated.Modules[1].Enabled)
	assert.NotNil(t, updated.Modules[1].Settings)
}

func TestGuildConfigService_UpsertModule_AppendsAndIsIdempotent(t *testing.T) {
	t.Parallel()

	repo := fixtures.NewMemoryRepository()
	cfg := fixtures.New(repo).CreateGuildConfig(t)
	svc := newGuildConfigService(repo, nil)
	m := model.Module{ID: "welcome", Enabled: true, Settings: map[string]interface{}{"channel": "123"}}

	first, err := svc.UpsertModule(context.Background(), cfg.GuildID, m)
	require.NoError(t, err)
	second, err := svc.UpsertModule(context.Background(), cfg.GuildID, m)
	require.NoError(t, err)

	assert.Equal(t, first.Modules, second.Modules)
	require.Len(t, second.Modules, 1)
	assert.Equal(t, "123", second.Modules[0].Settings["channel"])
}

func TestGuildConfigService_UpsertModule_NeverCreatesConfig(t *testing.T) {
	t.Parallel()

	repo := fixtures.NewMemoryRepository()
	svc := newGuildConfigService(repo, nil)

	_, err := svc.UpsertModule(context.Background(), "42", model.Module{ID: "welcome"})
	assert.ErrorIs(t, err, ErrGuildConfigNotFound)
	assert.Zero(t, repo.Len())
}

func TestGuildConfigService_UpsertModule_Validation(t *testing.T) {
	t.Parallel()

	svc := newGuildConfigService(fixtures.NewMemoryRepository(), nil)

	_, err := svc.UpsertModule(context.Background(), "42", model.Module{})
	var pd *model.ProblemDetails
	require.ErrorAs(t, err, &pd)
	assert.Equal(t, 422, pd.Status)
}

func TestGuildConfigService_UpsertModule_RetriesLostRace(t *testing.T) {
	t.Parallel()

	repo := fixtures.NewMemoryRepository()
	cfg := fixtures.New(repo).CreateGuildConfig(t, fixtures.WithModules(fixtures.Module("a", false)))
	rec := &recordingMetrics{}
	svc := newGuildConfigService(repo, rec)

	// A competing writer lands between the first read and its swap
	var once sync.Once
	repo.BeforeUpdate = func(guildID string) {
		once.Do(func() {
			_, err := repo.ReplaceModules(context.Background(), guildID, []model.Module{
				fixtures.Module("a", false),
				fixtures.Module("b", true),
			})
			require.NoError(t, err)
		})
	}

	updated, err := svc.UpsertModule(context.Background(), cfg.GuildID, model.Module{ID: "a", Enabled: true})
	require.NoError(t, err)

	require.Len(t, updated.Modules, 2, "competing write must survive")
	assert.True(t, updated.Modules[0].Enabled)
	assert.Equal(t, "b", updated.Modules[1].ID)
	assert.Equal(t, 1, rec.Conflicts())
}

func TestGuildConfigService_UpsertModule_GivesUpAfterRetries(t *testing.T) {
	t.Parallel()

	repo := fixtures.NewMemoryRepository()
	cfg := fixtures.New(repo).CreateGuildConfig(t)
	rec := &recordingMetrics{}
	svc := NewGuildConfigService(GuildConfigServiceConfig{Repo: repo, MaxRetries: 3, Metrics: rec})

	repo.BeforeUpdate = func(guildID string) {
		_, _ = repo.ReplaceModules(context.Background(), guildID, []model.Module{})
	}

	_, err := svc.UpsertModule(context.Background(), cfg.GuildID, model.Module{ID: "a"})
	assert.ErrorIs(t, err, ErrConcurrentUpdate)
	assert.Equal(t, 3, rec.Conflicts())
}

func TestGuildConfigService_UpsertModule_ConcurrentDistinctModules(t *testing.T) {
	t.Parallel()

	repo := fixtures.NewMemoryRepository()
	cfg := fixtures.New(repo).CreateGuildConfig(t)
	svc := NewGuildConfigService(GuildConfigServiceConfig{Repo: repo, MaxRetries: 100})

	ids := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := svc.UpsertModule(context.Background(), cfg.GuildID, model.Module{ID: id, Enabled: true})
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	final, err := svc.GetOrCreate(context.Background(), cfg.GuildID)
	require.NoError(t, err)
	got := make([]string, 0, len(final.Modules))
	for _, m := range final.Modules {
		got = append(got, m.ID)
	}
	assert.ElementsMatch(t, ids, got, "no update may be lost")
}

func TestGuildConfigService_ReplaceModules(t *testing.T) {
	t.Parallel()

	repo := fixtures.NewMemoryRepository()
	cfg := fixtures.New(repo).CreateGuildConfig(t, fixtures.WithModules(fixtures.Module("old", true)))
	svc := newGuildConfigService(repo, nil)

	list := []model.Module{fixtures.Module("x", true), fixtures.Module("y", false)}
	_, err := svc.ReplaceModules(context.Background(), cfg.GuildID, list)
	require.NoError(t, err)

	got, err := svc.GetOrCreate(context.Background(), cfg.GuildID)
	require.NoError(t, err)
	assert.Equal(t, list, got.Modules)

	_, err = svc.GetModule(context.Background(), cfg.GuildID, "old")
	assert.ErrorIs(t, err, ErrModuleNotFound)
}

func TestGuildConfigService_ReplaceModules_EmptyList(t *testing.T) {
	t.Parallel()

	repo := fixtures.NewMemoryRepository()
	cfg := fixtures.New(repo).CreateGuildConfig(t, fixtures.WithModules(fixtures.Module("old", true)))
	svc := newGuildConfigService(repo, nil)

	updated, err := svc.ReplaceModules(context.Background(), cfg.GuildID, nil)
	require.NoError(t, err)
	assert.NotNil(t, updated.Modules)
	assert.Empty(t, updated.Modules)
}

func TestGuildConfigService_ReplaceModules_Errors(t *testing.T) {
	t.Parallel()

	repo := fixtures.NewMemoryRepository()
	svc := newGuildConfigService(repo, nil)

	_, err := svc.ReplaceModules(context.Background(), "42", []model.Module{fixtures.Module("a", true)})
	assert.ErrorIs(t, err, ErrGuildConfigNotFound)

	_, err = svc.ReplaceModules(context.Background(), "42", []model.Module{fixtures.Module("a", true), fixtures.Module("a", false)})
	var pd *model.ProblemDetails
	require.ErrorAs(t, err, &pd)
	assert.Len(t, pd.Errors, 1)
}

func TestGuildConfigService_StoreFailurePropagates(t *testing.T) {
	t.Parallel()

	boom := errors.New("store down")
	repo := fixtures.NewMemoryRepository()
	repo.Err = boom
	svc := newGuildConfigService(repo, nil)

	_, err := svc.GetOrCreate(context.Background(), "42")
	assert.ErrorIs(t, err, boom)
	_, err = svc.UpsertModule(context.Background(), "42", model.Module{ID: "a"})
	assert.ErrorIs(t, err, boom)
	_, err = svc.ReplaceModules(context.Background(), "42", nil)
	assert.ErrorIs(t, err, boom)
}
