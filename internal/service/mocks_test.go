package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/forgo/guildpanel/internal/model"
)

var errUpstreamDown = errors.Join(ErrUpstream, errors.New("status 500"))

// mockDiscord implements DiscordAPI with per-method overrides. Unset
// methods fail so tests only stub what they exercise.
type mockDiscord struct {
	currentUserFn   func(ctx context.Context, token string) (*model.UserProfile, error)
	userGuildsFn    func(ctx context.Context, token string) ([]model.GuildMembership, error)
	botGuildsFn     func(ctx context.Context) ([]model.GuildMembership, error)
	guildFn         func(ctx context.Context, guildID string) (*model.GuildInfo, error)
	guildRolesFn    func(ctx context.Context, guildID string) ([]model.Role, error)
	guildChannelsFn func(ctx context.Context, guildID string) ([]model.Channel, error)
}

func (m *mockDiscord) CurrentUser(ctx context.Context, token string) (*model.UserProfile, error) {
	if m.currentUserFn == nil {
		return nil, errUpstreamDown
	}
	return m.currentUserFn(ctx, token)
}

func (m *mockDiscord) UserGuilds(ctx context.Context, token string) ([]model.GuildMembership, error) {
	if m.userGuildsFn == nil {
		return nil, errUpstreamDown
	}
	return m.userGuildsFn(ctx, token)
}

func (m *mockDiscord) BotGuilds(ctx context.Context) ([]model.GuildMembership, error) {
	if m.botGuildsFn == nil {
		return nil, errUpstreamDown
	}
	return m.botGuildsFn(ctx)
}

func (m *mockDiscord) Guild(ctx context.Context, guildID string) (*model.GuildInfo, error) {
	if m.guildFn == nil {
		return nil, errUpstreamDown
	}
	return m.guildFn(ctx, guildID)
}

func (m *mockDiscord) GuildRoles(ctx context.Context, guildID string) ([]model.Role, error) {
	if m.guildRolesFn == nil {
		return nil, errUpstreamDown
	}
	return m.guildRolesFn(ctx, guildID)
}

func (m *mockDiscord) GuildChannels(ctx context.Context, guildID string) ([]model.Channel, error) {
	if m.guildChannelsFn == nil {
		return nil, errUpstreamDown
	}
	return m.guildChannelsFn(ctx, guildID)
}

func guilds(pairs ...string) []model.GuildMembership {
	out := make([]model.GuildMembership, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, model.GuildMembership{ID: pairs[i], Name: "g" + pairs[i], Permissions: pairs[i+1]})
	}
	return out
}

func staticGuilds(list []model.GuildMembership) func(context.Context, string) ([]model.GuildMembership, error) {
	return func(context.Context, string) ([]model.GuildMembership, error) { return list, nil }
}

// mockExchanger implements TokenExchanger
type mockExchanger struct {
	exchangeFn func(ctx context.Context, code string) (string, error)
	lastState  string
}

func (m *mockExchanger) AuthCodeURL(state string) string {
	m.lastState = state
	return "https://discord.example/oauth2/authorize?state=" + state
}

func (m *mockExchanger) Exchange(ctx context.Context, code string) (string, error) {
	return m.exchangeFn(ctx, code)
}

// recordingMetrics counts what the services report
type recordingMetrics struct {
	mu        sync.Mutex
	decisions []string
	conflicts int
}

func (r *recordingMetrics) RecordUpstreamCall(string, string, time.Duration) {}

func (r *recordingMetrics) RecordAuthorization(decision string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decisions = append(r.decisions, decision)
}

func (r *recordingMetrics) RecordModuleWriteConflict() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conflicts++
}

func (r *recordingMetrics) RecordHTTPRequest(string, string, int, time.Duration) {}

func (r *recordingMetrics) Decisions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.decisions...)
}

func (r *recordingMetrics) Conflicts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conflicts
}
