package service

import (
	"context"
	"testing"

	"github.com/forgo/guildpanel/internal/metrics"
	"github.com/forgo/guildpanel/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermissionGuard_Authorize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		guilds   []model.GuildMembership
		err      error
		want     bool
		decision string
	}{
		{"manage guild bit set", guilds("g1", "32"), nil, true, metrics.DecisionAllow},
		{"administrator plus manage guild", guilds("g1", "40"), nil, true, metrics.DecisionAllow},
		{"manage messages only", guilds("g1", "16"), nil, false, metrics.DecisionDeny},
		{"guild absent", guilds("g2", "32"), nil, false, metrics.DecisionDeny},
		{"no guilds", nil, nil, false, metrics.DecisionDeny},
		{"malformed permissions", guilds("g1", "lots"), nil, false, metrics.DecisionError},
		{"upstream failure", nil, errUpstreamDown, false, metrics.DecisionError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := &recordingMetrics{}
			api := &mockDiscord{userGuildsFn: func(context.Context, string) ([]model.GuildMembership, error) {
				return tt.guilds, tt.err
			}}

			got := NewPermissionGuard(api, rec).Authorize(context.Background(), "tok", "g1")
			assert.Equal(t, tt.want, got)
			assert.Equal(t, []string{tt.decision}, rec.Decisions())
		})
	}
}

func TestPermissionGuard_Check_ReturnsMembership(t *testing.T) {
	t.Parallel()

	list := guilds("g0", "0", "g1", "32")
	list[1].Owner = true
	api := &mockDiscord{userGuildsFn: staticGuilds(list)}

	m, ok := NewPermissionGuard(api, nil).Check(context.Background(), "tok", "g1")
	require.True(t, ok)
	assert.Equal(t, "g1", m.ID)
	assert.True(t, m.Owner)
}

func TestPermissionGuard_Require(t *testing.T) {
	t.Parallel()

	api := &mockDiscord{userGuildsFn: staticGuilds(guilds("g1", "32", "g2", "16"))}
	guard := NewPermissionGuard(api, nil)
	ctx := context.Background()

	m, err := guard.Require(ctx, "tok", "g1")
	require.NoError(t, err)
	assert.Equal(t, "g1", m.ID)

	_, err = guard.Require(ctx, "tok", "g2")
	assert.ErrorIs(t, err, ErrCannotManageGuild)

	_, err = guard.Require(ctx, "", "g1")
	assert.ErrorIs(t, err, ErrTokenRequired)

	failing := NewPermissionGuard(&mockDiscord{}, nil)
	_, err = failing.Require(ctx, "tok", "g1")
	assert.ErrorIs(t, err, ErrCannotManageGuild)
	assert.NotErrorIs(t, err, ErrUpstream)
}

func TestPermissionGuard_MissingInputsDenyWithoutUpstreamCall(t *testing.T) {
	t.Parallel()

	calls := 0
	api := &mockDiscord{userGuildsFn: func(context.Context, string) ([]model.GuildMembership, error) {
		calls++
		return guilds("g1", "32"), nil
	}}
	guard := NewPermissionGuard(api, nil)

	assert.False(t, guard.Authorize(context.Background(), "", "g1"))
	assert.False(t, guard.Authorize(context.Background(), "tok", ""))
	assert.Zero(t, calls)
}

func TestPermissionGuard_QueriesUpstreamEveryTime(t *testing.T) {
	t.Parallel()

	perms := "32"
	api := &mockDiscord{userGuildsFn: func(context.Context, string) ([]model.GuildMembership, error) {
		return guilds("g1", perms), nil
	}}
	guard := NewPermissionGuard(api, nil)

	assert.True(t, guard.Authorize(context.Background(), "tok", "g1"))
	perms = "0"
	assert.False(t, guard.Authorize(context.Background(), "tok", "g1"), "revoked permission must take effect immediately")
}
