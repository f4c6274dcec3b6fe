package service

import (
	"context"
	"log/slog"

	"github.com/forgo/guildpanel/internal/metrics"
	"github.com/forgo/guildpanel/internal/model"
)

// PermissionGuard decides whether an access token may manage a guild.
// It fails closed: any upstream error or malformed permission value denies.
type PermissionGuard struct {
	guilds  UserGuildLister
	metrics metrics.Recorder
}

// NewPermissionGuard creates a new permission guard
func NewPermissionGuard(guilds UserGuildLister, rec metrics.Recorder) *PermissionGuard {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &PermissionGuard{guilds: guilds, metrics: rec}
}

// Authorize reports whether the token's user holds MANAGE_GUILD in guildID
func (g *PermissionGuard) Authorize(ctx context.Context, token, guildID string) bool {
	_, ok := g.Check(ctx, token, guildID)
	return ok
}

// Require is Check for callers that want an error: ErrTokenRequired without a
// token, ErrCannotManageGuild on any denial.
func (g *PermissionGuard) Require(ctx context.Context, token, guildID string) (*model.GuildMembership, error) {
	if token == "" {
		return nil, ErrTokenRequired
	}
	membership, ok := g.Check(ctx, token, guildID)
	if !ok {
		return nil, ErrCannotManageGuild
	}
	return membership, nil
}

// Check is Authorize that also returns the caller's membership when allowed.
// One upstream call per invocation; nothing is cached.
func (g *PermissionGuard) Check(ctx context.Context, token, guildID string) (*model.GuildMembership, bool) {
	if token == "" || guildID == "" {
		g.metrics.RecordAuthorization(metrics.DecisionDeny)
		return nil, false
	}

	guilds, err := g.guilds.UserGuilds(ctx, token)
	if err != nil {
		slog.Warn("permission check failed upstream",
			slog.String("guild_id", guildID),
			slog.String("token_fp", TokenFingerprint(token)),
			slog.String("error", err.Error()),
		)
		g.metrics.RecordAuthorization(metrics.DecisionError)
		return nil, false
	}

	for i := range guilds {
		if guilds[i].ID != guildID {
			continue
		}

		ok, err := guilds[i].CanManage()
		if err != nil {
			slog.Warn("malformed guild permissions",
				slog.String("guild_id", guildID),
				slog.String("token_fp", TokenFingerprint(token)),
				slog.String("error", err.Error()),
			)
			g.metrics.RecordAuthorization(metrics.DecisionError)
			return nil, false
		}
		if !ok {
			break
		}

		g.metrics.RecordAuthorization(metrics.DecisionAllow)
		membership := guilds[i]
		return &membership, true
	}

	g.metrics.RecordAuthorization(metrics.DecisionDeny)
	return nil, false
}
