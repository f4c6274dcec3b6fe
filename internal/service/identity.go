package service

import (
	"context"

	"github.com/forgo/guildpanel/internal/model"
	"golang.org/x/sync/errgroup"
)

// IdentityService aggregates the signed-in user's profile and guild list
type IdentityService struct {
	api DiscordAPI
}

// NewIdentityService creates a new identity service
func NewIdentityService(api DiscordAPI) *IdentityService {
	return &IdentityService{api: api}
}

// GetIdentity fetches the user, the user's guilds and the bot's guilds
// concurrently and marks each user guild with has_bot. The first upstream
// failure cancels the other calls and fails the whole aggregation.
func (s *IdentityService) GetIdentity(ctx context.Context, token string) (*model.Identity, error) {
	if token == "" {
		return nil, ErrTokenRequired
	}

	var (
		user       *model.UserProfile
		userGuilds []model.GuildMembership
		botGuilds  []model.GuildMembership
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = s.api.CurrentUser(ctx, token)
		return err
	})
	g.Go(func() error {
		var err error
		userGuilds, err = s.api.UserGuilds(ctx, token)
		return err
	})
	g.Go(func() error {
		var err error
		botGuilds, err = s.api.BotGuilds(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &model.Identity{
		User:       *user,
		UserGuilds: MarkBotGuilds(userGuilds, botGuilds),
	}, nil
}

// MarkBotGuilds returns a copy of userGuilds with HasBot set for every guild
// whose id appears in botGuilds. Order is preserved.
func MarkBotGuilds(userGuilds, botGuilds []model.GuildMembership) []model.GuildMembership {
	installed := make(map[string]struct{}, len(botGuilds))
	for _, g := range botGuilds {
		installed[g.ID] = struct{}{}
	}

	out := make([]model.GuildMembership, len(userGuilds))
	for i, g := range userGuilds {
		_, g.HasBot = installed[g.ID]
		if g.Features == nil {
			g.Features = []string{}
		}
		out[i] = g
	}
	return out
}
