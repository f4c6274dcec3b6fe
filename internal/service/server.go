package service

import (
	"context"

	"github.com/forgo/guildpanel/internal/model"
	"golang.org/x/sync/errgroup"
)

// everyoneRoleName is the implicit role every member holds
const everyoneRoleName = "@everyone"

// ServerService assembles guild details for the dashboard using the bot token
type ServerService struct {
	api DiscordAPI
}

// NewServerService creates a new server service
func NewServerService(api DiscordAPI) *ServerService {
	return &ServerService{api: api}
}

// GetServerDetails fetches guild metadata, roles and channels concurrently.
// viewer is the caller's own membership from the permission check; it
// supplies the owner flag.
func (s *ServerService) GetServerDetails(ctx context.Context, guildID string, viewer *model.GuildMembership) (*model.ServerDetails, error) {
	var (
		info     *model.GuildInfo
		roles    []model.Role
		channels []model.Channel
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		info, err = s.api.Guild(ctx, guildID)
		return err
	})
	g.Go(func() error {
		var err error
		roles, err = s.api.GuildRoles(ctx, guildID)
		return err
	})
	g.Go(func() error {
		var err error
		channels, err = s.api.GuildChannels(ctx, guildID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	details := &model.ServerDetails{
		ID:       info.ID,
		Name:     info.Name,
		Icon:     info.Icon,
		OwnerID:  info.OwnerID,
		Features: info.Features,
		Roles:    withoutEveryone(guildID, roles),
		Channels: channels,
	}
	if details.Features == nil {
		details.Features = []string{}
	}
	if details.Channels == nil {
		details.Channels = []model.Channel{}
	}
	if viewer != nil {
		details.Owner = viewer.Owner
	}
	return details, nil
}

// GetServerRoles returns the guild's roles without @everyone
func (s *ServerService) GetServerRoles(ctx context.Context, guildID string) ([]model.Role, error) {
	roles, err := s.api.GuildRoles(ctx, guildID)
	if err != nil {
		return nil, err
	}
	return withoutEveryone(guildID, roles), nil
}

// withoutEveryone drops the @everyone role, whose id equals the guild id
func withoutEveryone(guildID string, roles []model.Role) []model.Role {
	out := make([]model.Role, 0, len(roles))
	for _, r := range roles {
		if r.ID == guildID || r.Name == everyoneRoleName {
			continue
		}
		out = append(out, r)
	}
	return out
}
