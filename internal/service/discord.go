package service

import (
	"context"

	"github.com/forgo/guildpanel/internal/model"
)

// UserGuildLister lists the guilds behind a user access token
type UserGuildLister interface {
	UserGuilds(ctx context.Context, token string) ([]model.GuildMembership, error)
}

// DiscordAPI is the upstream REST surface the services need
type DiscordAPI interface {
	UserGuildLister
	CurrentUser(ctx context.Context, token string) (*model.UserProfile, error)
	BotGuilds(ctx context.Context) ([]model.GuildMembership, error)
	Guild(ctx context.Context, guildID string) (*model.GuildInfo, error)
	GuildRoles(ctx context.Context, guildID string) ([]model.Role, error)
	GuildChannels(ctx context.Context, guildID string) ([]model.Channel, error)
}

// TokenExchanger performs the OAuth2 authorization-code flow
type TokenExchanger interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (string, error)
}
