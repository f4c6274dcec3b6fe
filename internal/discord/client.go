package discord

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/forgo/guildpanel/internal/metrics"
	"github.com/forgo/guildpanel/internal/model"
)

// pageSize is the maximum number of guilds Discord returns per page
const pageSize = 200

// Endpoint labels used in metrics and error messages
const (
	endpointCurrentUser   = "users_me"
	endpointUserGuilds    = "users_me_guilds"
	endpointBotGuilds     = "bot_guilds"
	endpointGuild         = "guild"
	endpointGuildRoles    = "guild_roles"
	endpointGuildChannels = "guild_channels"
	endpointToken         = "oauth2_token"
)

// Client calls the Discord REST API on behalf of a user (bearer token) or
// the bot (bot token). Every call is bounded by the configured timeout.
type Client struct {
	httpClient *http.Client
	botToken   string
	cdnURL     string
	timeout    time.Duration
	metrics    metrics.Recorder
}

// NewClient creates a new Discord REST client
func NewClient(cfg Config, httpClient *http.Client, rec metrics.Recorder) *Client {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Client{
		httpClient: httpClient,
		botToken:   cfg.BotToken,
		cdnURL:     cfg.CDNURL,
		timeout:    cfg.timeout(),
		metrics:    rec,
	}
}

// session builds a discordgo session over the shared HTTP client. Sessions
// are cheap and never open a gateway connection here.
func (c *Client) session(authorization string) (*discordgo.Session, error) {
	s, err := discordgo.New(authorization)
	if err != nil {
		return nil, fmt.Errorf("%w: create session: %v", ErrUpstream, err)
	}
	s.Client = c.httpClient
	s.MaxRestRetries = 0
	s.ShouldRetryOnRateLimit = false
	return s, nil
}

func (c *Client) userSession(token string) (*discordgo.Session, error) {
	return c.session("Bearer " + token)
}

func (c *Client) botSession() (*discordgo.Session, error) {
	return c.session("Bot " + c.botToken)
}

// call runs fn under the per-call deadline and records its outcome
func (c *Client) call(ctx context.Context, endpoint string, fn func(opt discordgo.RequestOption) error) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	err := fn(discordgo.WithContext(ctx))
	if err == nil {
		c.metrics.RecordUpstreamCall(endpoint, metrics.OutcomeOK, time.Since(start))
		return nil
	}

	outcome, wrapped := classify(endpoint, err)
	c.metrics.RecordUpstreamCall(endpoint, outcome, time.Since(start))
	return wrapped
}

// CurrentUser fetches the profile behind a user access token
func (c *Client) CurrentUser(ctx context.Context, token string) (*model.UserProfile, error) {
	s, err := c.userSession(token)
	if err != nil {
		return nil, err
	}

	var u *discordgo.User
	err = c.call(ctx, endpointCurrentUser, func(opt discordgo.RequestOption) error {
		var err error
		u, err = s.User("@me", opt)
		return err
	})
	if err != nil {
		return nil, err
	}
	if u == nil || u.ID == "" {
		return nil, fmt.Errorf("%w: %s: empty user", ErrUpstream, endpointCurrentUser)
	}

	return toUserProfile(u, c.cdnURL), nil
}

// UserGuilds lists the guilds the token's user belongs to
func (c *Client) UserGuilds(ctx context.Context, token string) ([]model.GuildMembership, error) {
	s, err := c.userSession(token)
	if err != nil {
		return nil, err
	}
	return c.listGuilds(ctx, s, endpointUserGuilds)
}

// BotGuilds lists the guilds the bot is installed in
func (c *Client) BotGuilds(ctx context.Context) ([]model.GuildMembership, error) {
	s, err := c.botSession()
	if err != nil {
		return nil, err
	}
	return c.listGuilds(ctx, s, endpointBotGuilds)
}

// listGuilds pages through /users/@me/guilds until a short page
func (c *Client) listGuilds(ctx context.Context, s *discordgo.Session, endpoint string) ([]model.GuildMembership, error) {
	var out []model.GuildMembership
	after := ""

	for {
		var page []*discordgo.UserGuild
		err := c.call(ctx, endpoint, func(opt discordgo.RequestOption) error {
			var err error
			page, err = s.UserGuilds(pageSize, "", after, false, opt)
			return err
		})
		if err != nil {
			return nil, err
		}

		for _, g := range page {
			out = append(out, toGuildMembership(g))
		}
		if len(page) < pageSize {
			break
		}
		after = page[len(page)-1].ID
	}

	if out == nil {
		out = []model.GuildMembership{}
	}
	return out, nil
}

// Guild fetches guild metadata with the bot token
func (c *Client) Guild(ctx context.Context, guildID string) (*model.GuildInfo, error) {
	s, err := c.botSession()
	if err != nil {
		return nil, err
	}

	var g *discordgo.Guild
	err = c.call(ctx, endpointGuild, func(opt discordgo.RequestOption) error {
		var err error
		g, err = s.Guild(guildID, opt)
		return err
	})
	if err != nil {
		return nil, err
	}
	if g == nil || g.ID == "" {
		return nil, fmt.Errorf("%w: %s: empty guild", ErrUpstream, endpointGuild)
	}

	return &model.GuildInfo{
		ID:       g.ID,
		Name:     g.Name,
		Icon:     g.Icon,
		OwnerID:  g.OwnerID,
		Features: featureStrings(g.Features),
	}, nil
}

// GuildRoles fetches a guild's roles with the bot token
func (c *Client) GuildRoles(ctx context.Context, guildID string) ([]model.Role, error) {
	s, err := c.botSession()
	if err != nil {
		return nil, err
	}

	var roles []*discordgo.Role
	err = c.call(ctx, endpointGuildRoles, func(opt discordgo.RequestOption) error {
		var err error
		roles, err = s.GuildRoles(guildID, opt)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := make([]model.Role, 0, len(roles))
	for _, r := range roles {
		out = append(out, model.Role{
			ID:          r.ID,
			Name:        r.Name,
			Color:       r.Color,
			Position:    r.Position,
			Permissions: strconv.FormatInt(r.Permissions, 10),
			Managed:     r.Managed,
			Mentionable: r.Mentionable,
			Hoist:       r.Hoist,
		})
	}
	return out, nil
}

// GuildChannels fetches a guild's channels with the bot token
func (c *Client) GuildChannels(ctx context.Context, guildID string) ([]model.Channel, error) {
	s, err := c.botSession()
	if err != nil {
		return nil, err
	}

	var channels []*discordgo.Channel
	err = c.call(ctx, endpointGuildChannels, func(opt discordgo.RequestOption) error {
		var err error
		channels, err = s.GuildChannels(guildID, opt)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := make([]model.Channel, 0, len(channels))
	for _, ch := range channels {
		out = append(out, model.Channel{
			ID:       ch.ID,
			Name:     ch.Name,
			Type:     int(ch.Type),
			Position: ch.Position,
			ParentID: ch.ParentID,
		})
	}
	return out, nil
}

func toGuildMembership(g *discordgo.UserGuild) model.GuildMembership {
	return model.GuildMembership{
		ID:          g.ID,
		Name:        g.Name,
		Icon:        g.Icon,
		Owner:       g.Owner,
		Permissions: strconv.FormatInt(g.Permissions, 10),
		Features:    featureStrings(g.Features),
	}
}

func featureStrings(features []discordgo.GuildFeature) []string {
	out := make([]string, 0, len(features))
	for _, f := range features {
		out = append(out, string(f))
	}
	return out
}
