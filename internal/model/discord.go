package model

import (
	"fmt"
	"strconv"
)

// PermissionManageGuild is the MANAGE_GUILD bit of a Discord permission set
const PermissionManageGuild int64 = 0x20

// UserProfile is the dashboard view of the signed-in Discord user
type UserProfile struct {
	ID            string  `json:"id"`
	Username      string  `json:"username"`
	GlobalName    string  `json:"global_name,omitempty"`
	Discriminator string  `json:"discriminator,omitempty"`
	Avatar        *string `json:"avatar"`
	AvatarURL     string  `json:"avatar_url"`
}

// GuildMembership is one guild in the user's guild list.
// Permissions stays string-encoded exactly as the upstream API sends it.
type GuildMembership struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Icon        string   `json:"icon,omitempty"`
	Owner       bool     `json:"owner"`
	Permissions string   `json:"permissions"`
	Features    []string `json:"features"`
	HasBot      bool     `json:"has_bot"`
}

// CanManage reports whether the membership carries MANAGE_GUILD.
// A malformed permissions value returns an error and never grants access.
func (g *GuildMembership) CanManage() (bool, error) {
	perms, err := strconv.ParseInt(g.Permissions, 10, 64)
	if err != nil {
		return false, fmt.Errorf("malformed permissions %q: %w", g.Permissions, err)
	}
	return perms&PermissionManageGuild != 0, nil
}

// Identity is the aggregated response for the signed-in user
type Identity struct {
	User       UserProfile       `json:"user"`
	UserGuilds []GuildMembership `json:"user_guilds"`
}

// Role is a guild role as shown in the dashboard
type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       int    `json:"color"`
	Position    int    `json:"position"`
	Permissions string `json:"permissions"`
	Managed     bool   `json:"managed"`
	Mentionable bool   `json:"mentionable"`
	Hoist       bool   `json:"hoist"`
}

// Channel is a guild channel as shown in the dashboard
type Channel struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     int    `json:"type"`
	Position int    `json:"position"`
	ParentID string `json:"parent_id,omitempty"`
}

// ServerDetails is the transient guild view assembled from three upstream calls
type ServerDetails struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Icon     string    `json:"icon,omitempty"`
	OwnerID  string    `json:"owner_id"`
	Owner    bool      `json:"owner"`
	Features []string  `json:"features"`
	Roles    []Role    `json:"roles"`
	Channels []Channel `json:"channels"`
}

// GuildInfo is guild metadata as seen by the bot
type GuildInfo struct {
	ID       string
	Name     string
	Icon     string
	OwnerID  string
	Features []string
}
