package discord

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/forgo/guildpanel/internal/model"
)

// AvatarURL returns the CDN URL of a user's avatar. Users without a custom
// avatar get Discord's default avatar instead of a URL built from an empty hash.
func AvatarURL(cdnURL, userID, avatar, discriminator string) string {
	base := strings.TrimRight(cdnURL, "/")
	if avatar != "" {
		return fmt.Sprintf("%s/avatars/%s/%s.png", base, userID, avatar)
	}
	return fmt.Sprintf("%s/embed/avatars/%d.png", base, defaultAvatarIndex(userID, discriminator))
}

// defaultAvatarIndex follows Discord's rule: migrated usernames
// (discriminator "0") index by (id >> 22) % 6, legacy ones by discriminator % 5.
func defaultAvatarIndex(userID, discriminator string) uint64 {
	if discriminator != "" && discriminator != "0" {
		if d, err := strconv.ParseUint(discriminator, 10, 64); err == nil {
			return d % 5
		}
	}
	id, err := strconv.ParseUint(userID, 10, 64)
	if err != nil {
		return 0
	}
	return (id >> 22) % 6
}

func toUserProfile(u *discordgo.User, cdnURL string) *model.UserProfile {
	p := &model.UserProfile{
		ID:            u.ID,
		Username:      u.Username,
		GlobalName:    u.GlobalName,
		Discriminator: u.Discriminator,
		AvatarURL:     AvatarURL(cdnURL, u.ID, u.Avatar, u.Discriminator),
	}
	if u.Avatar != "" {
		avatar := u.Avatar
		p.Avatar = &avatar
	}
	return p
}
