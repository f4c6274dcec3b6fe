// Package model defines the data shapes of the guildpanel API.
//
// # Discord Shapes
//
// discord.go holds the views of Discord data the API returns:
//
//   - UserProfile: the signed-in user
//   - GuildMembership: one entry of a user's or the bot's guild list,
//     carrying the permission bitfield as a decimal string
//   - ServerDetails: guild metadata, roles and channels for the dashboard
//
// GuildMembership.CanManage tests the MANAGE_GUILD bit (0x20):
//
//	ok, err := membership.CanManage()
//	if err != nil {
//	    // malformed permissions string
//	}
//
// # Guild Configuration
//
// guild_config.go holds the persisted GuildConfig document and its Module
// entries. MergeModule implements upsert-by-id on a module list without
// mutating the input.
//
// # Error Types
//
// RFC 9457 Problem Details errors are defined in errors.go:
//
//	type ProblemDetails struct {
//	    Type    string    `json:"type"`
//	    Title   string    `json:"title"`
//	    Status  int       `json:"status"`
//	    Detail  string    `json:"detail"`
//	}
package model
