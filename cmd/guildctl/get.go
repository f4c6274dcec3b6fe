package main

import (
	"github.com/forgo/guildpanel/internal/service"
	"github.com/spf13/cobra"
)

func newGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get GUILD_ID",
		Short: "Show a guild's configuration, creating an empty one if missing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd.Context(), func(svc *service.GuildConfigService) error {
				cfg, err := svc.GetOrCreate(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return opts.print(cmd.OutOrStdout(), cfg)
			})
		},
	}
}
