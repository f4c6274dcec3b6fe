package main

import (
	"errors"
	"fmt"

	"github.com/forgo/guildpanel/internal/model"
	"github.com/forgo/guildpanel/internal/service"
	"github.com/spf13/cobra"
)

func newModulesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "modules",
		Short: "Operate on the whole module list",
	}
	cmd.AddCommand(newModulesReplaceCmd(opts))
	return cmd
}

func newModulesReplaceCmd(opts *rootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "replace GUILD_ID -f FILE",
		Short: "Replace a guild's module list with the list in FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return errors.New("--file is required")
			}

			var modules []model.Module
			if err := readYAMLFile(file, &modules); err != nil {
				return err
			}
			if modules == nil {
				return fmt.Errorf("%s holds no module list", file)
			}

			return opts.withService(cmd.Context(), func(svc *service.GuildConfigService) error {
				cfg, err := svc.ReplaceModules(cmd.Context(), args[0], modules)
				if err != nil {
					return err
				}
				return opts.print(cmd.OutOrStdout(), cfg)
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML or JSON file with a list of modules")
	return cmd
}
