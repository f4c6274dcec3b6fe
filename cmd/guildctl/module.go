package main

import (
	"fmt"
	"os"

	"github.com/forgo/guildpanel/internal/model"
	"github.com/forgo/guildpanel/internal/service"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newModuleCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "module",
		Short: "Read or write a single module",
	}
	cmd.AddCommand(newModuleGetCmd(opts), newModuleSetCmd(opts))
	return cmd
}

func newModuleGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get GUILD_ID MODULE_ID",
		Short: "Show one module",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd.Context(), func(svc *service.GuildConfigService) error {
				m, err := svc.GetModule(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				return opts.print(cmd.OutOrStdout(), m)
			})
		},
	}
}

func newModuleSetCmd(opts *rootOptions) *cobra.Command {
	var (
		enabled      bool
		settingsFile string
	)

	cmd := &cobra.Command{
		Use:   "set GUILD_ID MODULE_ID",
		Short: "Insert or replace one module",
		Long: `Insert or replace one module in an existing guild configuration.
Settings are read from a YAML or JSON file holding a mapping.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			module := model.Module{ID: args[1], Enabled: enabled, Settings: map[string]interface{}{}}
			if settingsFile != "" {
				if err := readYAMLFile(settingsFile, &module.Settings); err != nil {
					return err
				}
			}

			return opts.withService(cmd.Context(), func(svc *service.GuildConfigService) error {
				cfg, err := svc.UpsertModule(cmd.Context(), args[0], module)
				if err != nil {
					return err
				}
				return opts.print(cmd.OutOrStdout(), cfg)
			})
		},
	}
	cmd.Flags().BoolVar(&enabled, "enabled", false, "Enable the module")
	cmd.Flags().StringVarP(&settingsFile, "settings", "s", "", "YAML or JSON file with module settings")
	return cmd
}

// readYAMLFile decodes path into v. JSON is valid YAML, so both work.
func readYAMLFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
