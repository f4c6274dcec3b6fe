package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/forgo/guildpanel/internal/service"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Output formats
const (
	outputYAML = "yaml"
	outputJSON = "json"
)

// serviceOpener yields a guild config service and a func releasing it
type serviceOpener func(ctx context.Context) (*service.GuildConfigService, func(), error)

type rootOptions struct {
	open   serviceOpener
	output string
}

// newRootCmd builds the command tree. open is injected so tests can run
// commands against an in-memory store.
func newRootCmd(open serviceOpener) *cobra.Command {
	opts := &rootOptions{open: open}

	cmd := &cobra.Command{
		Use:   "guildctl",
		Short: "Inspect and edit guild module configuration",
		Long: `guildctl reads and writes the per-guild module configuration stored by
the dashboard API. The store is selected with the same environment
variables as the server (DB_DRIVER, MONGO_URL, SURREAL_HOST, ...).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != outputYAML && opts.output != outputJSON {
				return fmt.Errorf("unsupported output format %q (use %s or %s)", opts.output, outputYAML, outputJSON)
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", outputYAML, "Output format (yaml|json)")

	cmd.AddCommand(
		newGetCmd(opts),
		newModuleCmd(opts),
		newModulesCmd(opts),
	)
	return cmd
}

// withService opens the store for the duration of fn
func (o *rootOptions) withService(ctx context.Context, fn func(svc *service.GuildConfigService) error) error {
	svc, release, err := o.open(ctx)
	if err != nil {
		return err
	}
	defer release()
	return fn(svc)
}

// print writes v in the selected format
func (o *rootOptions) print(w io.Writer, v interface{}) error {
	if o.output == outputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
