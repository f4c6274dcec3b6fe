// Command guildctl inspects and edits stored guild module configuration
// directly, without going through Discord authorization. It is meant for
// operators with access to the document store.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/forgo/guildpanel/internal/config"
	"github.com/forgo/guildpanel/internal/repository"
	"github.com/forgo/guildpanel/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(openService).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// openService connects to the store named by the environment
func openService(ctx context.Context) (*service.GuildConfigService, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	store, err := repository.Open(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", cfg.Database.Driver, err)
	}

	svc := service.NewGuildConfigService(service.GuildConfigServiceConfig{
		Repo:       store.Repo,
		MaxRetries: cfg.Modules.WriteRetries,
	})
	return svc, func() { _ = store.Close() }, nil
}
