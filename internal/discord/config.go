package discord

import (
	"time"

	"github.com/forgo/guildpanel/internal/config"
)

// DefaultTimeout bounds each upstream call when Config.Timeout is unset
const DefaultTimeout = 10 * time.Second

// Config holds the Discord application settings used by Client and OAuth
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	BotToken     string
	APIURL       string
	CDNURL       string
	Timeout      time.Duration
}

// ConfigFrom maps application configuration onto Config
func ConfigFrom(cfg config.DiscordConfig) Config {
	return Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURI:  cfg.RedirectURI,
		BotToken:     cfg.BotToken,
		APIURL:       cfg.APIURL,
		CDNURL:       cfg.CDNURL,
		Timeout:      cfg.UpstreamTimeout,
	}
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}
