package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers
const (
	DriverMongo     = "mongo"
	DriverSurrealDB = "surrealdb"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Discord   DiscordConfig
	Database  DatabaseConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
	Modules   ModulesConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           string
	Env            string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
	TrustProxy     bool
}

// DiscordConfig holds the OAuth application and bot credentials
type DiscordConfig struct {
	ClientID        string
	ClientSecret    string
	RedirectURI     string
	BotToken        string
	APIURL          string
	CDNURL          string
	UpstreamTimeout time.Duration
}

// DatabaseConfig selects and configures the document store
type DatabaseConfig struct {
	Driver  string
	Mongo   MongoConfig
	Surreal SurrealConfig
}

// MongoConfig holds MongoDB connection settings
type MongoConfig struct {
	URL        string
	Database   string
	Collection string
}

// SurrealConfig holds SurrealDB connection settings
type SurrealConfig struct {
	Host      string
	Port      string
	Namespace string
	Database  string
	User      string
	Password  string
}

// SessionConfig holds the signed cookie settings used for OAuth state
type SessionConfig struct {
	Secret string
}

// RateLimitConfig holds per-client request limits
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// ModulesConfig tunes module writes
type ModulesConfig struct {
	WriteRetries int
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is applied first when present;
// variables already set in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	return &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8000"),
			Env:            getEnv("SERVER_ENV", "development"),
			ReadTimeout:    getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			AllowedOrigins: getSliceEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			TrustProxy:     getBoolEnv("TRUST_PROXY", false),
		},
		Discord: DiscordConfig{
			ClientID:        getEnv("DISCORD_CLIENT_ID", ""),
			ClientSecret:    getEnv("DISCORD_CLIENT_SECRET", ""),
			RedirectURI:     getEnv("DISCORD_REDIRECT_URI", ""),
			BotToken:        getEnv("DISCORD_BOT_TOKEN", ""),
			APIURL:          getEnv("DISCORD_API_URL", "https://discord.com/api/v10"),
			CDNURL:          getEnv("DISCORD_CDN_URL", "https://cdn.discordapp.com"),
			UpstreamTimeout: getDurationEnv("UPSTREAM_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Driver: getEnv("DB_DRIVER", DriverMongo),
			Mongo: MongoConfig{
				URL:        getEnv("MONGO_URL", "mongodb://localhost:27017"),
				Database:   getEnv("MONGO_DATABASE", "guildpanel"),
				Collection: getEnv("MONGO_COLLECTION", "guilds"),
			},
			Surreal: SurrealConfig{
				Host:      getEnv("SURREAL_HOST", "localhost"),
				Port:      getEnv("SURREAL_PORT", "8001"),
				Namespace: getEnv("SURREAL_NAMESPACE", "guildpanel"),
				Database:  getEnv("SURREAL_DATABASE", "main"),
				User:      getEnv("SURREAL_USER", "root"),
				Password:  getEnv("SURREAL_PASSWORD", "root"),
			},
		},
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", ""),
		},
		RateLimit: RateLimitConfig{
			RPS:   getFloatEnv("RATE_LIMIT_RPS", 10),
			Burst: getIntEnv("RATE_LIMIT_BURST", 30),
		},
		Modules: ModulesConfig{
			WriteRetries: getIntEnv("MODULE_WRITE_RETRIES", 5),
		},
	}, nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	// Server validation
	if c.Server.Port == "" {
		errs = append(errs, errors.New("SERVER_PORT is required"))
	}
	if c.Server.Env != "development" && c.Server.Env != "production" && c.Server.Env != "test" {
		errs = append(errs, fmt.Errorf("SERVER_ENV must be 'development', 'production', or 'test', got '%s'", c.Server.Env))
	}
	if len(c.Server.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS must have at least one origin"))
	}

	// Discord validation
	if err := c.Discord.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("Discord: %w", err))
	}
	if c.Discord.UpstreamTimeout <= 0 {
		errs = append(errs, errors.New("UPSTREAM_TIMEOUT must be positive"))
	}

	// Database validation
	switch c.Database.Driver {
	case DriverMongo:
		if c.Database.Mongo.URL == "" {
			errs = append(errs, errors.New("MONGO_URL is required"))
		}
		if c.Database.Mongo.Database == "" {
			errs = append(errs, errors.New("MONGO_DATABASE is required"))
		}
		if c.Database.Mongo.Collection == "" {
			errs = append(errs, errors.New("MONGO_COLLECTION is required"))
		}
	case DriverSurrealDB:
		if c.Database.Surreal.Host == "" {
			errs = append(errs, errors.New("SURREAL_HOST is required"))
		}
		if c.Database.Surreal.Port == "" {
			errs = append(errs, errors.New("SURREAL_PORT is required"))
		}
		if c.Database.Surreal.Namespace == "" {
			errs = append(errs, errors.New("SURREAL_NAMESPACE is required"))
		}
		if c.Database.Surreal.Database == "" {
			errs = append(errs, errors.New("SURREAL_DATABASE is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be '%s' or '%s', got '%s'", DriverMongo, DriverSurrealDB, c.Database.Driver))
	}

	// Session secret signs the OAuth state cookie
	if c.IsProduction() && len(c.Session.Secret) < 32 {
		errs = append(errs, errors.New("SESSION_SECRET must be at least 32 characters in production"))
	}

	if c.RateLimit.RPS <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS must be positive"))
	}
	if c.RateLimit.Burst <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_BURST must be positive"))
	}
	if c.Modules.WriteRetries <= 0 {
		errs = append(errs, errors.New("MODULE_WRITE_RETRIES must be positive"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Validate checks that all required Discord fields are present
func (d DiscordConfig) Validate() error {
	var missing []string
	if d.ClientID == "" {
		missing = append(missing, "DISCORD_CLIENT_ID")
	}
	if d.ClientSecret == "" {
		missing = append(missing, "DISCORD_CLIENT_SECRET")
	}
	if d.RedirectURI == "" {
		missing = append(missing, "DISCORD_REDIRECT_URI")
	}
	if d.BotToken == "" {
		missing = append(missing, "DISCORD_BOT_TOKEN")
	}
	if d.APIURL == "" {
		missing = append(missing, "DISCORD_API_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return defaultValue
}
