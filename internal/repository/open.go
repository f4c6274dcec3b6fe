package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/forgo/guildpanel/internal/config"
	"github.com/forgo/guildpanel/internal/database"
)

// Store is an opened guild config store
type Store struct {
	Repo   GuildConfigRepository
	Pinger database.Pinger
	Close  func() error
}

// Open connects the configured driver, prepares its schema or indexes and
// returns the guild config repository on top of it
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	switch cfg.Driver {
	case config.DriverSurrealDB:
		db := database.NewSurrealDB(database.Config{
			Host:      cfg.Surreal.Host,
			Port:      cfg.Surreal.Port,
			User:      cfg.Surreal.User,
			Password:  cfg.Surreal.Password,
			Namespace: cfg.Surreal.Namespace,
			Database:  cfg.Surreal.Database,
		})
		if err := db.Connect(ctx); err != nil {
			return nil, err
		}
		if err := db.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &Store{Repo: NewSurrealGuildConfigRepository(db), Pinger: db, Close: db.Close}, nil

	case config.DriverMongo:
		db := database.NewMongo(database.MongoConfig{
			URL:        cfg.Mongo.URL,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
		if err := db.Connect(ctx); err != nil {
			return nil, err
		}
		if err := db.EnsureIndexes(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &Store{Repo: NewMongoGuildConfigRepository(db.Collection()), Pinger: db, Close: db.Close}, nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
