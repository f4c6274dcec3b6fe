package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/forgo/guildpanel/internal/database"
	"github.com/forgo/guildpanel/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoGuildConfigRepository stores guild configs in a MongoDB collection
// with a unique index on guild_id.
type MongoGuildConfigRepository struct {
	coll *mongo.Collection
}

// NewMongoGuildConfigRepository creates a new MongoDB guild config repository
func NewMongoGuildConfigRepository(coll *mongo.Collection) *MongoGuildConfigRepository {
	return &MongoGuildConfigRepository{coll: coll}
}

// GetOrCreate upserts an empty config with $setOnInsert so an existing
// document is returned untouched. Two concurrent upserts can both miss and
// race on the unique index; the loser reads the winner's document.
func (r *MongoGuildConfigRepository) GetOrCreate(ctx context.Context, guildID string) (*model.GuildConfig, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$setOnInsert": bson.M{
			"modules":    bson.A{},
			"version":    int64(0),
			"created_on": now,
			"updated_on": now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var cfg model.GuildConfig
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"guild_id": guildID}, update, opts).Decode(&cfg)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			existing, getErr := r.GetByGuildID(ctx, guildID)
			if getErr != nil {
				return nil, getErr
			}
			if existing == nil {
				return nil, fmt.Errorf("%w: config for guild %s vanished after duplicate key", database.ErrQuery, guildID)
			}
			return existing, nil
		}
		return nil, database.WrapMongoError(err)
	}

	return normalizeConfig(&cfg), nil
}

// GetByGuildID retrieves a guild config
func (r *MongoGuildConfigRepository) GetByGuildID(ctx context.Context, guildID string) (*model.GuildConfig, error) {
	var cfg model.GuildConfig
	err := r.coll.FindOne(ctx, bson.M{"guild_id": guildID}).Decode(&cfg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, database.WrapMongoError(err)
	}
	return normalizeConfig(&cfg), nil
}

// UpdateModules writes modules conditioned on the stored version
func (r *MongoGuildConfigRepository) UpdateModules(ctx context.Context, guildID string, expectedVersion int64, modules []model.Module) (*model.GuildConfig, error) {
	filter := bson.M{"guild_id": guildID, "version": expectedVersion}

	cfg, err := r.writeModules(ctx, filter, modules)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, database.ErrConflict
	}
	return cfg, nil
}

// ReplaceModules overwrites the modules list
func (r *MongoGuildConfigRepository) ReplaceModules(ctx context.Context, guildID string, modules []model.Module) (*model.GuildConfig, error) {
	return r.writeModules(ctx, bson.M{"guild_id": guildID}, modules)
}

// writeModules sets modules on the document matching filter, bumping the
// version. Returns nil when nothing matched.
func (r *MongoGuildConfigRepository) writeModules(ctx context.Context, filter bson.M, modules []model.Module) (*model.GuildConfig, error) {
	if modules == nil {
		modules = []model.Module{}
	}
	update := bson.M{
		"$set": bson.M{
			"modules":    modules,
			"updated_on": time.Now().UTC(),
		},
		"$inc": bson.M{"version": int64(1)},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var cfg model.GuildConfig
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&cfg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, database.WrapMongoError(err)
	}
	return normalizeConfig(&cfg), nil
}
