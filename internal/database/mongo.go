package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Mongo holds a MongoDB client and the guild config collection
type Mongo struct {
	client *mongo.Client
	config MongoConfig
}

// NewMongo creates a new Mongo instance
func NewMongo(cfg MongoConfig) *Mongo {
	return &Mongo{
		config: cfg,
	}
}

// Connect opens the client and verifies the primary is reachable
func (m *Mongo) Connect(ctx context.Context) error {
	// Embedded documents decode as maps so module settings serialize as JSON objects
	opts := options.Client().
		ApplyURI(m.config.URL).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("%w: ping failed: %v", ErrConnection, err)
	}

	m.client = client
	return nil
}

// EnsureIndexes creates the unique guild_id index that makes
// get-or-create safe under concurrent first access.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	if m.client == nil {
		return ErrConnection
	}

	_, err := m.Collection().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "guild_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("guild_id_unique"),
	})
	if err != nil {
		return fmt.Errorf("%w: create index: %v", ErrQuery, err)
	}
	return nil
}

// Collection returns the guild config collection
func (m *Mongo) Collection() *mongo.Collection {
	return m.client.Database(m.config.Database).Collection(m.config.Collection)
}

// Close disconnects the client
func (m *Mongo) Close() error {
	if m.client != nil {
		return m.client.Disconnect(context.Background())
	}
	return nil
}

// Ping checks the primary is reachable
func (m *Mongo) Ping(ctx context.Context) error {
	if m.client == nil {
		return ErrConnection
	}
	if err := m.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return nil
}

// WrapMongoError maps driver errors onto the package sentinels
func WrapMongoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	case mongo.IsNetworkError(err) || mongo.IsTimeout(err):
		return fmt.Errorf("%w: %v", ErrConnection, err)
	default:
		return fmt.Errorf("%w: %v", ErrQuery, err)
	}
}
