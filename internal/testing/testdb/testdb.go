// Package testdb provides isolated store environments for integration tests.
//
// Each helper skips the calling test unless its backend is configured:
//
//	TEST_SURREAL_HOST / TEST_SURREAL_PORT / TEST_SURREAL_USER / TEST_SURREAL_PASSWORD
//	TEST_MONGO_URL
//
// Usage:
//
//	func TestSomething(t *testing.T) {
//	    tdb := testdb.NewMongo(t)
//	    defer tdb.Close()
//
//	    repo := repository.NewMongoGuildConfigRepository(tdb.Mongo.Collection())
//	}
package testdb

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/forgo/guildpanel/internal/database"
)

var (
	// counterMu protects the namespace counter
	counterMu sync.Mutex
	counter   int64
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// uniqueName generates a unique namespace or database name for test isolation
func uniqueName() string {
	counterMu.Lock()
	defer counterMu.Unlock()
	counter++
	return fmt.Sprintf("test_%d_%d", time.Now().UnixNano(), counter)
}

// Surreal is an isolated SurrealDB namespace.
type Surreal struct {
	DB        *database.SurrealDB
	Namespace string
	t         *testing.T
}

// NewSurreal connects to SurrealDB in a fresh namespace with the schema applied.
// The test is skipped when TEST_SURREAL_HOST is unset.
func NewSurreal(t *testing.T) *Surreal {
	t.Helper()

	host := os.Getenv("TEST_SURREAL_HOST")
	if host == "" {
		t.Skip("TEST_SURREAL_HOST not set; skipping SurrealDB integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	namespace := uniqueName()
	db := database.NewSurrealDB(database.Config{
		Host:      host,
		Port:      envOr("TEST_SURREAL_PORT", "8001"),
		User:      envOr("TEST_SURREAL_USER", "root"),
		Password:  envOr("TEST_SURREAL_PASSWORD", "root"),
		Namespace: namespace,
		Database:  "test",
	})
	if err := db.Connect(ctx); err != nil {
		t.Fatalf("testdb: failed to connect: %v", err)
	}
	if err := db.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		t.Fatalf("testdb: failed to apply schema: %v", err)
	}

	return &Surreal{DB: db, Namespace: namespace, t: t}
}

// Close removes the test namespace and closes the connection.
func (s *Surreal) Close() {
	if s.DB == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = s.DB.Execute(ctx, fmt.Sprintf("REMOVE NAMESPACE %s", s.Namespace), nil)
	_ = s.DB.Close()
}

// Mongo is an isolated MongoDB database.
type Mongo struct {
	Mongo    *database.Mongo
	Database string
	t        *testing.T
}

// NewMongo connects to MongoDB using a fresh database with indexes created.
// The test is skipped when TEST_MONGO_URL is unset.
func NewMongo(t *testing.T) *Mongo {
	t.Helper()

	url := os.Getenv("TEST_MONGO_URL")
	if url == "" {
		t.Skip("TEST_MONGO_URL not set; skipping MongoDB integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbName := uniqueName()
	m := database.NewMongo(database.MongoConfig{
		URL:        url,
		Database:   dbName,
		Collection: "guilds",
	})
	if err := m.Connect(ctx); err != nil {
		t.Fatalf("testdb: failed to connect: %v", err)
	}
	if err := m.EnsureIndexes(ctx); err != nil {
		_ = m.Close()
		t.Fatalf("testdb: failed to create indexes: %v", err)
	}

	return &Mongo{Mongo: m, Database: dbName, t: t}
}

// Close drops the test database and disconnects.
func (m *Mongo) Close() {
	if m.Mongo == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = m.Mongo.Collection().Database().Drop(ctx)
	_ = m.Mongo.Close()
}

// Ctx returns a context with a reasonable timeout for test operations.
func Ctx(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}
