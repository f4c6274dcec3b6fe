package database

import (
	"context"
	"errors"
)

// Standard errors for database operations.
// Use errors.Is() to check these error types in calling code.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate indicates a unique constraint violation (e.g. a second
	// config document for the same guild).
	ErrDuplicate = errors.New("duplicate record")

	// ErrConflict indicates a conditional write lost against a concurrent one.
	ErrConflict = errors.New("write conflict")

	// ErrConnection indicates a failure to connect to or communicate with the database.
	ErrConnection = errors.New("database connection error")

	// ErrQuery indicates a query execution failure (syntax error, invalid reference, etc.).
	ErrQuery = errors.New("query error")
)

// Pinger is implemented by every store backend and is used for health checks
type Pinger interface {
	Ping(ctx context.Context) error
}

// Database defines the query interface for SurrealDB-backed repositories
type Database interface {
	Pinger

	// Connection management
	Connect(ctx context.Context) error
	Close() error

	// Query executes a query and returns results
	Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error)

	// QueryOne executes a query and returns a single result
	QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error)

	// Execute runs a query without returning results (for mutations)
	Execute(ctx context.Context, query string, vars map[string]interface{}) error
}

// Config holds SurrealDB connection settings
type Config struct {
	Host      string
	Port      string
	User      string
	Password  string
	Namespace string
	Database  string
}

// MongoConfig holds MongoDB connection settings
type MongoConfig struct {
	URL        string
	Database   string
	Collection string
}
