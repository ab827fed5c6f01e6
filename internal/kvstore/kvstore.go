// Package kvstore provides the persistent key-value contract used by the
// override store, the request ledger and the maintenance records.
package kvstore

import (
	"context"
	"fmt"

	"github.com/stwalsh4118/plotpilot/api/internal/config"
	"github.com/stwalsh4118/plotpilot/api/internal/database"
)

// Store is a string-valued key-value store.
type Store interface {
	// Get returns the value stored under key. ok is false when the key is
	// absent; that is not an error.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// Ping checks that the backing store is reachable.
	Ping(ctx context.Context) error

	// Close releases resources held by the store.
	Close() error
}

// Open constructs the store selected by cfg.Driver. db is only consulted
// for the postgres driver and may be nil otherwise.
func Open(ctx context.Context, cfg config.StoreConfig, db *database.Database) (Store, error) {
	switch cfg.Driver {
	case config.StoreMemory:
		return NewMemory(), nil
	case config.StoreSQLite:
		return NewSQLite(ctx, cfg.SQLitePath)
	case config.StorePostgres:
		if db == nil {
			return nil, fmt.Errorf("postgres store requires a database connection")
		}
		return NewPostgres(ctx, db)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
