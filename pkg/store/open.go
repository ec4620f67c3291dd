package store

import (
	"context"
	"fmt"
)

// Backend names accepted by [Open].
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config selects and configures a backend.
type Config struct {
	Backend string `toml:"backend"`

	// Path is the directory (file) or database file (sqlite).
	Path string `toml:"path"`

	// URL is the connection string (redis, mongo).
	URL string `toml:"url"`

	// Prefix namespaces redis keys.
	Prefix string `toml:"prefix"`

	// Database and Collection name the mongo collection.
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Open creates the configured backend wrapped with [Instrument].
// An empty backend selects memory.
func Open(ctx context.Context, cfg Config) (*Instrumented, error) {
	var (
		s   Store
		err error
	)
	backend := cfg.Backend
	if backend == "" {
		backend = BackendMemory
	}

	switch backend {
	case BackendMemory:
		s = NewMemoryStore()
	case BackendFile:
		if cfg.Path == "" {
			return nil, fmt.Errorf("file store requires a path")
		}
		s, err = NewFileStore(cfg.Path)
	case BackendSQLite:
		if cfg.Path == "" {
			return nil, fmt.Errorf("sqlite store requires a path")
		}
		s, err = NewSQLiteStore(cfg.Path)
	case BackendRedis:
		s, err = NewRedisStore(ctx, cfg.URL, cfg.Prefix)
	case BackendMongo:
		if cfg.URL == "" {
			return nil, fmt.Errorf("mongo store requires a url")
		}
		s, err = NewMongoStore(ctx, cfg.URL, cfg.Database, cfg.Collection)
	default:
		return nil, fmt.Errorf("unknown store backend: %s (must be one of: memory, file, sqlite, redis, mongo)", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", backend, err)
	}
	return Instrument(s, backend), nil
}
