// Package store persists mind maps by id.
//
// # Backends
//
// A [Store] saves opaque snapshot documents (see package snapshot) under a
// map id. Backends:
//
//   - memory: process-local, for tests and ephemeral servers
//   - file: one JSON file per map under a directory
//   - sqlite: a single table in a SQLite database (pure Go driver)
//   - redis: a hash per map plus a sorted index by update time
//   - mongo: one document per map in a MongoDB collection
//
// Use [Open] to construct a backend from a [Config]. Every backend returned
// by Open is wrapped so that loads and saves are reported to the
// observability store hooks.
//
// All backends are safe for concurrent use.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/mindmap/pkg/mindmap"
	"github.com/matzehuels/mindmap/pkg/snapshot"
)

// ErrNotFound is returned when a requested map does not exist.
var ErrNotFound = errors.New("map not found")

// Record is a stored map.
type Record struct {
	ID        string
	Name      string
	Data      []byte // snapshot document
	UpdatedAt time.Time
}

// Info describes a stored map without its data.
type Info struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store persists map records.
type Store interface {
	// Get returns the record for id or ErrNotFound.
	Get(ctx context.Context, id string) (Record, error)

	// Put creates or replaces a record. A zero UpdatedAt is set to now.
	Put(ctx context.Context, rec Record) error

	// Delete removes a record. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error

	// List returns all records, most recently updated first.
	List(ctx context.Context) ([]Info, error)

	// Close releases resources held by the store.
	Close() error
}

// prepare validates rec and normalizes its timestamp to millisecond UTC so
// that every backend round-trips it exactly.
func prepare(rec Record) (Record, error) {
	if rec.ID == "" {
		return Record{}, fmt.Errorf("record id is required")
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}
	rec.UpdatedAt = rec.UpdatedAt.UTC().Truncate(time.Millisecond)
	return rec, nil
}

func (r Record) info() Info {
	return Info{ID: r.ID, Name: r.Name, UpdatedAt: r.UpdatedAt}
}

// Load fetches and decodes a map.
func Load(ctx context.Context, s Store, id string) (*mindmap.Map, Record, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, Record{}, err
	}
	m, err := snapshot.Unmarshal(rec.Data)
	if err != nil {
		return nil, Record{}, fmt.Errorf("decode map %s: %w", id, err)
	}
	return m, rec, nil
}

// Save encodes m and stores it under id.
func Save(ctx context.Context, s Store, id, name string, m *mindmap.Map) error {
	data, err := snapshot.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode map %s: %w", id, err)
	}
	return s.Put(ctx, Record{ID: id, Name: name, Data: data})
}
