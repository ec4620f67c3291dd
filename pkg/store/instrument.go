package store

import (
	"context"
	"time"

	"github.com/matzehuels/mindmap/pkg/observability"
)

// Instrumented reports Get and Put calls of the wrapped store to the
// observability store hooks.
type Instrumented struct {
	Store
	backend string
}

// Instrument wraps s; backend names it in hook events.
func Instrument(s Store, backend string) *Instrumented {
	return &Instrumented{Store: s, backend: backend}
}

// Backend returns the backend name.
func (s *Instrumented) Backend() string { return s.backend }

func (s *Instrumented) Get(ctx context.Context, id string) (Record, error) {
	start := time.Now()
	rec, err := s.Store.Get(ctx, id)
	observability.Store().OnLoad(ctx, s.backend, id, time.Since(start), err)
	return rec, err
}

func (s *Instrumented) Put(ctx context.Context, rec Record) error {
	start := time.Now()
	err := s.Store.Put(ctx, rec)
	observability.Store().OnSave(ctx, s.backend, rec.ID, len(rec.Data), time.Since(start), err)
	return err
}

var _ Store = (*Instrumented)(nil)
