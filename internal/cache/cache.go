// Package cache memoizes validated event-log record streams.
//
// Parsing and schema-validating a large logic file dominates load time, so
// the loader stores the validated record stream keyed by WAD and phase, and
// invalidates it when the source file's modification time changes. The cache
// is pure memoization: a miss or a disabled cache is always correct, just
// slower.
package cache

import (
	"context"
	"time"
)

// Record is one validated event record: the kind tag and its raw JSON
// payload, ready to be replayed into the model.
type Record struct {
	Kind    string
	Payload []byte
}

// Cache stores record streams per source key. sourceTime is the source
// file's modification time; a stored entry with a different time is a miss.
type Cache interface {
	Load(ctx context.Context, key string, sourceTime time.Time) ([]Record, bool, error)
	Store(ctx context.Context, key string, sourceTime time.Time, records []Record) error
	Close() error
}

// entry is the serialized cache payload.
type entry struct {
	SourceTime time.Time
	Records    []Record
}

// Nop is the disabled cache: every load misses, every store succeeds.
type Nop struct{}

func (Nop) Load(context.Context, string, time.Time) ([]Record, bool, error) {
	return nil, false, nil
}

func (Nop) Store(context.Context, string, time.Time, []Record) error { return nil }
func (Nop) Close() error                                             { return nil }
