package db

import (
	"context"
)

// Database is a whole-snapshot store. There is no record-level transaction
// support: Update serializes every read-modify-write against a single writer
// lock and persists the full snapshot before returning, so two racing
// mutations can never produce a lost update.
type Database interface {
	// View runs fn against the current snapshot. fn must not mutate it.
	// All reads within one View call see a single consistent snapshot;
	// nothing is guaranteed across two View calls.
	View(ctx context.Context, fn func(s *Snapshot) error) error
	// Update runs fn against a working copy of the snapshot and persists
	// the result. If fn or persistence fails, the durable state and the
	// in-memory state are both left untouched. Published snapshots are
	// never mutated in place, so records obtained under View stay valid
	// (and frozen) after the call returns.
	Update(ctx context.Context, fn func(s *Snapshot) error) error
	Close() error
}
