// Package jsonfile implements db.Database on a single JSON snapshot file.
//
// The store favors availability over strictness: a missing or corrupt file
// is replaced with a fresh empty snapshot at load time instead of failing
// the process. Durability is whole-file: every Update rewrites the snapshot
// through a temp file + rename so a failed write never clobbers the
// previously durable state.
package jsonfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/openwall/openwall-be/db"
	"github.com/openwall/openwall-be/monitoring"
)

const defaultSaveTimeout = 5 * time.Second

type JSONFileDB struct {
	path string

	// mu serializes all read-modify-write sequences. This is the one
	// correctness-critical lock in the system: without it two racing
	// votes (or a vote racing a delete) lose updates.
	mu       sync.RWMutex
	snapshot *db.Snapshot

	// writeMu guards the generation counters and the rename itself. A
	// write that outlives its timeout is marked abandoned; if it later
	// unsticks it must discard its temp file instead of renaming over
	// state a newer update already made durable.
	writeMu      sync.Mutex
	writeSeq     uint64
	abandonedGen uint64

	saveTimeout time.Duration
	logger      *log.Entry
}

// GetDatabase opens (or initializes) the snapshot file at path.
func GetDatabase(path string) (*JSONFileDB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "creating data directory")
	}
	jdb := &JSONFileDB{
		path:        path,
		saveTimeout: defaultSaveTimeout,
		logger:      log.WithField("component", "jsonfile"),
	}
	jdb.snapshot = jdb.load()
	// Persist immediately so a self-healed (or brand new) snapshot is
	// durable before the first request touches it.
	if err := jdb.persist(context.Background(), jdb.snapshot); err != nil {
		return nil, err
	}
	return jdb, nil
}

// load never fails the caller: absent or unparsable files yield a fresh
// empty snapshot. Callers can detect an unexpected reset via the aggregate
// counts if they need to.
func (jdb *JSONFileDB) load() *db.Snapshot {
	raw, err := os.ReadFile(jdb.path)
	if err != nil {
		if !os.IsNotExist(err) {
			jdb.logger.WithError(err).Warn("unreadable snapshot file, reinitializing")
		}
		return db.NewSnapshot()
	}
	snapshot := &db.Snapshot{}
	if err := json.Unmarshal(raw, snapshot); err != nil {
		jdb.logger.WithError(err).Warn("corrupt snapshot file, reinitializing")
		return db.NewSnapshot()
	}
	snapshot.Normalize()
	return snapshot
}

func (jdb *JSONFileDB) View(ctx context.Context, fn func(s *db.Snapshot) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	jdb.mu.RLock()
	defer jdb.mu.RUnlock()
	return fn(jdb.snapshot)
}

func (jdb *JSONFileDB) Update(ctx context.Context, fn func(s *db.Snapshot) error) error {
	jdb.mu.Lock()
	defer jdb.mu.Unlock()

	work, err := clone(jdb.snapshot)
	if err != nil {
		return err
	}
	if err := fn(work); err != nil {
		return err
	}
	if err := jdb.persist(ctx, work); err != nil {
		return err
	}
	jdb.snapshot = work
	return nil
}

func (jdb *JSONFileDB) Close() error {
	return nil
}

// persist writes the snapshot to a temp file and renames it over the live
// one. The write is bounded: a wedged disk surfaces as a failed operation
// rather than a stuck request.
func (jdb *JSONFileDB) persist(ctx context.Context, snapshot *db.Snapshot) error {
	jdb.writeMu.Lock()
	jdb.writeSeq++
	gen := jdb.writeSeq
	jdb.writeMu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- jdb.write(snapshot, gen)
	}()

	timeout := jdb.saveTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		jdb.writeMu.Lock()
		if gen > jdb.abandonedGen {
			jdb.abandonedGen = gen
		}
		jdb.writeMu.Unlock()
		jdb.logger.Error("snapshot write timed out")
		return errors.New("snapshot write timed out")
	}
}

func (jdb *JSONFileDB) write(snapshot *db.Snapshot, gen uint64) error {
	raw, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling snapshot")
	}
	// unique temp name: a write that outlives its timeout must not clobber
	// the temp file of the write that superseded it
	tmp := jdb.path + ".tmp." + uuid.NewString()
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return errors.Wrap(err, "writing snapshot temp file")
	}

	jdb.writeMu.Lock()
	defer jdb.writeMu.Unlock()
	if gen <= jdb.abandonedGen {
		// the caller was already told this write failed; its content must
		// never reach the live file
		if err := os.Remove(tmp); err != nil {
			jdb.logger.WithError(err).Warn("could not remove stale temp file")
		}
		return errors.New("snapshot write abandoned")
	}
	if err := os.Rename(tmp, jdb.path); err != nil {
		return errors.Wrap(err, "replacing snapshot file")
	}
	monitoring.SnapshotWrites.Inc()
	return nil
}

// clone deep-copies via the same codec used on disk, so an Update whose fn
// fails leaves zero trace in memory.
func clone(snapshot *db.Snapshot) (*db.Snapshot, error) {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return nil, errors.Wrap(err, "cloning snapshot")
	}
	work := &db.Snapshot{}
	if err := json.Unmarshal(raw, work); err != nil {
		return nil, errors.Wrap(err, "cloning snapshot")
	}
	work.Normalize()
	return work, nil
}
