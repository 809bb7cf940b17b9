package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openwall/openwall-be/db"
	"github.com/openwall/openwall-be/model"
)

func testPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "store.json")
}

func TestGetDatabaseInitializesMissingFile(t *testing.T) {
	path := testPath(t)
	jdb, err := GetDatabase(path)
	require.NoError(t, err)
	defer jdb.Close()

	// the empty snapshot is durable immediately
	_, err = os.Stat(path)
	assert.NoError(t, err)

	err = jdb.View(context.Background(), func(s *db.Snapshot) error {
		assert.Empty(t, s.Posts)
		assert.NotNil(t, s.Posts)
		assert.NotNil(t, s.Banned)
		return nil
	})
	assert.NoError(t, err)
}

func TestGetDatabaseSelfHealsCorruptFile(t *testing.T) {
	path := testPath(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	jdb, err := GetDatabase(path)
	require.NoError(t, err)
	defer jdb.Close()

	err = jdb.View(context.Background(), func(s *db.Snapshot) error {
		assert.Empty(t, s.Posts)
		return nil
	})
	assert.NoError(t, err)
}

func TestGetDatabaseNormalizesLegacySnapshot(t *testing.T) {
	path := testPath(t)
	// older files only carried posts; every newer collection must come up
	// empty instead of nil
	legacy := `{"posts":[{"id":"p1","content":"hi","ownerId":"o1"}]}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	jdb, err := GetDatabase(path)
	require.NoError(t, err)
	defer jdb.Close()

	err = jdb.View(context.Background(), func(s *db.Snapshot) error {
		require.Len(t, s.Posts, 1)
		assert.NotNil(t, s.Posts[0].Tags)
		assert.NotNil(t, s.Posts[0].Media)
		assert.NotNil(t, s.Comments)
		assert.NotNil(t, s.Votes)
		assert.NotNil(t, s.Bookmarks)
		assert.NotNil(t, s.Reports)
		assert.NotNil(t, s.Banned)
		return nil
	})
	assert.NoError(t, err)
}

func TestUpdatePersistsAcrossReopen(t *testing.T) {
	path := testPath(t)
	jdb, err := GetDatabase(path)
	require.NoError(t, err)

	err = jdb.Update(context.Background(), func(s *db.Snapshot) error {
		s.Posts = append(s.Posts, &model.Post{Id: "p1", Content: "hello", CreatedAt: time.Now()})
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, jdb.Close())

	reopened, err := GetDatabase(path)
	require.NoError(t, err)
	defer reopened.Close()
	err = reopened.View(context.Background(), func(s *db.Snapshot) error {
		require.Len(t, s.Posts, 1)
		assert.Equal(t, "hello", s.Posts[0].Content)
		return nil
	})
	assert.NoError(t, err)
}

func TestFailedUpdateLeavesNoTrace(t *testing.T) {
	jdb, err := GetDatabase(testPath(t))
	require.NoError(t, err)
	defer jdb.Close()

	boom := errors.New("boom")
	err = jdb.Update(context.Background(), func(s *db.Snapshot) error {
		s.Posts = append(s.Posts, &model.Post{Id: "p1"})
		return boom
	})
	assert.ErrorIs(t, err, boom)

	err = jdb.View(context.Background(), func(s *db.Snapshot) error {
		assert.Empty(t, s.Posts)
		return nil
	})
	assert.NoError(t, err)
}

func TestAbandonedWriteCannotReplaceNewerSnapshot(t *testing.T) {
	path := testPath(t)
	jdb, err := GetDatabase(path)
	require.NoError(t, err)
	defer jdb.Close()

	err = jdb.Update(context.Background(), func(s *db.Snapshot) error {
		s.Posts = append(s.Posts, &model.Post{Id: "p1", Content: "durable", CreatedAt: time.Now()})
		return nil
	})
	require.NoError(t, err)
	durable, err := os.ReadFile(path)
	require.NoError(t, err)

	// replay the wedged-write sequence: the timed-out generation was
	// reported as failed, so when it finally runs it must not rename
	stale, err := clone(jdb.snapshot)
	require.NoError(t, err)
	stale.Posts = nil
	jdb.writeMu.Lock()
	jdb.writeSeq++
	gen := jdb.writeSeq
	jdb.abandonedGen = gen
	jdb.writeMu.Unlock()

	err = jdb.write(stale, gen)
	assert.Error(t, err)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, durable, after)
	// the stale temp file is cleaned up, not left behind
	leftovers, err := filepath.Glob(path + ".tmp.*")
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestConcurrentUpdatesAreSerialized(t *testing.T) {
	jdb, err := GetDatabase(testPath(t))
	require.NoError(t, err)
	defer jdb.Close()

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := jdb.Update(context.Background(), func(s *db.Snapshot) error {
				s.Votes = append(s.Votes, &model.Vote{
					PostId: "p1", VoterId: "v", Direction: model.VoteUp,
				})
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	err = jdb.View(context.Background(), func(s *db.Snapshot) error {
		// no lost updates
		assert.Len(t, s.Votes, writers)
		return nil
	})
	assert.NoError(t, err)
}
