package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openwall/openwall-be/db"
	"github.com/openwall/openwall-be/db/jsonfile"
	"github.com/openwall/openwall-be/model"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	database, err := jsonfile.GetDatabase(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return New(database, nil)
}

func mustCreatePost(t *testing.T, a *App, content, ownerId string) *model.Post {
	t.Helper()
	post, httpErr := a.CreatePost(context.Background(), &CreatePost{
		Content: content,
		OwnerId: ownerId,
	})
	require.Nil(t, httpErr)
	return post
}

// snapshotCounts reads row counts directly from the store, bypassing
// aggregation.
func snapshotCounts(t *testing.T, a *App) (posts, comments, votes, bookmarks int) {
	t.Helper()
	err := a.db.View(context.Background(), func(s *db.Snapshot) error {
		posts, comments = len(s.Posts), len(s.Comments)
		votes, bookmarks = len(s.Votes), len(s.Bookmarks)
		return nil
	})
	require.NoError(t, err)
	return posts, comments, votes, bookmarks
}

type fakeRemover struct {
	removed []string
	err     error
}

func (fr *fakeRemover) Remove(ctx context.Context, fileUrl string) error {
	fr.removed = append(fr.removed, fileUrl)
	return fr.err
}
