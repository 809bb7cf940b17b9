package app

import (
	"context"
	"time"

	"github.com/openwall/openwall-be/db"
	"github.com/openwall/openwall-be/model"
	"github.com/openwall/openwall-be/util"
)

type BookmarkResult struct {
	Bookmarked bool `json:"bookmarked"`
}

// ToggleBookmark flips the (postId, userId) bookmark: present deletes it,
// absent inserts it. Repeated identical calls alternate the two states.
func (a *App) ToggleBookmark(ctx context.Context, postId, userId string) (*BookmarkResult, *util.HTTPError) {
	result := &BookmarkResult{}
	err := a.db.Update(ctx, func(s *db.Snapshot) error {
		if s.IsBanned(userId) {
			return util.ForbiddenHTTPErr("identity is banned")
		}
		if s.PostById(postId) == nil {
			return util.NotFoundHTTPErr("post not found")
		}

		if s.BookmarkFor(postId, userId) != nil {
			bookmarks := s.Bookmarks[:0]
			for _, bookmark := range s.Bookmarks {
				if !(bookmark.PostId == postId && bookmark.UserId == userId) {
					bookmarks = append(bookmarks, bookmark)
				}
			}
			s.Bookmarks = bookmarks
			result.Bookmarked = false
			return nil
		}
		s.Bookmarks = append(s.Bookmarks, &model.Bookmark{
			PostId:    postId,
			UserId:    userId,
			CreatedAt: time.Now(),
		})
		result.Bookmarked = true
		return nil
	})
	if httpErr := a.mapStoreErr(err); httpErr != nil {
		return nil, httpErr
	}
	return result, nil
}
