package app

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/openwall/openwall-be/db"
	"github.com/openwall/openwall-be/model"
	"github.com/openwall/openwall-be/util"
)

const (
	DefaultTrendingHashtagLimit = 10
	DefaultTrendingPostLimit    = 5
	DefaultTrendingWindow       = 24 * time.Hour
)

// PostView is a post enriched with everything derived: tallies, the
// viewer's relationship to it, hashtags and comments.
type PostView struct {
	*model.Post
	// stays empty: it shares the ownerId JSON name so it dominates the
	// embedded fingerprint, and omitempty then drops it from responses
	OwnerId      string           `json:"ownerId,omitempty"`
	Upvotes      int              `json:"upvotes"`
	Downvotes    int              `json:"downvotes"`
	NetVotes     int              `json:"netVotes"`
	MyVote       string           `json:"myVote"`
	IsOwner      bool             `json:"isOwner"`
	IsBookmarked bool             `json:"isBookmarked"`
	Hashtags     []string         `json:"hashtags"`
	Comments     []*model.Comment `json:"comments"`
}

// NewPostView wraps a post that has no derived activity yet, as right
// after creation. Responses carry views, never raw posts: the owner
// fingerprint stays internal.
func NewPostView(post *model.Post, viewerId string) *PostView {
	return &PostView{
		Post:     post,
		MyVote:   "none",
		IsOwner:  post.OwnerId == viewerId,
		Hashtags: ExtractHashtags(post.Content),
		Comments: []*model.Comment{},
	}
}

// ListPosts returns every post as a viewer-enriched view, sorted by net
// votes descending. The sort is stable: posts with equal net votes keep
// their stored order, which is newest first.
func (a *App) ListPosts(ctx context.Context, viewerId string) ([]*PostView, *util.HTTPError) {
	var views []*PostView
	err := a.db.View(ctx, func(s *db.Snapshot) error {
		views = buildPostViews(s, viewerId)
		return nil
	})
	if httpErr := a.mapStoreErr(err); httpErr != nil {
		return nil, httpErr
	}
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].NetVotes > views[j].NetVotes
	})
	return views, nil
}

// buildPostViews derives all view fields from one snapshot in single
// passes over each collection.
func buildPostViews(s *db.Snapshot, viewerId string) []*PostView {
	type tally struct {
		up, down int
	}
	tallies := make(map[string]*tally, len(s.Posts))
	myVotes := make(map[string]model.VoteDirection)
	for _, vote := range s.Votes {
		t := tallies[vote.PostId]
		if t == nil {
			t = &tally{}
			tallies[vote.PostId] = t
		}
		if vote.Direction == model.VoteUp {
			t.up++
		} else {
			t.down++
		}
		if vote.VoterId == viewerId {
			myVotes[vote.PostId] = vote.Direction
		}
	}
	bookmarked := make(map[string]bool)
	for _, bookmark := range s.Bookmarks {
		if bookmark.UserId == viewerId {
			bookmarked[bookmark.PostId] = true
		}
	}
	comments := make(map[string][]*model.Comment)
	for _, comment := range s.Comments {
		comments[comment.PostId] = append(comments[comment.PostId], comment)
	}

	views := make([]*PostView, len(s.Posts))
	for i, post := range s.Posts {
		view := &PostView{
			Post:     post,
			MyVote:   "none",
			IsOwner:  post.OwnerId == viewerId,
			Hashtags: ExtractHashtags(post.Content),
			Comments: comments[post.Id],
		}
		if view.Comments == nil {
			view.Comments = []*model.Comment{}
		}
		if t := tallies[post.Id]; t != nil {
			view.Upvotes, view.Downvotes = t.up, t.down
			view.NetVotes = t.up - t.down
		}
		if direction, ok := myVotes[post.Id]; ok {
			view.MyVote = string(direction)
		}
		view.IsBookmarked = bookmarked[post.Id]
		views[i] = view
	}
	return views
}

var hashtagPattern = regexp.MustCompile(`#\w+`)

// ExtractHashtags pulls #word tokens out of content, lowercased and
// deduplicated, preserving first-occurrence order.
func ExtractHashtags(content string) []string {
	seen := make(map[string]bool)
	tags := []string{}
	for _, raw := range hashtagPattern.FindAllString(content, -1) {
		tag := strings.ToLower(raw)
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags
}

type HashtagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// TrendingHashtags counts, per hashtag, the posts whose content uses it
// (a tag repeated within one post counts once), sorted by count
// descending.
func (a *App) TrendingHashtags(ctx context.Context, limit int) ([]*HashtagCount, *util.HTTPError) {
	if limit <= 0 {
		limit = DefaultTrendingHashtagLimit
	}
	counts := make(map[string]int)
	order := []string{}
	err := a.db.View(ctx, func(s *db.Snapshot) error {
		for _, post := range s.Posts {
			for _, tag := range ExtractHashtags(post.Content) {
				if counts[tag] == 0 {
					order = append(order, tag)
				}
				counts[tag]++
			}
		}
		return nil
	})
	if httpErr := a.mapStoreErr(err); httpErr != nil {
		return nil, httpErr
	}

	trending := make([]*HashtagCount, len(order))
	for i, tag := range order {
		trending[i] = &HashtagCount{Tag: tag, Count: counts[tag]}
	}
	sort.SliceStable(trending, func(i, j int) bool {
		return trending[i].Count > trending[j].Count
	})
	if len(trending) > limit {
		trending = trending[:limit]
	}
	return trending, nil
}

// TrendingPosts returns the top posts created within the window, by net
// votes descending.
func (a *App) TrendingPosts(ctx context.Context, viewerId string, window time.Duration, limit int) ([]*PostView, *util.HTTPError) {
	if window <= 0 {
		window = DefaultTrendingWindow
	}
	if limit <= 0 {
		limit = DefaultTrendingPostLimit
	}
	cutoff := time.Now().Add(-window)

	var views []*PostView
	err := a.db.View(ctx, func(s *db.Snapshot) error {
		for _, view := range buildPostViews(s, viewerId) {
			if view.CreatedAt.After(cutoff) {
				views = append(views, view)
			}
		}
		return nil
	})
	if httpErr := a.mapStoreErr(err); httpErr != nil {
		return nil, httpErr
	}
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].NetVotes > views[j].NetVotes
	})
	if len(views) > limit {
		views = views[:limit]
	}
	if views == nil {
		views = []*PostView{}
	}
	return views, nil
}

type UserStats struct {
	PostsCount      int `json:"postsCount"`
	BookmarksCount  int `json:"bookmarksCount"`
	UpvotesReceived int `json:"upvotesReceived"`
	Karma           int `json:"karma"`
}

// Stats aggregates an identity's activity. Karma is upvotes minus
// downvotes received across owned posts and may go negative.
func (a *App) Stats(ctx context.Context, identityId string) (*UserStats, *util.HTTPError) {
	stats := &UserStats{}
	err := a.db.View(ctx, func(s *db.Snapshot) error {
		owned := make(map[string]bool)
		for _, post := range s.Posts {
			if post.OwnerId == identityId {
				owned[post.Id] = true
				stats.PostsCount++
			}
		}
		downvotesReceived := 0
		for _, vote := range s.Votes {
			if !owned[vote.PostId] {
				continue
			}
			if vote.Direction == model.VoteUp {
				stats.UpvotesReceived++
			} else {
				downvotesReceived++
			}
		}
		stats.Karma = stats.UpvotesReceived - downvotesReceived
		for _, bookmark := range s.Bookmarks {
			if bookmark.UserId == identityId {
				stats.BookmarksCount++
			}
		}
		return nil
	})
	if httpErr := a.mapStoreErr(err); httpErr != nil {
		return nil, httpErr
	}
	return stats, nil
}
