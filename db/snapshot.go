package db

import (
	"github.com/openwall/openwall-be/model"
)

// Snapshot is the full store state. Collection order is meaningful for
// posts (newest are prepended) and comments (append-only).
type Snapshot struct {
	Posts     []*model.Post     `json:"posts"`
	Comments  []*model.Comment  `json:"comments"`
	Votes     []*model.Vote     `json:"votes"`
	Bookmarks []*model.Bookmark `json:"bookmarks"`
	Reports   []*model.Report   `json:"reports"`
	Banned    []string          `json:"bannedUsers"`
}

func NewSnapshot() *Snapshot {
	s := &Snapshot{}
	s.Normalize()
	return s
}

// Normalize repairs collections that are missing from older on-disk
// snapshots. The schema grew in place, so legacy files may lack any of the
// newer arrays; they all become empty rather than nil. Applied once at load.
func (s *Snapshot) Normalize() {
	if s.Posts == nil {
		s.Posts = []*model.Post{}
	}
	if s.Comments == nil {
		s.Comments = []*model.Comment{}
	}
	if s.Votes == nil {
		s.Votes = []*model.Vote{}
	}
	if s.Bookmarks == nil {
		s.Bookmarks = []*model.Bookmark{}
	}
	if s.Reports == nil {
		s.Reports = []*model.Report{}
	}
	if s.Banned == nil {
		s.Banned = []string{}
	}
	for _, post := range s.Posts {
		if post.Tags == nil {
			post.Tags = []string{}
		}
		if post.Media == nil {
			post.Media = []model.MediaRef{}
		}
	}
}

func (s *Snapshot) PostById(id string) *model.Post {
	for _, post := range s.Posts {
		if post.Id == id {
			return post
		}
	}
	return nil
}

func (s *Snapshot) VoteFor(postId, voterId string) *model.Vote {
	for _, vote := range s.Votes {
		if vote.PostId == postId && vote.VoterId == voterId {
			return vote
		}
	}
	return nil
}

func (s *Snapshot) BookmarkFor(postId, userId string) *model.Bookmark {
	for _, bookmark := range s.Bookmarks {
		if bookmark.PostId == postId && bookmark.UserId == userId {
			return bookmark
		}
	}
	return nil
}

func (s *Snapshot) ReportById(id string) *model.Report {
	for _, report := range s.Reports {
		if report.Id == id {
			return report
		}
	}
	return nil
}

func (s *Snapshot) IsBanned(identityId string) bool {
	for _, banned := range s.Banned {
		if banned == identityId {
			return true
		}
	}
	return false
}

// Tally recomputes vote counts for a post from the vote collection. Counts
// are always derived, never stored.
func (s *Snapshot) Tally(postId string) (upvotes, downvotes int) {
	for _, vote := range s.Votes {
		if vote.PostId != postId {
			continue
		}
		if vote.Direction == model.VoteUp {
			upvotes++
		} else {
			downvotes++
		}
	}
	return upvotes, downvotes
}

// RemovePost removes the post and everything referencing it: comments,
// votes and bookmarks. It returns the media refs whose backing files still
// need best-effort cleanup by the caller. Reports are kept as an audit
// trail. No-op if the post doesn't exist.
func (s *Snapshot) RemovePost(postId string) []model.MediaRef {
	var media []model.MediaRef
	posts := s.Posts[:0]
	for _, post := range s.Posts {
		if post.Id == postId {
			media = append(media, post.Media...)
			continue
		}
		posts = append(posts, post)
	}
	s.Posts = posts

	comments := s.Comments[:0]
	for _, comment := range s.Comments {
		if comment.PostId != postId {
			comments = append(comments, comment)
		}
	}
	s.Comments = comments

	votes := s.Votes[:0]
	for _, vote := range s.Votes {
		if vote.PostId != postId {
			votes = append(votes, vote)
		}
	}
	s.Votes = votes

	bookmarks := s.Bookmarks[:0]
	for _, bookmark := range s.Bookmarks {
		if bookmark.PostId != postId {
			bookmarks = append(bookmarks, bookmark)
		}
	}
	s.Bookmarks = bookmarks

	return media
}
