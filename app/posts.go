package app

import (
	"context"
	"math/rand"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/openwall/openwall-be/db"
	"github.com/openwall/openwall-be/model"
	"github.com/openwall/openwall-be/util"
)

const (
	MaxPostContentLen    = 1000
	MaxCommentContentLen = 500

	// color hints are cosmetic, in [0, colorHintRange)
	colorHintRange = 5
)

type CreatePost struct {
	Content string
	Tags    []string
	Media   []model.MediaRef
	OwnerId string
}

func (a *App) CreatePost(ctx context.Context, req *CreatePost) (*model.Post, *util.HTTPError) {
	content := strings.TrimSpace(util.XSSSanitize(req.Content))
	if content == "" {
		return nil, util.InvalidArgumentHTTPErr("content must not be empty")
	}
	if utf8.RuneCountInString(content) > MaxPostContentLen {
		return nil, util.InvalidArgumentHTTPErr("content exceeds 1000 characters")
	}

	post := &model.Post{
		Id:        uuid.NewString(),
		Content:   content,
		Tags:      normalizeTags(req.Tags),
		Media:     req.Media,
		OwnerId:   req.OwnerId,
		ColorHint: rand.Intn(colorHintRange),
		CreatedAt: time.Now(),
	}
	if post.Media == nil {
		post.Media = []model.MediaRef{}
	}

	err := a.db.Update(ctx, func(s *db.Snapshot) error {
		// the ban check has to live inside the critical section, or a
		// create can race an admin ban
		if s.IsBanned(req.OwnerId) {
			return util.ForbiddenHTTPErr("identity is banned")
		}
		// newest first; the feed sort is stable, so this order is the
		// tie-break among posts with equal net votes
		s.Posts = append([]*model.Post{post}, s.Posts...)
		return nil
	})
	if httpErr := a.mapStoreErr(err); httpErr != nil {
		return nil, httpErr
	}
	return post, nil
}

func (a *App) DeletePost(ctx context.Context, postId, requesterId string, isAdmin bool) *util.HTTPError {
	var media []model.MediaRef
	err := a.db.Update(ctx, func(s *db.Snapshot) error {
		post := s.PostById(postId)
		if post == nil {
			return util.NotFoundHTTPErr("post not found")
		}
		if !post.CanDelete(requesterId, isAdmin) {
			return util.ForbiddenHTTPErr("only the owner can delete this post")
		}
		media = s.RemovePost(postId)
		return nil
	})
	if httpErr := a.mapStoreErr(err); httpErr != nil {
		return httpErr
	}
	// backing files are cleaned up after the records are durably gone;
	// failures are logged, the delete already succeeded
	a.removeMediaFiles(ctx, media)
	return nil
}

func (a *App) AddComment(ctx context.Context, postId, content, authorId string) (*model.Comment, *util.HTTPError) {
	content = strings.TrimSpace(util.XSSSanitize(content))
	if content == "" {
		return nil, util.InvalidArgumentHTTPErr("comment must not be empty")
	}
	if utf8.RuneCountInString(content) > MaxCommentContentLen {
		return nil, util.InvalidArgumentHTTPErr("comment exceeds 500 characters")
	}

	comment := &model.Comment{
		Id:        uuid.NewString(),
		PostId:    postId,
		Content:   content,
		CreatedAt: time.Now(),
	}
	err := a.db.Update(ctx, func(s *db.Snapshot) error {
		if s.IsBanned(authorId) {
			return util.ForbiddenHTTPErr("identity is banned")
		}
		if s.PostById(postId) == nil {
			return util.NotFoundHTTPErr("post not found")
		}
		// comments are append-only: no edit, no standalone delete, they
		// only go away with their post
		s.Comments = append(s.Comments, comment)
		return nil
	})
	if httpErr := a.mapStoreErr(err); httpErr != nil {
		return nil, httpErr
	}
	return comment, nil
}

func normalizeTags(tags []string) []string {
	normalized := []string{}
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			normalized = append(normalized, tag)
		}
	}
	return normalized
}
