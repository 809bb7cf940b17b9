package app

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/openwall/openwall-be/db"
	"github.com/openwall/openwall-be/model"
	"github.com/openwall/openwall-be/util"
)

// BanIdentity adds the identity to the banned set. Idempotent. With
// deletePosts set, every post owned by the identity is cascaded away in the
// same critical section.
func (a *App) BanIdentity(ctx context.Context, identityId string, deletePosts bool) *util.HTTPError {
	var media []model.MediaRef
	err := a.db.Update(ctx, func(s *db.Snapshot) error {
		if !s.IsBanned(identityId) {
			s.Banned = append(s.Banned, identityId)
		}
		if !deletePosts {
			return nil
		}
		var owned []string
		for _, post := range s.Posts {
			if post.OwnerId == identityId {
				owned = append(owned, post.Id)
			}
		}
		for _, postId := range owned {
			media = append(media, s.RemovePost(postId)...)
		}
		return nil
	})
	if httpErr := a.mapStoreErr(err); httpErr != nil {
		return httpErr
	}
	a.removeMediaFiles(ctx, media)
	return nil
}

// UnbanIdentity removes the identity from the banned set. No error if it
// was never banned.
func (a *App) UnbanIdentity(ctx context.Context, identityId string) *util.HTTPError {
	err := a.db.Update(ctx, func(s *db.Snapshot) error {
		banned := s.Banned[:0]
		for _, id := range s.Banned {
			if id != identityId {
				banned = append(banned, id)
			}
		}
		s.Banned = banned
		return nil
	})
	return a.mapStoreErr(err)
}

func (a *App) BannedIdentities(ctx context.Context) ([]string, *util.HTTPError) {
	banned := []string{}
	err := a.db.View(ctx, func(s *db.Snapshot) error {
		banned = append(banned, s.Banned...)
		return nil
	})
	if httpErr := a.mapStoreErr(err); httpErr != nil {
		return nil, httpErr
	}
	return banned, nil
}

func (a *App) SubmitReport(ctx context.Context, postId, reporterId, reason string) (*model.Report, *util.HTTPError) {
	report := &model.Report{
		Id:         uuid.NewString(),
		PostId:     postId,
		ReportedBy: reporterId,
		Reason:     strings.TrimSpace(util.XSSSanitize(reason)),
		Status:     model.ReportPending,
		CreatedAt:  time.Now(),
	}
	err := a.db.Update(ctx, func(s *db.Snapshot) error {
		if s.PostById(postId) == nil {
			return util.NotFoundHTTPErr("post not found")
		}
		s.Reports = append(s.Reports, report)
		return nil
	})
	if httpErr := a.mapStoreErr(err); httpErr != nil {
		return nil, httpErr
	}
	return report, nil
}

func (a *App) ListReports(ctx context.Context) ([]*model.Report, *util.HTTPError) {
	reports := []*model.Report{}
	err := a.db.View(ctx, func(s *db.Snapshot) error {
		reports = append(reports, s.Reports...)
		return nil
	})
	if httpErr := a.mapStoreErr(err); httpErr != nil {
		return nil, httpErr
	}
	return reports, nil
}

// ResolveReport moves a report out of pending. The only legal target
// states are resolved and dismissed; nothing cascades.
func (a *App) ResolveReport(ctx context.Context, reportId string, status model.ReportStatus) *util.HTTPError {
	if status != model.ReportResolved && status != model.ReportDismissed {
		return util.InvalidArgumentHTTPErr("status must be resolved or dismissed")
	}
	err := a.db.Update(ctx, func(s *db.Snapshot) error {
		report := s.ReportById(reportId)
		if report == nil {
			return util.NotFoundHTTPErr("report not found")
		}
		report.Status = status
		return nil
	})
	return a.mapStoreErr(err)
}
