// Package app holds the core logic: the post lifecycle, the vote and
// bookmark ledgers, moderation, and the aggregation that turns raw
// snapshot collections into enriched feed views. Everything mutating runs
// inside a single db.Update critical section.
package app

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/openwall/openwall-be/db"
	"github.com/openwall/openwall-be/model"
	"github.com/openwall/openwall-be/util"
)

// MediaRemover deletes the backing file of an upload. Cleanup is
// best-effort: failures are logged, never surfaced.
type MediaRemover interface {
	Remove(ctx context.Context, fileUrl string) error
}

type App struct {
	db     db.Database
	media  MediaRemover
	logger *log.Entry
}

func New(database db.Database, media MediaRemover) *App {
	return &App{
		db:     database,
		media:  media,
		logger: log.WithField("component", "app"),
	}
}

// mapStoreErr splits fn-originated HTTPErrors from persistence failures.
// Persistence failures are logged and surfaced as a generic storage error
// so no disk details leak to clients.
func (a *App) mapStoreErr(err error) *util.HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *util.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	a.logger.WithError(err).Error("store operation failed")
	return util.BuildDbHTTPErr(err)
}

func (a *App) removeMediaFiles(ctx context.Context, media []model.MediaRef) {
	if a.media == nil {
		return
	}
	for _, ref := range media {
		if err := a.media.Remove(ctx, ref.FileUrl); err != nil {
			a.logger.WithError(err).
				WithField("fileUrl", ref.FileUrl).
				Warn("orphaned media file could not be removed")
		}
	}
}
