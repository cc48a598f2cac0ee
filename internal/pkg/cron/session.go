package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/auth"
)

// SessionJobs keeps the refresh_tokens table from growing without bound.
type SessionJobs struct {
	tokens auth.RefreshTokenRepository
	now    func() time.Time
}

func NewSessionJobs(tokens auth.RefreshTokenRepository) *SessionJobs {
	return &SessionJobs{tokens: tokens, now: time.Now}
}

func (j *SessionJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob(Job{Name: "purge_refresh_tokens", Interval: interval, Timeout: time.Minute, Fn: j.PurgeRefreshTokens})
}

func (j *SessionJobs) PurgeRefreshTokens(ctx context.Context) error {
	deleted, err := j.tokens.DeleteExpired(ctx, j.now())
	if err != nil {
		return err
	}
	if deleted > 0 {
		slog.Info("Cron: refresh tokens purged", "deleted", deleted)
	}
	return nil
}
