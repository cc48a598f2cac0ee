package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/leave"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/user"
)

// LeaveJobs contains leave-related cron jobs
type LeaveJobs struct {
	leaveService leave.LeaveService
	now          func() time.Time
}

// NewLeaveJobs creates leave cron jobs
func NewLeaveJobs(leaveService leave.LeaveService) *LeaveJobs {
	return &LeaveJobs{
		leaveService: leaveService,
		now:          time.Now,
	}
}

// RegisterJobs registers the document backfill and the on-leave refresh
func (j *LeaveJobs) RegisterJobs(scheduler *Scheduler, documentInterval, onLeaveInterval time.Duration) {
	scheduler.AddJob(Job{Name: "generate_missing_documents", Interval: documentInterval, Fn: j.GenerateMissingDocuments})
	scheduler.AddJob(Job{Name: "refresh_on_leave_flags", Interval: onLeaveInterval, Timeout: time.Minute, Fn: j.RefreshOnLeaveFlags})
}

// GenerateMissingDocuments renders certificates for every approved request
// that has none yet. Individual failures are reported, not returned.
func (j *LeaveJobs) GenerateMissingDocuments(ctx context.Context) error {
	result, err := j.leaveService.GenerateAllDocuments(ctx, user.SystemActor)
	if err != nil {
		return err
	}
	if result.SuccessCount > 0 || result.ErrorCount > 0 {
		slog.Info("Cron: document backfill finished", "success", result.SuccessCount, "errors", result.ErrorCount)
	}
	return nil
}

// RefreshOnLeaveFlags recomputes the denormalized on-leave flag for today
func (j *LeaveJobs) RefreshOnLeaveFlags(ctx context.Context) error {
	updated, err := j.leaveService.RefreshOnLeave(ctx, j.now())
	if err != nil {
		return err
	}
	if updated > 0 {
		slog.Info("Cron: on-leave flags refreshed", "updated", updated)
	}
	return nil
}
