package dashboard

import (
	"context"
	"time"

	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/leave"
)

// RequestStats combines the request counters in a single query
type RequestStats struct {
	Total               int64
	Pending             int64
	Approved            int64
	Rejected            int64
	DocumentsToGenerate int64
}

type NatureStats struct {
	Nature       string
	Count        int64
	ApprovedDays int64
}

// DashboardRepository defines the interface for dashboard data access
type DashboardRepository interface {
	GetRequestStats(ctx context.Context, scope leave.Scope) (RequestStats, error)
	GetNatureStats(ctx context.Context, scope leave.Scope) ([]NatureStats, error)

	// CountOnLeave counts users in scope with an approved request covering day
	CountOnLeave(ctx context.Context, scope leave.Scope, day time.Time) (int64, error)

	// CountUnreadDecisions counts decided requests of the user not yet read
	CountUnreadDecisions(ctx context.Context, userID int64) (int64, error)
}
