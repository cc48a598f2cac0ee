package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/dashboard"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/leave"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/user"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	leave.LeaveBalanceRepository
	policy leave.Policy
	now    func() time.Time
}

func NewDashboardService(repo dashboard.DashboardRepository, balanceRepository leave.LeaveBalanceRepository, policy leave.Policy) dashboard.DashboardService {
	return &DashboardServiceImpl{
		DashboardRepository:    repo,
		LeaveBalanceRepository: balanceRepository,
		policy:                 policy,
		now:                    time.Now,
	}
}

// GetDashboard implements dashboard.DashboardService.
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context, actor user.Actor) (dashboard.DashboardResponse, error) {
	if !user.HasPermission(actor.Role, user.PermissionDashboardView) {
		return dashboard.DashboardResponse{}, leave.ErrPermissionDenied
	}

	scope := s.policy.ViewScope(actor)
	now := s.now()
	response := dashboard.DashboardResponse{
		Natures:   []dashboard.NatureCountResponse{},
		UpdatedAt: now.UTC().Format(time.RFC3339),
	}

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Request summary (1 query: total, by state, documents to generate)
	g.Go(func() error {
		stats, err := s.GetRequestStats(gCtx, scope)
		if err != nil {
			return err
		}
		response.Requests = dashboard.RequestSummaryResponse{
			Total:               stats.Total,
			Pending:             stats.Pending,
			Approved:            stats.Approved,
			Rejected:            stats.Rejected,
			DocumentsToGenerate: stats.DocumentsToGenerate,
		}
		return nil
	})

	// 2. Breakdown by nature
	g.Go(func() error {
		stats, err := s.GetNatureStats(gCtx, scope)
		if err != nil {
			return err
		}
		natures := make([]dashboard.NatureCountResponse, 0, len(stats))
		for _, n := range stats {
			natures = append(natures, dashboard.NatureCountResponse{
				Nature: n.Nature,
				Count:  n.Count,
				Days:   n.ApprovedDays,
			})
		}
		response.Natures = natures
		return nil
	})

	// 3. People on leave today
	g.Go(func() error {
		count, err := s.CountOnLeave(gCtx, scope, now)
		if err != nil {
			return err
		}
		response.OnLeave = count
		return nil
	})

	// 4. Unread decisions and own balance
	g.Go(func() error {
		count, err := s.CountUnreadDecisions(gCtx, actor.ID)
		if err != nil {
			return err
		}
		response.Unread = count

		balance, err := s.GetLatestByUserID(gCtx, actor.ID)
		if err != nil {
			if errors.Is(err, leave.ErrBalanceNotFound) {
				return nil
			}
			return err
		}
		b := leave.NewLeaveBalanceResponse(balance)
		response.MyBalance = &b
		return nil
	})

	if err := g.Wait(); err != nil {
		return dashboard.DashboardResponse{}, fmt.Errorf("failed to build dashboard: %w", err)
	}

	return response, nil
}
