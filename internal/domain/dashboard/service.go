package dashboard

import (
	"context"

	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/user"
)

type DashboardService interface {
	GetDashboard(ctx context.Context, actor user.Actor) (DashboardResponse, error)
}
