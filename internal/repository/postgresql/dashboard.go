package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/dashboard"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/leave"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/pkg/database"
)

type dashboardRepositoryImpl struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

// GetRequestStats implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) GetRequestStats(ctx context.Context, scope leave.Scope) (dashboard.RequestStats, error) {
	q := GetQuerier(ctx, r.db)

	var args queryArgs
	query := `
		SELECT COUNT(*),
			   COUNT(*) FILTER (WHERE d.etat = 0),
			   COUNT(*) FILTER (WHERE d.etat = 1),
			   COUNT(*) FILTER (WHERE d.etat = 2),
			   COUNT(*) FILTER (WHERE d.etat = 1 AND d.document_generated = FALSE)
		FROM demandes d
		INNER JOIN users u ON u.id = d.user_id` + requesterJoins + `
		WHERE ` + scopeCondition(scope, "d.user_id", &args)

	var stats dashboard.RequestStats
	err := q.QueryRow(ctx, query, args...).Scan(
		&stats.Total,
		&stats.Pending,
		&stats.Approved,
		&stats.Rejected,
		&stats.DocumentsToGenerate,
	)
	if err != nil {
		return dashboard.RequestStats{}, fmt.Errorf("get request stats: %w", err)
	}
	return stats, nil
}

// GetNatureStats implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) GetNatureStats(ctx context.Context, scope leave.Scope) ([]dashboard.NatureStats, error) {
	q := GetQuerier(ctx, r.db)

	var args queryArgs
	query := `
		SELECT d.nature,
			   COUNT(*),
			   COALESCE(SUM(d.jour_pres) FILTER (WHERE d.etat = 1), 0)
		FROM demandes d
		INNER JOIN users u ON u.id = d.user_id` + requesterJoins + `
		WHERE ` + scopeCondition(scope, "d.user_id", &args) + `
		GROUP BY d.nature
		ORDER BY COUNT(*) DESC, d.nature
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get nature stats: %w", err)
	}
	defer rows.Close()

	var stats []dashboard.NatureStats
	for rows.Next() {
		var s dashboard.NatureStats
		if err := rows.Scan(&s.Nature, &s.Count, &s.ApprovedDays); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// CountOnLeave implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) CountOnLeave(ctx context.Context, scope leave.Scope, day time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var args queryArgs
	query := `
		SELECT COUNT(DISTINCT d.user_id)
		FROM demandes d
		INNER JOIN users u ON u.id = d.user_id` + requesterJoins + `
		WHERE d.etat = 1
		  AND ` + args.bind(day) + `::date BETWEEN d.date_debut AND d.date_fin
		  AND ` + scopeCondition(scope, "d.user_id", &args)

	var count int64
	if err := q.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users on leave: %w", err)
	}
	return count, nil
}

// CountUnreadDecisions implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) CountUnreadDecisions(ctx context.Context, userID int64) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM demandes WHERE user_id = $1 AND lu = FALSE AND etat <> 0`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread decisions: %w", err)
	}
	return count, nil
}
