package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/leave"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.LeaveBalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

const leaveBalanceColumns = `
	id, user_id, jours_dispo, jours_pris, conje, nature,
	departement_id, sous_direction_id, direction_id, fonction_id`

// GetLatestByUserID implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) GetLatestByUserID(ctx context.Context, userID int64) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + leaveBalanceColumns + `
		FROM conges
		WHERE user_id = $1
		ORDER BY id DESC
		LIMIT 1
	`
	return scanLeaveBalance(q.QueryRow(ctx, query, userID))
}

// Debit implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) Debit(ctx context.Context, userID int64, days int) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE conges
		SET jours_dispo = GREATEST(jours_dispo - $2, 0),
			jours_pris = jours_pris + $2
		WHERE id = (SELECT id FROM conges WHERE user_id = $1 ORDER BY id DESC LIMIT 1)
		RETURNING` + leaveBalanceColumns

	return scanLeaveBalance(q.QueryRow(ctx, query, userID, days))
}

// RefreshOnLeave implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) RefreshOnLeave(ctx context.Context, day time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH flags AS (
			SELECT c.id,
				   CASE WHEN EXISTS (
					   SELECT 1 FROM demandes d
					   WHERE d.user_id = c.user_id
						 AND d.etat = $2
						 AND $1::date BETWEEN d.date_debut AND d.date_fin
				   ) THEN 1 ELSE 0 END::smallint AS on_leave
			FROM conges c
		)
		UPDATE conges c
		SET conje = f.on_leave
		FROM flags f
		WHERE f.id = c.id AND c.conje <> f.on_leave
	`
	tag, err := q.Exec(ctx, query, day, int16(leave.StateApproved))
	if err != nil {
		return 0, fmt.Errorf("refresh on-leave flags: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanLeaveBalance(row pgx.Row) (leave.LeaveBalance, error) {
	var b leave.LeaveBalance
	var onLeave int16
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.AvailableDays,
		&b.ConsumedDays,
		&onLeave,
		&b.Nature,
		&b.DepartmentID,
		&b.SousDirectionID,
		&b.DirectionID,
		&b.FunctionID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveBalance{}, leave.ErrBalanceNotFound
		}
		return leave.LeaveBalance{}, fmt.Errorf("scan leave balance: %w", err)
	}
	b.OnLeave = onLeave != 0
	return b, nil
}
