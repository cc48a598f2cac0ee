package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/leave"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/user"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestFrom = `
	FROM demandes d
	INNER JOIN users u ON u.id = d.user_id` + requesterJoins + `
	LEFT JOIN users ap ON ap.id = d.approved_by`

const selectLeaveRequest = `
	SELECT d.id, d.user_id, d.nature, d.motif, d.date_debut, d.date_fin, d.jour_pres, d.date_dmd,
		   d.etat, d.approved_by, d.date_decision, d.lu, d.document_generated, d.document_generated_at,
		   u.nomcomplet, u.email, u.groupeid, u.departement_id, dep.sous_direction_id, ` + requesterDirection + `,
		   ap.nomcomplet` + leaveRequestFrom

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO demandes (user_id, nature, motif, date_debut, date_fin, jour_pres, date_dmd, etat, lu)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), $7, FALSE)
		RETURNING id
	`

	var id int64
	err := q.QueryRow(ctx, query,
		request.UserID,
		request.Nature,
		request.Motif,
		request.StartDate,
		request.EndDate,
		request.Days,
		int16(leave.StatePending),
	).Scan(&id)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("insert leave request: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id int64) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	lr, err := scanLeaveRequest(q.QueryRow(ctx, selectLeaveRequest+` WHERE d.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("get leave request %d: %w", id, err)
	}
	return lr, nil
}

// List implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) List(ctx context.Context, scope leave.Scope, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	var args queryArgs
	whereClause := " WHERE " + scopeCondition(scope, "d.user_id", &args)
	if filter.StateValue != nil {
		whereClause += " AND d.etat = " + args.bind(int16(*filter.StateValue))
	}
	if filter.Nature != nil && *filter.Nature != "" {
		whereClause += " AND LOWER(d.nature) = LOWER(" + args.bind(*filter.Nature) + ")"
	}

	var total int64
	countQuery := `SELECT COUNT(*)` + leaveRequestFrom + whereClause
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count leave requests: %w", err)
	}

	query := selectLeaveRequest + whereClause +
		fmt.Sprintf(" ORDER BY d.date_dmd DESC, d.id DESC LIMIT %s OFFSET %s", args.bind(filter.Limit), args.bind(filter.Offset()))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, lr)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// Decide implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Decide(ctx context.Context, id int64, state leave.State, approverID int64) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE demandes
		SET etat = $1, approved_by = $2, date_decision = NOW(), lu = FALSE
		WHERE id = $3 AND etat = $4
	`
	tag, err := q.Exec(ctx, query, int16(state), approverID, id, int16(leave.StatePending))
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("update leave request %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return leave.LeaveRequest{}, r.missingOr(ctx, id, leave.ErrLeaveRequestAlreadyProcessed)
	}

	return r.GetByID(ctx, id)
}

// DeletePending implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) DeletePending(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM demandes WHERE id = $1 AND etat = $2`, id, int16(leave.StatePending))
	if err != nil {
		return fmt.Errorf("delete leave request %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return r.missingOr(ctx, id, leave.ErrOnlyPendingDeletable)
	}
	return nil
}

// MarkRead implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) MarkRead(ctx context.Context, id, userID int64) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE demandes SET lu = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("mark leave request %d read: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}

// MarkAllRead implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE demandes SET lu = TRUE WHERE user_id = $1 AND lu = FALSE AND etat <> $2`, userID, int16(leave.StatePending))
	if err != nil {
		return 0, fmt.Errorf("mark all leave requests read: %w", err)
	}
	return tag.RowsAffected(), nil
}

// missingOr distinguishes a conditional write that matched nothing because
// the row is gone from one that matched nothing because of its state.
func (r *leaveRequestRepositoryImpl) missingOr(ctx context.Context, id int64, stateErr error) error {
	q := GetQuerier(ctx, r.db)

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM demandes WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check leave request %d: %w", id, err)
	}
	if !exists {
		return leave.ErrLeaveRequestNotFound
	}
	return stateErr
}

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	var state, group int16
	err := row.Scan(
		&lr.ID,
		&lr.UserID,
		&lr.Nature,
		&lr.Motif,
		&lr.StartDate,
		&lr.EndDate,
		&lr.Days,
		&lr.SubmittedAt,
		&state,
		&lr.ApprovedBy,
		&lr.DecidedAt,
		&lr.Read,
		&lr.DocumentGenerated,
		&lr.DocumentGeneratedAt,
		&lr.RequesterName,
		&lr.RequesterEmail,
		&group,
		&lr.Requester.DepartmentID,
		&lr.Requester.SousDirectionID,
		&lr.Requester.DirectionID,
		&lr.ApproverName,
	)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	role, ok := user.RoleFromGroup(group)
	if !ok {
		return leave.LeaveRequest{}, fmt.Errorf("%w: groupeid %d", user.ErrUnknownRole, group)
	}
	lr.State = leave.State(state)
	lr.Requester.UserID = lr.UserID
	lr.Requester.Role = role

	return lr, nil
}
