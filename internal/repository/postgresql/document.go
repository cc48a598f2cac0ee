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

type documentRepositoryImpl struct {
	db *database.DB
}

func NewDocumentRepository(db *database.DB) leave.DocumentRepository {
	return &documentRepositoryImpl{db: db}
}

// GetDocumentData implements leave.DocumentRepository.
func (r *documentRepositoryImpl) GetDocumentData(ctx context.Context, id int64) (leave.DocumentData, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT d.id, u.nomcomplet, u.matricule, f.nom, dep.nom, dir.nom,
			   d.nature, d.motif, d.date_debut, d.date_fin, d.jour_pres, d.date_dmd,
			   ap.nomcomplet, d.date_decision, d.etat
		FROM demandes d
		INNER JOIN users u ON u.id = d.user_id` + requesterJoins + `
		LEFT JOIN directions dir ON dir.id = ` + requesterDirection + `
		LEFT JOIN fonctions f ON f.id = u.fonction_id
		LEFT JOIN users ap ON ap.id = d.approved_by
		WHERE d.id = $1
	`

	var data leave.DocumentData
	var state int16
	err := q.QueryRow(ctx, query, id).Scan(
		&data.RequestID,
		&data.RequesterName,
		&data.Matricule,
		&data.FunctionName,
		&data.Department,
		&data.DirectionName,
		&data.Nature,
		&data.Motif,
		&data.StartDate,
		&data.EndDate,
		&data.Days,
		&data.SubmittedAt,
		&data.ApproverName,
		&data.DecidedAt,
		&state,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.DocumentData{}, leave.ErrLeaveRequestNotFound
		}
		return leave.DocumentData{}, fmt.Errorf("get document data %d: %w", id, err)
	}
	data.State = leave.State(state)

	return data, nil
}

// Save implements leave.DocumentRepository.
func (r *documentRepositoryImpl) Save(ctx context.Context, id int64, content []byte, generatedAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE demandes
		SET document_data = $2, document_generated = TRUE, document_generated_at = $3
		WHERE id = $1 AND etat = $4
	`
	tag, err := q.Exec(ctx, query, id, content, generatedAt, int16(leave.StateApproved))
	if err != nil {
		return fmt.Errorf("save document %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM demandes WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("check leave request %d: %w", id, err)
		}
		if !exists {
			return leave.ErrLeaveRequestNotFound
		}
		return leave.ErrDocumentRequiresApproval
	}
	return nil
}

// Get implements leave.DocumentRepository.
func (r *documentRepositoryImpl) Get(ctx context.Context, id int64) (leave.Document, error) {
	q := GetQuerier(ctx, r.db)

	var content []byte
	var generatedAt *time.Time
	err := q.QueryRow(ctx, `SELECT document_data, document_generated_at FROM demandes WHERE id = $1`, id).Scan(&content, &generatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Document{}, leave.ErrLeaveRequestNotFound
		}
		return leave.Document{}, fmt.Errorf("get document %d: %w", id, err)
	}
	if len(content) == 0 || generatedAt == nil {
		return leave.Document{}, leave.ErrDocumentNotFound
	}

	return leave.Document{RequestID: id, Content: content, GeneratedAt: *generatedAt}, nil
}

// Clear implements leave.DocumentRepository.
func (r *documentRepositoryImpl) Clear(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE demandes
		SET document_data = NULL, document_generated = FALSE, document_generated_at = NULL
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("clear document %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}

// ListPendingGeneration implements leave.DocumentRepository.
func (r *documentRepositoryImpl) ListPendingGeneration(ctx context.Context, scope leave.Scope) ([]int64, error) {
	q := GetQuerier(ctx, r.db)

	var args queryArgs
	query := `
		SELECT d.id
		FROM demandes d
		INNER JOIN users u ON u.id = d.user_id` + requesterJoins + `
		WHERE d.etat = ` + args.bind(int16(leave.StateApproved)) + `
		  AND d.document_generated = FALSE
		  AND ` + scopeCondition(scope, "d.user_id", &args) + `
		ORDER BY d.id
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list requests without document: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
