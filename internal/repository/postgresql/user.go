package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/user"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

const selectUser = `
	SELECT u.id, u.nomcomplet, u.email, u.password_hash, u.groupeid, u.matricule, u.phone,
		   u.departement_id, dep.sous_direction_id, ` + requesterDirection + `,
		   u.fonction_id, u.date_entree, dep.nom, f.nom, dir.nom
	FROM users u` + requesterJoins + `
	LEFT JOIN directions dir ON dir.id = ` + requesterDirection + `
	LEFT JOIN fonctions f ON f.id = u.fonction_id`

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)
	return scanUser(q.QueryRow(ctx, selectUser+` WHERE LOWER(u.email) = LOWER($1)`, email))
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id int64) (user.User, error) {
	q := GetQuerier(ctx, r.db)
	return scanUser(q.QueryRow(ctx, selectUser+` WHERE u.id = $1`, id))
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	var group int16
	err := row.Scan(
		&u.ID,
		&u.FullName,
		&u.Email,
		&u.PasswordHash,
		&group,
		&u.Matricule,
		&u.Phone,
		&u.DepartmentID,
		&u.SousDirectionID,
		&u.DirectionID,
		&u.FunctionID,
		&u.HireDate,
		&u.DepartmentName,
		&u.FunctionName,
		&u.DirectionName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("scan user: %w", err)
	}

	role, ok := user.RoleFromGroup(group)
	if !ok {
		return user.User{}, fmt.Errorf("%w: groupeid %d", user.ErrUnknownRole, group)
	}
	u.Role = role

	return u, nil
}
