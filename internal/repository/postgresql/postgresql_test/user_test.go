package postgresql_test

import (
	"context"
	"testing"

	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/user"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_GetByEmail(t *testing.T) {
	db := testDB(t)
	o := seedOrg(t, db)
	ctx := context.Background()

	id := seedUser(t, db, "karim", user.RoleManager, int64Ptr(o.Dept1), nil, 30)
	repo := postgresql.NewUserRepository(db)

	u, err := repo.GetByEmail(ctx, "karim@airalgerie.dz")
	require.NoError(t, err)

	assert.Equal(t, id, u.ID)
	assert.Equal(t, user.RoleManager, u.Role)
	require.NotNil(t, u.DepartmentID)
	assert.Equal(t, o.Dept1, *u.DepartmentID)
	require.NotNil(t, u.SousDirectionID)
	assert.Equal(t, o.SousDirection1, *u.SousDirectionID)

	// the direction is inherited through the department
	require.NotNil(t, u.DirectionID)
	assert.Equal(t, o.Direction1, *u.DirectionID)
	require.NotNil(t, u.DepartmentName)
	assert.Equal(t, "Moteurs", *u.DepartmentName)
}

func TestUserRepository_GetByID_DirectAssignment(t *testing.T) {
	db := testDB(t)
	o := seedOrg(t, db)
	ctx := context.Background()

	id := seedUser(t, db, "samir", user.RoleDirector, nil, int64Ptr(o.Direction2), -1)
	repo := postgresql.NewUserRepository(db)

	u, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, user.RoleDirector, u.Role)
	assert.Nil(t, u.DepartmentID)
	require.NotNil(t, u.DirectionID)
	assert.Equal(t, o.Direction2, *u.DirectionID)
}

func TestUserRepository_NotFound(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(db)

	_, err := repo.GetByEmail(ctx, "nobody@airalgerie.dz")
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	_, err = repo.GetByID(ctx, 4242)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
