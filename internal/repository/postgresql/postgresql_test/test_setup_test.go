package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/user"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSetup holds the connection to the integration database
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the schema
func NewTestDatabase(ctx context.Context, dsn string) (*TestDatabaseSetup, error) {
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	return &TestDatabaseSetup{DB: db}, nil
}

// TruncateAllTables removes every row and resets identities
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"refresh_tokens",
		"conges",
		"demandes",
		"users",
		"fonctions",
		"departements",
		"sous_direction",
		"directions",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// Close closes the pool
func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}

var (
	setupOnce sync.Once
	testSetup *TestDatabaseSetup
	setupErr  error
)

// testDB returns a clean database, or skips when TEST_DATABASE_URL is unset.
func testDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	setupOnce.Do(func() {
		testSetup, setupErr = NewTestDatabase(ctx, dsn)
	})
	require.NoError(t, setupErr)
	require.NoError(t, testSetup.TruncateAllTables(ctx))

	return testSetup.DB
}

// org is the seeded organisation: direction 1 > sous-direction 1 >
// departments 1 and 2, plus direction 2 > sous-direction 2 > department 3.
type org struct {
	Direction1, Direction2         int64
	SousDirection1, SousDirection2 int64
	Dept1, Dept2, Dept3            int64
	Function                       int64
}

func seedOrg(t *testing.T, db *database.DB) org {
	t.Helper()
	ctx := context.Background()

	var o org
	insert := func(dst *int64, query string, args ...any) {
		require.NoError(t, db.QueryRow(ctx, query, args...).Scan(dst))
	}

	insert(&o.Direction1, `INSERT INTO directions (nom) VALUES ('Direction Technique') RETURNING id`)
	insert(&o.Direction2, `INSERT INTO directions (nom) VALUES ('Direction Commerciale') RETURNING id`)
	insert(&o.SousDirection1, `INSERT INTO sous_direction (nom, direction_id) VALUES ('Maintenance', $1) RETURNING id`, o.Direction1)
	insert(&o.SousDirection2, `INSERT INTO sous_direction (nom, direction_id) VALUES ('Ventes', $1) RETURNING id`, o.Direction2)
	insert(&o.Dept1, `INSERT INTO departements (nom, sous_direction_id) VALUES ('Moteurs', $1) RETURNING id`, o.SousDirection1)
	insert(&o.Dept2, `INSERT INTO departements (nom, sous_direction_id) VALUES ('Avionique', $1) RETURNING id`, o.SousDirection1)
	insert(&o.Dept3, `INSERT INTO departements (nom, sous_direction_id) VALUES ('Agences', $1) RETURNING id`, o.SousDirection2)
	insert(&o.Function, `INSERT INTO fonctions (nom) VALUES ('Technicien') RETURNING id`)

	return o
}

// seedUser inserts a user and, when available >= 0, a conges row.
func seedUser(t *testing.T, db *database.DB, name string, role user.Role, departmentID, directionID *int64, available int) int64 {
	t.Helper()
	ctx := context.Background()

	var id int64
	err := db.QueryRow(ctx, `
		INSERT INTO users (nomcomplet, email, password_hash, groupeid, matricule, departement_id, direction_id)
		VALUES ($1, $2, 'x', $3, $4, $5, $6)
		RETURNING id
	`, name, name+"@airalgerie.dz", role.Group(), "M-"+name, departmentID, directionID).Scan(&id)
	require.NoError(t, err)

	if available >= 0 {
		_, err = db.Exec(ctx, `INSERT INTO conges (user_id, jours_dispo, jours_pris) VALUES ($1, $2, 0)`, id, available)
		require.NoError(t, err)
	}
	return id
}

func int64Ptr(v int64) *int64 { return &v }
