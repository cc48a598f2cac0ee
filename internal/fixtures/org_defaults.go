package fixtures

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/user"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/pkg/database"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/repository/postgresql"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrAlreadySeeded is returned when the organisation tables already hold data.
var ErrAlreadySeeded = errors.New("organisation already seeded")

// ==========================================
// DEFINITIONS
// ==========================================

type DirectionDefinition struct {
	Name           string
	Description    string
	SousDirections []SousDirectionDefinition
}

type SousDirectionDefinition struct {
	Name        string
	Departments []string
}

// UserDefinition references its department and function by name.
type UserDefinition struct {
	FullName      string
	Email         string
	Role          user.Role
	Matricule     string
	Department    string
	Function      string
	HireDate      string
	AvailableDays int
}

// ==========================================
// SEEDED DATA RESULT
// ==========================================

// SeededDataIDs holds the IDs of everything Seed inserted, keyed by name.
type SeededDataIDs struct {
	DirectionIDs     map[string]int64
	SousDirectionIDs map[string]int64
	DepartmentIDs    map[string]int64
	FunctionIDs      map[string]int64
	UserIDs          map[string]int64 // by email
}

func NewSeededDataIDs() *SeededDataIDs {
	return &SeededDataIDs{
		DirectionIDs:     make(map[string]int64),
		SousDirectionIDs: make(map[string]int64),
		DepartmentIDs:    make(map[string]int64),
		FunctionIDs:      make(map[string]int64),
		UserIDs:          make(map[string]int64),
	}
}

// ==========================================
// DEFAULT ORGANISATION
// ==========================================

// GetDefaultDirections returns the direction tree used for local environments.
func GetDefaultDirections() []DirectionDefinition {
	return []DirectionDefinition{
		{
			Name:        "Direction Technique",
			Description: "Maintenance et ingénierie de la flotte",
			SousDirections: []SousDirectionDefinition{
				{Name: "Maintenance", Departments: []string{"Moteurs", "Avionique"}},
				{Name: "Ingénierie", Departments: []string{"Structures"}},
			},
		},
		{
			Name:        "Direction Commerciale",
			Description: "Ventes et relation client",
			SousDirections: []SousDirectionDefinition{
				{Name: "Ventes", Departments: []string{"Agences", "Centre d'appels"}},
				{Name: "Marketing", Departments: []string{"Communication"}},
			},
		},
		{
			Name:        "Direction des Ressources Humaines",
			Description: "Gestion du personnel",
			SousDirections: []SousDirectionDefinition{
				{Name: "Administration du personnel", Departments: []string{"Gestion des congés", "Paie"}},
			},
		},
	}
}

func GetDefaultFunctions() []string {
	return []string{
		"Directeur",
		"Sous-directeur",
		"Chef de département",
		"Technicien",
		"Ingénieur",
		"Agent commercial",
		"Gestionnaire RH",
		"Assistant de direction",
	}
}

// GetDemoUsers returns one account per role plus a few employees spread
// over two directions so scope rules can be tried by hand.
func GetDemoUsers() []UserDefinition {
	return []UserDefinition{
		{FullName: "Karim Benali", Email: "directeur.technique@airalgerie.dz", Role: user.RoleDirector, Matricule: "AH-0001", Department: "Moteurs", Function: "Directeur", HireDate: "2004-09-01", AvailableDays: 30},
		{FullName: "Nadia Hamidi", Email: "sd.maintenance@airalgerie.dz", Role: user.RoleSousDirector, Matricule: "AH-0002", Department: "Moteurs", Function: "Sous-directeur", HireDate: "2008-02-15", AvailableDays: 30},
		{FullName: "Yacine Mansouri", Email: "chef.moteurs@airalgerie.dz", Role: user.RoleManager, Matricule: "AH-0003", Department: "Moteurs", Function: "Chef de département", HireDate: "2011-06-01", AvailableDays: 30},
		{FullName: "Amine Cherif", Email: "amine.cherif@airalgerie.dz", Role: user.RoleEmployee, Matricule: "AH-0101", Department: "Moteurs", Function: "Technicien", HireDate: "2017-03-12", AvailableDays: 30},
		{FullName: "Sofiane Belkacem", Email: "sofiane.belkacem@airalgerie.dz", Role: user.RoleEmployee, Matricule: "AH-0102", Department: "Moteurs", Function: "Technicien", HireDate: "2019-10-01", AvailableDays: 22},
		{FullName: "Lina Ouali", Email: "lina.ouali@airalgerie.dz", Role: user.RoleEmployee, Matricule: "AH-0103", Department: "Avionique", Function: "Ingénieur", HireDate: "2020-01-06", AvailableDays: 30},
		{FullName: "Rachid Saadi", Email: "admin.technique@airalgerie.dz", Role: user.RoleAdmin, Matricule: "AH-0004", Department: "Structures", Function: "Assistant de direction", HireDate: "2010-05-03", AvailableDays: 30},
		{FullName: "Samia Toumi", Email: "rh@airalgerie.dz", Role: user.RoleHR, Matricule: "AH-0201", Department: "Gestion des congés", Function: "Gestionnaire RH", HireDate: "2009-11-20", AvailableDays: 30},
		{FullName: "Mourad Ziani", Email: "directeur.commercial@airalgerie.dz", Role: user.RoleDirector, Matricule: "AH-0301", Department: "Agences", Function: "Directeur", HireDate: "2006-04-01", AvailableDays: 30},
		{FullName: "Imane Kaci", Email: "chef.agences@airalgerie.dz", Role: user.RoleManager, Matricule: "AH-0302", Department: "Agences", Function: "Chef de département", HireDate: "2013-09-15", AvailableDays: 30},
		{FullName: "Walid Rahmani", Email: "walid.rahmani@airalgerie.dz", Role: user.RoleEmployee, Matricule: "AH-0303", Department: "Agences", Function: "Agent commercial", HireDate: "2021-02-01", AvailableDays: 15},
	}
}

// ==========================================
// SEEDING
// ==========================================

type departmentPlacement struct {
	id              int64
	sousDirectionID int64
	directionID     int64
}

// Seed inserts the default organisation and demo users in one transaction.
// Every demo account gets password and a conges row.
func Seed(ctx context.Context, db *database.DB, password string) (*SeededDataIDs, error) {
	var existing int64
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM directions`).Scan(&existing); err != nil {
		return nil, fmt.Errorf("count directions: %w", err)
	}
	if existing > 0 {
		return nil, ErrAlreadySeeded
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	ids := NewSeededDataIDs()
	placements := make(map[string]departmentPlacement)

	err = postgresql.WithTransaction(ctx, db, func(tx pgx.Tx) error {
		for _, d := range GetDefaultDirections() {
			var directionID int64
			if err := tx.QueryRow(ctx,
				`INSERT INTO directions (nom, description) VALUES ($1, $2) RETURNING id`,
				d.Name, d.Description,
			).Scan(&directionID); err != nil {
				return fmt.Errorf("insert direction %q: %w", d.Name, err)
			}
			ids.DirectionIDs[d.Name] = directionID

			for _, sd := range d.SousDirections {
				var sousDirectionID int64
				if err := tx.QueryRow(ctx,
					`INSERT INTO sous_direction (nom, direction_id) VALUES ($1, $2) RETURNING id`,
					sd.Name, directionID,
				).Scan(&sousDirectionID); err != nil {
					return fmt.Errorf("insert sous-direction %q: %w", sd.Name, err)
				}
				ids.SousDirectionIDs[sd.Name] = sousDirectionID

				for _, dept := range sd.Departments {
					var departmentID int64
					if err := tx.QueryRow(ctx,
						`INSERT INTO departements (nom, sous_direction_id) VALUES ($1, $2) RETURNING id`,
						dept, sousDirectionID,
					).Scan(&departmentID); err != nil {
						return fmt.Errorf("insert department %q: %w", dept, err)
					}
					ids.DepartmentIDs[dept] = departmentID
					placements[dept] = departmentPlacement{
						id:              departmentID,
						sousDirectionID: sousDirectionID,
						directionID:     directionID,
					}
				}
			}
		}

		for _, name := range GetDefaultFunctions() {
			var functionID int64
			if err := tx.QueryRow(ctx,
				`INSERT INTO fonctions (nom) VALUES ($1) RETURNING id`, name,
			).Scan(&functionID); err != nil {
				return fmt.Errorf("insert function %q: %w", name, err)
			}
			ids.FunctionIDs[name] = functionID
		}

		for _, u := range GetDemoUsers() {
			place, ok := placements[u.Department]
			if !ok {
				return fmt.Errorf("user %s: unknown department %q", u.Email, u.Department)
			}
			functionID, ok := ids.FunctionIDs[u.Function]
			if !ok {
				return fmt.Errorf("user %s: unknown function %q", u.Email, u.Function)
			}
			hireDate, err := time.Parse(time.DateOnly, u.HireDate)
			if err != nil {
				return fmt.Errorf("user %s: %w", u.Email, err)
			}

			var userID int64
			if err := tx.QueryRow(ctx, `
				INSERT INTO users (nomcomplet, email, password_hash, groupeid, matricule, departement_id, fonction_id, direction_id, date_entree)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				RETURNING id
			`, u.FullName, u.Email, string(hash), u.Role.Group(), u.Matricule, place.id, functionID, place.directionID, hireDate,
			).Scan(&userID); err != nil {
				return fmt.Errorf("insert user %s: %w", u.Email, err)
			}
			ids.UserIDs[u.Email] = userID

			if _, err := tx.Exec(ctx, `
				INSERT INTO conges (user_id, jours_dispo, jours_pris, departement_id, sous_direction_id, direction_id, fonction_id)
				VALUES ($1, $2, 0, $3, $4, $5, $6)
			`, userID, u.AvailableDays, place.id, place.sousDirectionID, place.directionID, functionID); err != nil {
				return fmt.Errorf("insert balance for %s: %w", u.Email, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ids, nil
}
