package user

import "time"

type Role string

const (
	RoleEmployee     Role = "employee"      // Regular employee
	RoleManager      Role = "manager"       // Heads a department
	RoleSousDirector Role = "sous_director" // Heads a sub-direction
	RoleHR           Role = "hr"            // Human resources
	RoleDirector     Role = "director"      // Heads a direction
	RoleAdmin        Role = "admin"         // Direction administration
)

// groupeid codes stored in users.groupeid
var roleByGroup = map[int16]Role{
	0: RoleEmployee,
	1: RoleManager,
	2: RoleSousDirector,
	3: RoleHR,
	4: RoleDirector,
	5: RoleAdmin,
}

// RoleFromGroup converts the stored group code into a Role.
func RoleFromGroup(group int16) (Role, bool) {
	role, ok := roleByGroup[group]
	return role, ok
}

// Group returns the stored group code of the role, or -1 if unknown.
func (r Role) Group() int16 {
	for group, role := range roleByGroup {
		if role == r {
			return group
		}
	}
	return -1
}

func (r Role) Valid() bool {
	return r.Group() >= 0
}

// ParseRoles parses role names, skipping unknown entries.
func ParseRoles(values []string) []Role {
	var roles []Role
	for _, v := range values {
		role := Role(v)
		if role.Valid() {
			roles = append(roles, role)
		}
	}
	return roles
}

type User struct {
	ID              int64
	FullName        string
	Email           string
	PasswordHash    string
	Role            Role
	Matricule       *string
	Phone           *string
	DepartmentID    *int64
	SousDirectionID *int64
	DirectionID     *int64
	FunctionID      *int64
	HireDate        *time.Time

	// Joined names
	DepartmentName *string
	FunctionName   *string
	DirectionName  *string
}

// Actor is the authenticated caller of a workflow operation.
type Actor struct {
	ID              int64
	Role            Role
	DepartmentID    *int64
	SousDirectionID *int64
	DirectionID     *int64
}

// SystemActor is used by background jobs. It is not a real user.
var SystemActor = Actor{ID: 0, Role: RoleAdmin}

func (a Actor) IsSystem() bool {
	return a.ID == 0
}

// Actor returns the actor view of the user.
func (u *User) Actor() Actor {
	return Actor{
		ID:              u.ID,
		Role:            u.Role,
		DepartmentID:    u.DepartmentID,
		SousDirectionID: u.SousDirectionID,
		DirectionID:     u.DirectionID,
	}
}

// IsAdmin checks if user belongs to direction administration
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
