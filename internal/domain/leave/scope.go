package leave

import (
	"slices"

	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/user"
)

// Scope is a predicate over request owners. It is evaluated in memory with
// Matches and translated to SQL by the repository, so both paths agree.
// The zero value matches nothing.
type Scope struct {
	All bool

	// OwnerID includes the requests owned by this user.
	OwnerID *int64

	// Organisational rule: requesters holding one of Roles, inside the
	// department and/or direction below. An empty Roles disables the rule.
	Roles        []user.Role
	DepartmentID *int64
	DirectionID  *int64

	// ExcludeID never matches, even when another rule does.
	ExcludeID *int64
}

// Matches reports whether a request owned by p falls inside the scope.
func (s Scope) Matches(p Position) bool {
	if s.ExcludeID != nil && p.UserID == *s.ExcludeID {
		return false
	}
	if s.All {
		return true
	}
	if s.OwnerID != nil && p.UserID == *s.OwnerID {
		return true
	}
	return s.matchesOrg(p)
}

// IsEmpty reports whether the scope can never match.
func (s Scope) IsEmpty() bool {
	return !s.All && s.OwnerID == nil && len(s.Roles) == 0
}

func (s Scope) matchesOrg(p Position) bool {
	if len(s.Roles) == 0 || !slices.Contains(s.Roles, p.Role) {
		return false
	}
	if s.DepartmentID != nil && !sameID(s.DepartmentID, p.DepartmentID) {
		return false
	}
	if s.DirectionID != nil && !sameID(s.DirectionID, p.DirectionID) {
		return false
	}
	return true
}

func sameID(a, b *int64) bool {
	return a != nil && b != nil && *a == *b
}

var allRoles = []user.Role{
	user.RoleEmployee,
	user.RoleManager,
	user.RoleSousDirector,
	user.RoleHR,
	user.RoleDirector,
	user.RoleAdmin,
}

// Policy holds the approval rules that are a product decision rather than a
// fixed law of the hierarchy.
type Policy struct {
	HRApproves    []user.Role
	AdminApproves []user.Role
}

// DefaultPolicy lets HR decide on requests from HR staff of the same
// direction. Administrators only observe.
func DefaultPolicy() Policy {
	return Policy{
		HRApproves:    []user.Role{user.RoleHR},
		AdminApproves: nil,
	}
}

// ViewScope returns the requests an actor may read.
func (p Policy) ViewScope(a user.Actor) Scope {
	if a.IsSystem() {
		return Scope{All: true}
	}

	owner := a.ID
	s := Scope{OwnerID: &owner}

	switch a.Role {
	case user.RoleManager:
		s = withOrg(s, []user.Role{user.RoleEmployee}, a.DepartmentID, nil)
	case user.RoleSousDirector:
		s = withOrg(s, []user.Role{user.RoleManager}, nil, a.DirectionID)
	case user.RoleDirector:
		s = withOrg(s, []user.Role{
			user.RoleEmployee,
			user.RoleManager,
			user.RoleSousDirector,
			user.RoleDirector,
		}, nil, a.DirectionID)
	case user.RoleHR, user.RoleAdmin:
		s = withOrg(s, allRoles, nil, a.DirectionID)
	}

	return s
}

// ApproveScope returns the requests an actor may approve or reject. An
// actor never decides on their own request.
func (p Policy) ApproveScope(a user.Actor) Scope {
	if a.IsSystem() {
		return Scope{}
	}

	self := a.ID
	s := Scope{ExcludeID: &self}

	switch a.Role {
	case user.RoleManager:
		s = withOrg(s, []user.Role{user.RoleEmployee}, a.DepartmentID, nil)
	case user.RoleSousDirector:
		s = withOrg(s, []user.Role{user.RoleManager}, nil, a.DirectionID)
	case user.RoleDirector:
		s = withOrg(s, []user.Role{user.RoleSousDirector}, nil, a.DirectionID)
	case user.RoleHR:
		s = withOrg(s, p.HRApproves, nil, a.DirectionID)
	case user.RoleAdmin:
		s = withOrg(s, p.AdminApproves, nil, a.DirectionID)
	}

	return s
}

// withOrg installs the organisational rule only when its anchor is known.
// An actor without a department or direction gets no organisational reach.
func withOrg(s Scope, roles []user.Role, departmentID, directionID *int64) Scope {
	if len(roles) == 0 || (departmentID == nil && directionID == nil) {
		return s
	}
	s.Roles = roles
	s.DepartmentID = departmentID
	s.DirectionID = directionID
	return s
}
