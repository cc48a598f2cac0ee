package postgresql

import (
	"strconv"
	"strings"

	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/leave"
)

// Joins every scoped query needs to evaluate a requester position. The owner
// is aliased u; its effective direction comes from the user row or from the
// sub-direction of its department.
const requesterJoins = `
	LEFT JOIN departements dep ON dep.id = u.departement_id
	LEFT JOIN sous_direction sd ON sd.id = dep.sous_direction_id`

const requesterDirection = "COALESCE(u.direction_id, sd.direction_id)"

// queryArgs collects positional arguments.
type queryArgs []any

func (a *queryArgs) bind(v any) string {
	*a = append(*a, v)
	return "$" + strconv.Itoa(len(*a))
}

// scopeCondition translates a scope into a boolean SQL expression over the
// owner id column and the requester joins. It mirrors leave.Scope.Matches.
func scopeCondition(s leave.Scope, ownerCol string, args *queryArgs) string {
	var cond string

	if s.All {
		cond = "TRUE"
	} else {
		var parts []string
		if s.OwnerID != nil {
			parts = append(parts, ownerCol+" = "+args.bind(*s.OwnerID))
		}
		if len(s.Roles) > 0 {
			groups := make([]int16, 0, len(s.Roles))
			for _, r := range s.Roles {
				groups = append(groups, r.Group())
			}
			org := []string{"u.groupeid = ANY(" + args.bind(groups) + ")"}
			if s.DepartmentID != nil {
				org = append(org, "u.departement_id = "+args.bind(*s.DepartmentID))
			}
			if s.DirectionID != nil {
				org = append(org, requesterDirection+" = "+args.bind(*s.DirectionID))
			}
			parts = append(parts, "("+strings.Join(org, " AND ")+")")
		}

		switch len(parts) {
		case 0:
			cond = "FALSE"
		case 1:
			cond = parts[0]
		default:
			cond = "(" + strings.Join(parts, " OR ") + ")"
		}
	}

	if s.ExcludeID != nil {
		cond = "(" + cond + " AND " + ownerCol + " <> " + args.bind(*s.ExcludeID) + ")"
	}

	return cond
}
