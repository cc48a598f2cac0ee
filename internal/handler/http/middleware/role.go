package middleware

import (
	"fmt"
	"net/http"

	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/user"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/handler/http/response"
)

// RequirePermission checks if user has specific permission
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s'", permission))
				return
			}

			if !user.HasPermission(actor.Role, permission) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but user role is '%s'", permission, actor.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnyPermission passes when the role holds at least one permission.
func RequireAnyPermission(permissions ...user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if ok {
				for _, p := range permissions {
					if user.HasPermission(actor.Role, p) {
						next.ServeHTTP(w, r)
						return
					}
				}
			}
			response.HandleError(w, user.ErrInsufficientPermissions)
		})
	}
}
