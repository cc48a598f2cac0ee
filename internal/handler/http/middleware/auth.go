package middleware

import (
	"context"
	"net/http"

	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/auth"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/user"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/handler/http/response"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type actorKey struct{}

// AuthRequired accepts verified, unrevoked access tokens and stores the
// caller as a user.Actor on the request context.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if jti, _ := claims["jti"].(string); jti == "" || jwtService.IsTokenRevoked(jti) {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			actor, err := jwt.ActorFromClaims(claims)
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		}
		return http.HandlerFunc(hfn)
	}
}

// WithActor returns a context carrying the authenticated caller.
func WithActor(ctx context.Context, actor user.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the caller stored by AuthRequired.
func ActorFromContext(ctx context.Context) (user.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(user.Actor)
	return actor, ok
}
