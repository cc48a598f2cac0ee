package auth

import (
	"context"

	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/user"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest, session SessionTrackingRequest) (TokenResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	Logout(ctx context.Context, req LogoutRequest) error
	Me(ctx context.Context, actor user.Actor) (user.UserResponse, error)
	SSEToken(ctx context.Context, actor user.Actor) (SSETokenResponse, error)
}
