package jwt

import (
	"context"
	"testing"

	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt"

func int64Ptr(v int64) *int64 { return &v }

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := NewJWTService(testSecret, "1h", "24h")

	u := user.User{
		ID:           7,
		Email:        "manager@airalgerie.dz",
		Role:         user.RoleManager,
		DepartmentID: int64Ptr(3),
		DirectionID:  int64Ptr(1),
	}
	token, exp, err := svc.GenerateAccessToken(u)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Greater(t, exp, int64(0))

	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)

	actor, err := ActorFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, int64(7), actor.ID)
	assert.Equal(t, user.RoleManager, actor.Role)
	require.NotNil(t, actor.DepartmentID)
	assert.Equal(t, int64(3), *actor.DepartmentID)
	assert.Nil(t, actor.SousDirectionID)
	require.NotNil(t, actor.DirectionID)
	assert.Equal(t, int64(1), *actor.DirectionID)

	jti, ok := claims["jti"].(string)
	require.True(t, ok)
	assert.NotEmpty(t, jti)
}

func TestActorFromClaimsRejectsRefreshToken(t *testing.T) {
	svc := NewJWTService(testSecret, "1h", "24h")

	token, _, err := svc.GenerateRefreshToken(7)
	require.NoError(t, err)

	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)

	_, err = ActorFromClaims(claims)
	assert.Error(t, err)
}

func TestActorFromClaimsUnknownRole(t *testing.T) {
	_, err := ActorFromClaims(map[string]interface{}{
		"type":    TypeAccess,
		"user_id": float64(4),
		"role":    "superuser",
	})
	assert.ErrorIs(t, err, user.ErrUnknownRole)
}

func TestSSEToken(t *testing.T) {
	svc := NewJWTService(testSecret, "1h", "24h")

	token, expiresIn, err := svc.GenerateSSEToken(12)
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	userID, err := svc.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(12), userID)

	access, _, err := svc.GenerateAccessToken(user.User{ID: 12, Role: user.RoleEmployee})
	require.NoError(t, err)
	_, err = svc.ValidateSSEToken(access)
	assert.Error(t, err, "access tokens must not open the stream")

	other := NewJWTService("another-secret", "1h", "24h")
	_, err = other.ValidateSSEToken(token)
	assert.Error(t, err)
}

func TestRevokeToken(t *testing.T) {
	svc := NewJWTService(testSecret, "1h", "24h")

	assert.False(t, svc.IsTokenRevoked("abc"))
	svc.RevokeToken("abc", 1<<40)
	assert.True(t, svc.IsTokenRevoked("abc"))

	// an expired entry is pruned on the next revocation
	svc.RevokeToken("old", 1)
	svc.RevokeToken("new", 1<<40)
	assert.False(t, svc.IsTokenRevoked("old"))
	assert.True(t, svc.IsTokenRevoked("new"))
}

func TestInvalidExpiration(t *testing.T) {
	svc := NewJWTService(testSecret, "soon", "24h")
	_, _, err := svc.GenerateAccessToken(user.User{ID: 1, Role: user.RoleEmployee})
	assert.Error(t, err)
}

func TestClaimInt64(t *testing.T) {
	n, ok := ClaimInt64(float64(42))
	assert.True(t, ok)
	assert.Equal(t, int64(42), n)

	_, ok = ClaimInt64(float64(1.5))
	assert.False(t, ok)

	_, ok = ClaimInt64("42")
	assert.False(t, ok)

	_, ok = ClaimInt64(nil)
	assert.False(t, ok)
}
