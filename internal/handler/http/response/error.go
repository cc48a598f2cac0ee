package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/auth"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/leave"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/user"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrUserNotFound):
		Unauthorized(w, "User no longer exists")
	case errors.Is(err, auth.ErrDirectionRequired):
		Forbidden(w, "Administrator account has no direction assigned")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")

	// Leave domain errors, by class
	case errors.Is(err, leave.ErrNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, leave.ErrInvalidState):
		InvalidState(w, err.Error())
	case errors.Is(err, leave.ErrForbidden):
		Forbidden(w, err.Error())

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
