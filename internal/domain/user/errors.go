package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUnknownRole             = errors.New("unknown user role")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)
