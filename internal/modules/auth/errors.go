package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrAccountBanned      = errors.New("account banned")
	ErrRateLimited        = errors.New("too many login attempts")
	ErrOAuthDisabled      = errors.New("google sign-in is not configured")
	ErrUnauthorized       = errors.New("unauthorized")
)
