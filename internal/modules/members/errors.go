package members

import "errors"

var (
	ErrInvalidEmail    = errors.New("invalid email")
	ErrNoAccess        = errors.New("no access to member area")
	ErrRateLimited     = errors.New("too many login attempts")
	ErrSessionExpired  = errors.New("session expired")
	ErrSessionNotFound = errors.New("session not found")
)
