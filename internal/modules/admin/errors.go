package admin

import "errors"

var (
	ErrNotAdmin               = errors.New("admin access required")
	ErrUserNotFound           = errors.New("user not found")
	ErrProductNotFound        = errors.New("product not found")
	ErrNotSeller              = errors.New("target is not a seller")
	ErrInvalidRetention       = errors.New("retention must be between 0 and 100")
	ErrInvalidDuration        = errors.New("impersonation lasts 1 to 60 minutes")
	ErrCannotImpersonateAdmin = errors.New("admins cannot be impersonated")
	ErrReasonRequired         = errors.New("reason is required")
)
