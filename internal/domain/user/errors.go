package user

import "errors"

var (
	ErrOwnerAccessRequired     = errors.New("owner access required")
	ErrFinanceAccessRequired   = errors.New("owner, manager or accountant access required")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrInvalidRole             = errors.New("invalid role")
)
