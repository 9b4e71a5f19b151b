package payment

import "errors"

var (
	ErrOrderNotFound   = errors.New("payment order not found")
	ErrOrderCodeExists = errors.New("payment order code already exists")
	ErrOrderFinalized  = errors.New("payment order is no longer pending")
	ErrInvalidPeriod   = errors.New("invalid revenue period")
)
