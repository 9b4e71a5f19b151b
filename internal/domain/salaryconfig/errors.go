package salaryconfig

import "errors"

var (
	ErrSalaryConfigNotFound = errors.New("salary config not found")
	ErrNoActiveSalaryConfig = errors.New("employee has no active salary config")
	ErrLineItemNotFound     = errors.New("line item not found")
	ErrSalaryConfigInactive = errors.New("salary config is not active")
)
