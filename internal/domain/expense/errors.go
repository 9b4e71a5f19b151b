package expense

import "errors"

var (
	ErrExpenseNotFound          = errors.New("expense not found")
	ErrExpenseDeleted           = errors.New("expense has been deleted")
	ErrApprovalAlreadyProcessed = errors.New("expense approval already processed")
	ErrInvalidStatusTransition  = errors.New("invalid expense status transition")
	ErrExpensePaid              = errors.New("paid expense cannot be modified")
	ErrCategoryNotFound         = errors.New("expense category not found")
	ErrCategoryCodeExists       = errors.New("expense category code already exists")
	ErrCategoryInactive         = errors.New("expense category is inactive")
	ErrInvalidPeriod            = errors.New("invalid expense period")
)
