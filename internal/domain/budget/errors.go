package budget

import "errors"

var (
	ErrBudgetNotFound          = errors.New("budget not found")
	ErrInvalidStatusTransition = errors.New("invalid budget status transition")
	ErrBudgetClosed            = errors.New("budget is completed or cancelled")
	ErrNoCategories            = errors.New("no active expense categories to build a budget from")
	ErrCategoryNotInBudget     = errors.New("category is not part of this budget")
	ErrInvalidPeriod           = errors.New("invalid budget period")
)
