package expense

import "context"

type ExpenseRepository interface {
	Create(ctx context.Context, e Expense) (Expense, error)
	Update(ctx context.Context, e Expense) error
	GetByID(ctx context.Context, id string) (Expense, error)
	// List excludes deleted expenses unless filter.IncludeDeleted is set.
	List(ctx context.Context, filter ExpenseFilter) ([]Expense, error)
	// NextSequence returns a monotonically increasing number for expense numbering.
	NextSequence(ctx context.Context) (int64, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, c ExpenseCategory) (ExpenseCategory, error)
	Update(ctx context.Context, c ExpenseCategory) error
	GetByID(ctx context.Context, id string) (ExpenseCategory, error)
	List(ctx context.Context, activeOnly bool) ([]ExpenseCategory, error)
}
