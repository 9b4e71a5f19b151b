package budget

import "context"

type BudgetRepository interface {
	Create(ctx context.Context, b Budget) (Budget, error)
	Update(ctx context.Context, b Budget) error
	GetByID(ctx context.Context, id string) (Budget, error)
	List(ctx context.Context, filter BudgetFilter) ([]Budget, error)
}
