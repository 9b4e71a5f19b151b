package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/budget"
)

type budgetRepository struct {
	t *table[budget.Budget]
}

func NewBudgetRepository() budget.BudgetRepository {
	return &budgetRepository{t: newTable[budget.Budget]()}
}

func cloneBudget(b budget.Budget) budget.Budget {
	b.CategoryBudgets = slices.Clone(b.CategoryBudgets)
	return b
}

func (r *budgetRepository) Create(ctx context.Context, b budget.Budget) (budget.Budget, error) {
	r.t.put(b.ID, cloneBudget(b))
	return b, nil
}

func (r *budgetRepository) Update(ctx context.Context, b budget.Budget) error {
	if _, ok := r.t.get(b.ID); !ok {
		return budget.ErrBudgetNotFound
	}
	r.t.put(b.ID, cloneBudget(b))
	return nil
}

func (r *budgetRepository) GetByID(ctx context.Context, id string) (budget.Budget, error) {
	b, ok := r.t.get(id)
	if !ok {
		return budget.Budget{}, budget.ErrBudgetNotFound
	}
	return cloneBudget(b), nil
}

func (r *budgetRepository) List(ctx context.Context, f budget.BudgetFilter) ([]budget.Budget, error) {
	rows := r.t.filter(func(b budget.Budget) bool {
		if f.Period != nil && b.Period != *f.Period {
			return false
		}
		if f.Year != nil && b.Year != *f.Year {
			return false
		}
		if f.Status != nil && b.Status != *f.Status {
			return false
		}
		return true
	}, func(a, b budget.Budget) int {
		if c := cmp.Compare(b.Year, a.Year); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	for i := range rows {
		rows[i] = cloneBudget(rows[i])
	}
	return rows, nil
}
