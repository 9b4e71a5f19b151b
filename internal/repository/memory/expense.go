package memory

import (
	"cmp"
	"context"
	"slices"
	"sync/atomic"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/expense"
)

type expenseRepository struct {
	t   *table[expense.Expense]
	seq atomic.Int64
}

func NewExpenseRepository() expense.ExpenseRepository {
	return &expenseRepository{t: newTable[expense.Expense]()}
}

func (r *expenseRepository) Create(ctx context.Context, e expense.Expense) (expense.Expense, error) {
	r.t.put(e.ID, e)
	return e, nil
}

func (r *expenseRepository) Update(ctx context.Context, e expense.Expense) error {
	if _, ok := r.t.get(e.ID); !ok {
		return expense.ErrExpenseNotFound
	}
	r.t.put(e.ID, e)
	return nil
}

func (r *expenseRepository) GetByID(ctx context.Context, id string) (expense.Expense, error) {
	e, ok := r.t.get(id)
	if !ok {
		return expense.Expense{}, expense.ErrExpenseNotFound
	}
	return e, nil
}

func (r *expenseRepository) List(ctx context.Context, f expense.ExpenseFilter) ([]expense.Expense, error) {
	rows := r.t.filter(func(e expense.Expense) bool {
		if !f.IncludeDeleted && e.IsDeleted() {
			return false
		}
		if f.Type != nil && e.Type != *f.Type {
			return false
		}
		if f.Category != nil && e.Category != *f.Category {
			return false
		}
		if f.Status != nil && e.Status != *f.Status {
			return false
		}
		if f.ApprovalStatus != nil && e.ApprovalStatus != *f.ApprovalStatus {
			return false
		}
		if len(f.Periods) > 0 && !slices.Contains(f.Periods, e.AccountingPeriod) {
			return false
		}
		if f.DueBefore != nil && (e.DueDate == nil || !e.DueDate.Before(*f.DueBefore)) {
			return false
		}
		if f.DueAfter != nil && (e.DueDate == nil || e.DueDate.Before(*f.DueAfter)) {
			return false
		}
		if f.Search != nil {
			vendor := ""
			if e.VendorName != nil {
				vendor = *e.VendorName
			}
			if !containsFold(e.Title, *f.Search) && !containsFold(e.ExpenseNumber, *f.Search) && !containsFold(vendor, *f.Search) {
				return false
			}
		}
		return true
	}, func(a, b expense.Expense) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ExpenseNumber, a.ExpenseNumber)
	})
	return page(rows, f.Limit, f.Offset), nil
}

func (r *expenseRepository) NextSequence(ctx context.Context) (int64, error) {
	return r.seq.Add(1), nil
}

type categoryRepository struct {
	t *table[expense.ExpenseCategory]
}

func NewCategoryRepository() expense.CategoryRepository {
	return &categoryRepository{t: newTable[expense.ExpenseCategory]()}
}

func (r *categoryRepository) Create(ctx context.Context, c expense.ExpenseCategory) (expense.ExpenseCategory, error) {
	dup := r.t.filter(func(x expense.ExpenseCategory) bool { return x.Code == c.Code }, nil)
	if len(dup) > 0 {
		return expense.ExpenseCategory{}, expense.ErrCategoryCodeExists
	}
	r.t.put(c.ID, c)
	return c, nil
}

func (r *categoryRepository) Update(ctx context.Context, c expense.ExpenseCategory) error {
	if _, ok := r.t.get(c.ID); !ok {
		return expense.ErrCategoryNotFound
	}
	r.t.put(c.ID, c)
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (expense.ExpenseCategory, error) {
	c, ok := r.t.get(id)
	if !ok {
		return expense.ExpenseCategory{}, expense.ErrCategoryNotFound
	}
	return c, nil
}

func (r *categoryRepository) List(ctx context.Context, activeOnly bool) ([]expense.ExpenseCategory, error) {
	return r.t.filter(func(c expense.ExpenseCategory) bool {
		return !activeOnly || c.Active
	}, func(a, b expense.ExpenseCategory) int {
		return cmp.Compare(a.Code, b.Code)
	}), nil
}
