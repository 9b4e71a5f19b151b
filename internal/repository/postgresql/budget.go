package postgresql

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/budget"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/database"
)

type budgetRepository struct {
	db *database.DB
}

func NewBudgetRepository(db *database.DB) budget.BudgetRepository {
	return &budgetRepository{db: db}
}

// category_budgets is stored as JSONB; totals are denormalised for listing.
var budgetColumns = []string{
	"id", "name", "description", "period", "year", "month", "quarter", "category_budgets",
	"total_planned_amount", "total_actual_amount", "total_variance", "variance_percent",
	"status", "last_calculated_at", "notes", "created_by", "created_at", "updated_at",
}

func budgetValues(b budget.Budget) []any {
	return []any{
		b.ID, b.Name, b.Description, b.Period, b.Year, b.Month, b.Quarter, b.CategoryBudgets,
		b.TotalPlannedAmount, b.TotalActualAmount, b.TotalVariance, b.VariancePercent,
		b.Status, b.LastCalculatedAt, b.Notes, b.CreatedBy, b.CreatedAt, b.UpdatedAt,
	}
}

func scanBudget(row rowScanner) (budget.Budget, error) {
	var b budget.Budget
	err := row.Scan(
		&b.ID, &b.Name, &b.Description, &b.Period, &b.Year, &b.Month, &b.Quarter, &b.CategoryBudgets,
		&b.TotalPlannedAmount, &b.TotalActualAmount, &b.TotalVariance, &b.VariancePercent,
		&b.Status, &b.LastCalculatedAt, &b.Notes, &b.CreatedBy, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

func (r *budgetRepository) Create(ctx context.Context, b budget.Budget) (budget.Budget, error) {
	q := GetQuerier(ctx, r.db)

	query, args, err := psql.Insert("budgets").Columns(budgetColumns...).Values(budgetValues(b)...).ToSql()
	if err != nil {
		return budget.Budget{}, err
	}
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return budget.Budget{}, fmt.Errorf("failed to create budget: %w", err)
	}
	return b, nil
}

func (r *budgetRepository) Update(ctx context.Context, b budget.Budget) error {
	q := GetQuerier(ctx, r.db)

	values := budgetValues(b)
	set := make(map[string]any, len(budgetColumns))
	for i, col := range budgetColumns {
		if col == "id" || col == "created_at" {
			continue
		}
		set[col] = values[i]
	}
	query, args, err := psql.Update("budgets").SetMap(set).Where(sq.Eq{"id": b.ID}).ToSql()
	if err != nil {
		return err
	}
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update budget: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return budget.ErrBudgetNotFound
	}
	return nil
}

func (r *budgetRepository) GetByID(ctx context.Context, id string) (budget.Budget, error) {
	q := GetQuerier(ctx, r.db)

	query, args, err := psql.Select(budgetColumns...).From("budgets").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return budget.Budget{}, err
	}
	b, err := scanBudget(q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return budget.Budget{}, budget.ErrBudgetNotFound
		}
		return budget.Budget{}, fmt.Errorf("failed to get budget: %w", err)
	}
	return b, nil
}

func (r *budgetRepository) List(ctx context.Context, f budget.BudgetFilter) ([]budget.Budget, error) {
	q := GetQuerier(ctx, r.db)

	where := sq.Eq{}
	if f.Period != nil {
		where["period"] = *f.Period
	}
	if f.Year != nil {
		where["year"] = *f.Year
	}
	if f.Status != nil {
		where["status"] = *f.Status
	}
	query, args, err := psql.Select(budgetColumns...).
		From("budgets").
		Where(where).
		OrderBy("year DESC", "COALESCE(quarter, 0) DESC", "COALESCE(month, 0) DESC", "created_at DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []budget.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}
