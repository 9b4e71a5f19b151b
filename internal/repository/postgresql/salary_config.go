package postgresql

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/salaryconfig"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/database"
)

type salaryConfigRepository struct {
	db *database.DB
}

func NewSalaryConfigRepository(db *database.DB) salaryconfig.SalaryConfigRepository {
	return &salaryConfigRepository{db: db}
}

var salaryConfigColumns = []string{
	"id", "employee_id", "employee_name", "role", "salary_type", "base_salary", "hourly_rate",
	"commission", "allowances", "deductions", "total_allowances", "total_deductions",
	"tax_rate", "social_insurance", "health_insurance", "unemployment_insurance",
	"standard_work_hours", "overtime_rate", "status", "effective_date", "end_date",
	"notes", "created_by", "created_at", "updated_at",
}

func salaryConfigValues(c salaryconfig.SalaryConfig) []any {
	return []any{
		c.ID, c.EmployeeID, c.EmployeeName, c.Role, c.SalaryType, c.BaseSalary, c.HourlyRate,
		c.Commission, c.Allowances, c.Deductions, c.TotalAllowances, c.TotalDeductions,
		c.TaxRate, c.SocialInsurance, c.HealthInsurance, c.UnemploymentInsurance,
		c.StandardWorkHours, c.OvertimeRate, c.Status, c.EffectiveDate, c.EndDate,
		c.Notes, c.CreatedBy, c.CreatedAt, c.UpdatedAt,
	}
}

func scanSalaryConfig(row rowScanner) (salaryconfig.SalaryConfig, error) {
	var c salaryconfig.SalaryConfig
	err := row.Scan(
		&c.ID, &c.EmployeeID, &c.EmployeeName, &c.Role, &c.SalaryType, &c.BaseSalary, &c.HourlyRate,
		&c.Commission, &c.Allowances, &c.Deductions, &c.TotalAllowances, &c.TotalDeductions,
		&c.TaxRate, &c.SocialInsurance, &c.HealthInsurance, &c.UnemploymentInsurance,
		&c.StandardWorkHours, &c.OvertimeRate, &c.Status, &c.EffectiveDate, &c.EndDate,
		&c.Notes, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

func (r *salaryConfigRepository) Create(ctx context.Context, cfg salaryconfig.SalaryConfig) (salaryconfig.SalaryConfig, error) {
	q := GetQuerier(ctx, r.db)

	query, args, err := psql.Insert("salary_configs").
		Columns(salaryConfigColumns...).
		Values(salaryConfigValues(cfg)...).
		ToSql()
	if err != nil {
		return salaryconfig.SalaryConfig{}, err
	}
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return salaryconfig.SalaryConfig{}, fmt.Errorf("failed to create salary config: %w", err)
	}
	return cfg, nil
}

func (r *salaryConfigRepository) Update(ctx context.Context, cfg salaryconfig.SalaryConfig) error {
	q := GetQuerier(ctx, r.db)

	values := salaryConfigValues(cfg)
	set := make(map[string]any, len(salaryConfigColumns))
	for i, col := range salaryConfigColumns {
		if col == "id" || col == "created_at" {
			continue
		}
		set[col] = values[i]
	}
	query, args, err := psql.Update("salary_configs").SetMap(set).Where(sq.Eq{"id": cfg.ID}).ToSql()
	if err != nil {
		return err
	}
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update salary config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return salaryconfig.ErrSalaryConfigNotFound
	}
	return nil
}

func (r *salaryConfigRepository) GetByID(ctx context.Context, id string) (salaryconfig.SalaryConfig, error) {
	q := GetQuerier(ctx, r.db)

	query, args, err := psql.Select(salaryConfigColumns...).From("salary_configs").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return salaryconfig.SalaryConfig{}, err
	}
	c, err := scanSalaryConfig(q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return salaryconfig.SalaryConfig{}, salaryconfig.ErrSalaryConfigNotFound
		}
		return salaryconfig.SalaryConfig{}, fmt.Errorf("failed to get salary config: %w", err)
	}
	return c, nil
}

func (r *salaryConfigRepository) GetActiveByEmployeeID(ctx context.Context, employeeID string) (salaryconfig.SalaryConfig, error) {
	q := GetQuerier(ctx, r.db)

	query, args, err := psql.Select(salaryConfigColumns...).
		From("salary_configs").
		Where(sq.Eq{"employee_id": employeeID, "status": salaryconfig.StatusActive}).
		OrderBy("effective_date DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return salaryconfig.SalaryConfig{}, err
	}
	c, err := scanSalaryConfig(q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return salaryconfig.SalaryConfig{}, salaryconfig.ErrNoActiveSalaryConfig
		}
		return salaryconfig.SalaryConfig{}, fmt.Errorf("failed to get active salary config: %w", err)
	}
	return c, nil
}

func (r *salaryConfigRepository) List(ctx context.Context, f salaryconfig.SalaryConfigFilter) ([]salaryconfig.SalaryConfig, error) {
	q := GetQuerier(ctx, r.db)

	where := sq.And{}
	if f.Role != nil {
		where = append(where, sq.Eq{"role": *f.Role})
	}
	if f.Status != nil {
		where = append(where, sq.Eq{"status": *f.Status})
	}
	if f.SalaryType != nil {
		where = append(where, sq.Eq{"salary_type": *f.SalaryType})
	}
	if f.Search != nil && *f.Search != "" {
		like := "%" + *f.Search + "%"
		where = append(where, sq.Or{sq.ILike{"employee_name": like}, sq.ILike{"employee_id": like}})
	}

	query, args, err := psql.Select(salaryConfigColumns...).
		From("salary_configs").
		Where(where).
		OrderBy("employee_name", "effective_date DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary configs: %w", err)
	}
	defer rows.Close()

	var configs []salaryconfig.SalaryConfig
	for rows.Next() {
		c, err := scanSalaryConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary config: %w", err)
		}
		configs = append(configs, c)
	}
	return configs, rows.Err()
}

func (r *salaryConfigRepository) ListActive(ctx context.Context) ([]salaryconfig.SalaryConfig, error) {
	active := salaryconfig.StatusActive
	return r.List(ctx, salaryconfig.SalaryConfigFilter{Status: &active})
}
