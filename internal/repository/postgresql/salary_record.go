package postgresql

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/database"
)

type salaryRecordRepository struct {
	db *database.DB
}

func NewSalaryRecordRepository(db *database.DB) salary.SalaryRecordRepository {
	return &salaryRecordRepository{db: db}
}

var salaryRecordColumns = []string{
	"id", "employee_id", "employee_name", "role", "salary_config_id", "month", "year",
	"salary_type", "base_salary", "hourly_rate",
	"standard_work_days", "actual_work_days", "absent_days", "late_days", "overtime_hours", "overtime_rate",
	"bonus_amount", "bonus_reason", "penalty_amount", "penalty_reason",
	"commission", "commission_rate", "sales_amount", "allowances", "deductions",
	"prorated_base", "overtime_pay", "gross_salary", "net_salary",
	"status", "approved_by", "approved_at", "paid_at", "notes", "created_at", "updated_at",
}

func salaryRecordValues(r salary.SalaryRecord) []any {
	return []any{
		r.ID, r.EmployeeID, r.EmployeeName, r.Role, r.ConfigID, r.Month, r.Year,
		r.SalaryType, r.BaseSalary, r.HourlyRate,
		r.StandardWorkDays, r.ActualWorkDays, r.AbsentDays, r.LateDays, r.OvertimeHours, r.OvertimeRate,
		r.Bonus.Amount, r.Bonus.Reason, r.Penalty.Amount, r.Penalty.Reason,
		r.Commission, r.CommissionRate, r.SalesAmount, r.Allowances, r.Deductions,
		r.ProratedBase, r.OvertimePay, r.GrossSalary, r.NetSalary,
		r.Status, r.ApprovedBy, r.ApprovedAt, r.PaidAt, r.Notes, r.CreatedAt, r.UpdatedAt,
	}
}

func scanSalaryRecord(row rowScanner) (salary.SalaryRecord, error) {
	var r salary.SalaryRecord
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.EmployeeName, &r.Role, &r.ConfigID, &r.Month, &r.Year,
		&r.SalaryType, &r.BaseSalary, &r.HourlyRate,
		&r.StandardWorkDays, &r.ActualWorkDays, &r.AbsentDays, &r.LateDays, &r.OvertimeHours, &r.OvertimeRate,
		&r.Bonus.Amount, &r.Bonus.Reason, &r.Penalty.Amount, &r.Penalty.Reason,
		&r.Commission, &r.CommissionRate, &r.SalesAmount, &r.Allowances, &r.Deductions,
		&r.ProratedBase, &r.OvertimePay, &r.GrossSalary, &r.NetSalary,
		&r.Status, &r.ApprovedBy, &r.ApprovedAt, &r.PaidAt, &r.Notes, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

func (r *salaryRecordRepository) Create(ctx context.Context, rec salary.SalaryRecord) (salary.SalaryRecord, error) {
	q := GetQuerier(ctx, r.db)

	query, args, err := psql.Insert("salary_records").
		Columns(salaryRecordColumns...).
		Values(salaryRecordValues(rec)...).
		ToSql()
	if err != nil {
		return salary.SalaryRecord{}, err
	}
	if _, err := q.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err, "uk_salary_records_employee_period") {
			return salary.SalaryRecord{}, salary.ErrSalaryRecordExists
		}
		return salary.SalaryRecord{}, fmt.Errorf("failed to create salary record: %w", err)
	}
	return rec, nil
}

func (r *salaryRecordRepository) Update(ctx context.Context, rec salary.SalaryRecord) error {
	q := GetQuerier(ctx, r.db)

	values := salaryRecordValues(rec)
	set := make(map[string]any, len(salaryRecordColumns))
	for i, col := range salaryRecordColumns {
		switch col {
		case "id", "employee_id", "month", "year", "created_at":
			continue
		}
		set[col] = values[i]
	}
	query, args, err := psql.Update("salary_records").SetMap(set).Where(sq.Eq{"id": rec.ID}).ToSql()
	if err != nil {
		return err
	}
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update salary record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return salary.ErrSalaryRecordNotFound
	}
	return nil
}

func (r *salaryRecordRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, "DELETE FROM salary_records WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete salary record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return salary.ErrSalaryRecordNotFound
	}
	return nil
}

func (r *salaryRecordRepository) getOne(ctx context.Context, where sq.Eq) (salary.SalaryRecord, error) {
	q := GetQuerier(ctx, r.db)

	query, args, err := psql.Select(salaryRecordColumns...).From("salary_records").Where(where).ToSql()
	if err != nil {
		return salary.SalaryRecord{}, err
	}
	rec, err := scanSalaryRecord(q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return salary.SalaryRecord{}, salary.ErrSalaryRecordNotFound
		}
		return salary.SalaryRecord{}, fmt.Errorf("failed to get salary record: %w", err)
	}
	return rec, nil
}

func (r *salaryRecordRepository) GetByID(ctx context.Context, id string) (salary.SalaryRecord, error) {
	return r.getOne(ctx, sq.Eq{"id": id})
}

func (r *salaryRecordRepository) GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (salary.SalaryRecord, error) {
	return r.getOne(ctx, sq.Eq{"employee_id": employeeID, "month": month, "year": year})
}

func (r *salaryRecordRepository) ExistsForPeriod(ctx context.Context, employeeID string, month, year int) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM salary_records WHERE employee_id = $1 AND month = $2 AND year = $3)",
		employeeID, month, year,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check salary record: %w", err)
	}
	return exists, nil
}

func (r *salaryRecordRepository) List(ctx context.Context, f salary.SalaryRecordFilter) ([]salary.SalaryRecord, error) {
	q := GetQuerier(ctx, r.db)

	where := sq.Eq{}
	if f.Month != nil {
		where["month"] = *f.Month
	}
	if f.Year != nil {
		where["year"] = *f.Year
	}
	if f.EmployeeID != nil {
		where["employee_id"] = *f.EmployeeID
	}
	if f.Status != nil {
		where["status"] = *f.Status
	}
	if f.Role != nil {
		where["role"] = *f.Role
	}

	builder := psql.Select(salaryRecordColumns...).
		From("salary_records").
		Where(where).
		OrderBy("year DESC", "month DESC", "employee_name")
	if f.Limit > 0 {
		builder = builder.Limit(uint64(f.Limit))
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary records: %w", err)
	}
	defer rows.Close()

	var records []salary.SalaryRecord
	for rows.Next() {
		rec, err := scanSalaryRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
