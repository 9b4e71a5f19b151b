package salary

import "context"

type SalaryRecordRepository interface {
	// Create fails with ErrSalaryRecordExists when the employee already has a record for the period.
	Create(ctx context.Context, rec SalaryRecord) (SalaryRecord, error)
	Update(ctx context.Context, rec SalaryRecord) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (SalaryRecord, error)
	GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (SalaryRecord, error)
	ExistsForPeriod(ctx context.Context, employeeID string, month, year int) (bool, error)
	List(ctx context.Context, filter SalaryRecordFilter) ([]SalaryRecord, error)
}
