package salaryconfig

import "context"

type SalaryConfigRepository interface {
	Create(ctx context.Context, cfg SalaryConfig) (SalaryConfig, error)
	Update(ctx context.Context, cfg SalaryConfig) error
	GetByID(ctx context.Context, id string) (SalaryConfig, error)
	// GetActiveByEmployeeID returns the active config with the latest effective date.
	GetActiveByEmployeeID(ctx context.Context, employeeID string) (SalaryConfig, error)
	List(ctx context.Context, filter SalaryConfigFilter) ([]SalaryConfig, error)
	ListActive(ctx context.Context) ([]SalaryConfig, error)
}
