package salaryconfig

import "context"

type SalaryConfigService interface {
	// Create stores a new active config, deactivating the employee's previous active one.
	Create(ctx context.Context, req CreateSalaryConfigRequest) (SalaryConfig, error)
	Update(ctx context.Context, req UpdateSalaryConfigRequest) (SalaryConfig, error)
	GetByID(ctx context.Context, id string) (SalaryConfig, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (SalaryConfig, error)
	GetAll(ctx context.Context, filter SalaryConfigFilter) ([]SalaryConfig, error)
	Deactivate(ctx context.Context, id string) (SalaryConfig, error)
	PreviewNetSalary(ctx context.Context, req PreviewNetSalaryRequest) (NetSalaryBreakdown, error)
}
