package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/salaryconfig"
)

type salaryConfigRepository struct {
	t *table[salaryconfig.SalaryConfig]
}

func NewSalaryConfigRepository() salaryconfig.SalaryConfigRepository {
	return &salaryConfigRepository{t: newTable[salaryconfig.SalaryConfig]()}
}

func cloneConfig(c salaryconfig.SalaryConfig) salaryconfig.SalaryConfig {
	c.Allowances = slices.Clone(c.Allowances)
	c.Deductions = slices.Clone(c.Deductions)
	c.Commission.Tiers = slices.Clone(c.Commission.Tiers)
	return c
}

func (r *salaryConfigRepository) Create(ctx context.Context, cfg salaryconfig.SalaryConfig) (salaryconfig.SalaryConfig, error) {
	r.t.put(cfg.ID, cloneConfig(cfg))
	return cfg, nil
}

func (r *salaryConfigRepository) Update(ctx context.Context, cfg salaryconfig.SalaryConfig) error {
	if _, ok := r.t.get(cfg.ID); !ok {
		return salaryconfig.ErrSalaryConfigNotFound
	}
	r.t.put(cfg.ID, cloneConfig(cfg))
	return nil
}

func (r *salaryConfigRepository) GetByID(ctx context.Context, id string) (salaryconfig.SalaryConfig, error) {
	c, ok := r.t.get(id)
	if !ok {
		return salaryconfig.SalaryConfig{}, salaryconfig.ErrSalaryConfigNotFound
	}
	return cloneConfig(c), nil
}

func (r *salaryConfigRepository) GetActiveByEmployeeID(ctx context.Context, employeeID string) (salaryconfig.SalaryConfig, error) {
	rows := r.t.filter(func(c salaryconfig.SalaryConfig) bool {
		return c.EmployeeID == employeeID && c.IsActive()
	}, func(a, b salaryconfig.SalaryConfig) int {
		return b.EffectiveDate.Compare(a.EffectiveDate)
	})
	if len(rows) == 0 {
		return salaryconfig.SalaryConfig{}, salaryconfig.ErrNoActiveSalaryConfig
	}
	return cloneConfig(rows[0]), nil
}

func byEmployeeName(a, b salaryconfig.SalaryConfig) int {
	if c := cmp.Compare(a.EmployeeName, b.EmployeeName); c != 0 {
		return c
	}
	return b.EffectiveDate.Compare(a.EffectiveDate)
}

func (r *salaryConfigRepository) List(ctx context.Context, f salaryconfig.SalaryConfigFilter) ([]salaryconfig.SalaryConfig, error) {
	rows := r.t.filter(func(c salaryconfig.SalaryConfig) bool {
		if f.Role != nil && c.Role != *f.Role {
			return false
		}
		if f.Status != nil && c.Status != *f.Status {
			return false
		}
		if f.SalaryType != nil && c.SalaryType != *f.SalaryType {
			return false
		}
		if f.Search != nil && !containsFold(c.EmployeeName, *f.Search) && !containsFold(c.EmployeeID, *f.Search) {
			return false
		}
		return true
	}, byEmployeeName)
	for i := range rows {
		rows[i] = cloneConfig(rows[i])
	}
	return rows, nil
}

func (r *salaryConfigRepository) ListActive(ctx context.Context) ([]salaryconfig.SalaryConfig, error) {
	active := salaryconfig.StatusActive
	return r.List(ctx, salaryconfig.SalaryConfigFilter{Status: &active})
}
