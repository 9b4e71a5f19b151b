package salaryconfig

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/salaryconfig"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() salaryconfig.SalaryConfigService {
	return NewSalaryConfigService(database.NoopTransactor{}, memory.NewSalaryConfigRepository())
}

func createReq(employeeID string, base int64) salaryconfig.CreateSalaryConfigRequest {
	return salaryconfig.CreateSalaryConfigRequest{
		EmployeeID:   employeeID,
		EmployeeName: "Employee " + employeeID,
		Role:         salaryconfig.RoleReceptionist,
		SalaryType:   salaryconfig.SalaryTypeFixed,
		BaseSalary:   decimal.NewFromInt(base),
		Allowances: []salaryconfig.LineItem{
			{Label: "meal", Amount: decimal.NewFromInt(300_000)},
			{Label: "transport", Amount: decimal.NewFromInt(200_000)},
		},
	}
}

func TestSalaryConfigService_Create_AppliesDefaultsAndTotals(t *testing.T) {
	svc := newService()

	cfg, err := svc.Create(context.Background(), createReq("e1", 10_000_000))

	require.NoError(t, err)
	assert.NotEmpty(t, cfg.ID)
	assert.Equal(t, salaryconfig.StatusActive, cfg.Status)
	assert.Equal(t, salaryconfig.DefaultStandardWorkHours, cfg.StandardWorkHours)
	assert.True(t, cfg.TotalAllowances.Equal(decimal.NewFromInt(500_000)))
}

func TestSalaryConfigService_Create_DeactivatesPrevious(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	first, err := svc.Create(ctx, createReq("e1", 8_000_000))
	require.NoError(t, err)
	second, err := svc.Create(ctx, createReq("e1", 9_000_000))
	require.NoError(t, err)

	old, err := svc.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, salaryconfig.StatusInactive, old.Status)
	assert.NotNil(t, old.EndDate)

	active, err := svc.GetByEmployeeID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	activeStatus := salaryconfig.StatusActive
	all, err := svc.GetAll(ctx, salaryconfig.SalaryConfigFilter{Status: &activeStatus})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSalaryConfigService_Create_ValidationError(t *testing.T) {
	req := createReq("", -1)

	_, err := newService().Create(context.Background(), req)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "employee_id")
	assert.Contains(t, verrs.ToMap(), "base_salary")
}

func TestSalaryConfigService_Update_ReplacesLineItems(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	cfg, err := svc.Create(ctx, createReq("e1", 10_000_000))
	require.NoError(t, err)

	housing := []salaryconfig.LineItem{{Label: "housing", Amount: decimal.NewFromInt(1_000_000)}}
	updated, err := svc.Update(ctx, salaryconfig.UpdateSalaryConfigRequest{
		ID:         cfg.ID,
		Allowances: &housing,
	})

	require.NoError(t, err)
	assert.Len(t, updated.Allowances, 1)
	assert.True(t, updated.TotalAllowances.Equal(decimal.NewFromInt(1_000_000)))
}

func TestSalaryConfigService_Update_LineItemsAbsentVsEmpty(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	cfg, err := svc.Create(ctx, createReq("e1", 10_000_000))
	require.NoError(t, err)

	var absent salaryconfig.UpdateSalaryConfigRequest
	require.NoError(t, json.Unmarshal([]byte(`{"notes":"reviewed"}`), &absent))
	absent.ID = cfg.ID
	kept, err := svc.Update(ctx, absent)
	require.NoError(t, err)
	assert.Len(t, kept.Allowances, 2)
	assert.True(t, kept.TotalAllowances.Equal(decimal.NewFromInt(500_000)))

	var cleared salaryconfig.UpdateSalaryConfigRequest
	require.NoError(t, json.Unmarshal([]byte(`{"allowances":[]}`), &cleared))
	cleared.ID = cfg.ID
	emptied, err := svc.Update(ctx, cleared)
	require.NoError(t, err)
	assert.Empty(t, emptied.Allowances)
	assert.True(t, emptied.TotalAllowances.IsZero())

	b, err := svc.PreviewNetSalary(ctx, salaryconfig.PreviewNetSalaryRequest{EmployeeID: "e1"})
	require.NoError(t, err)
	assert.True(t, b.Net.Equal(decimal.NewFromInt(10_000_000)), b.Net.String())
}

func TestSalaryConfigService_PreviewNetSalary_HourlyWithoutHours(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	req := createReq("e1", 0)
	req.SalaryType = salaryconfig.SalaryTypeHourly
	req.HourlyRate = decimal.NewFromInt(50_000)
	req.Allowances = nil
	_, err := svc.Create(ctx, req)
	require.NoError(t, err)

	b, err := svc.PreviewNetSalary(ctx, salaryconfig.PreviewNetSalaryRequest{EmployeeID: "e1"})

	require.NoError(t, err)
	// 176 default hours at 50,000
	assert.True(t, b.Base.Equal(decimal.NewFromInt(8_800_000)), b.Base.String())
}

func TestSalaryConfigService_Deactivate_Twice(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	cfg, err := svc.Create(ctx, createReq("e1", 10_000_000))
	require.NoError(t, err)

	_, err = svc.Deactivate(ctx, cfg.ID)
	require.NoError(t, err)
	_, err = svc.Deactivate(ctx, cfg.ID)
	assert.ErrorIs(t, err, salaryconfig.ErrSalaryConfigInactive)

	_, err = svc.GetByEmployeeID(ctx, "e1")
	assert.ErrorIs(t, err, salaryconfig.ErrNoActiveSalaryConfig)
}

func TestSalaryConfigService_PreviewNetSalary(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	req := createReq("e1", 10_000_000)
	req.Allowances = nil
	_, err := svc.Create(ctx, req)
	require.NoError(t, err)

	b, err := svc.PreviewNetSalary(ctx, salaryconfig.PreviewNetSalaryRequest{EmployeeID: "e1"})

	require.NoError(t, err)
	assert.True(t, b.Net.Equal(decimal.NewFromInt(10_000_000)))
}
