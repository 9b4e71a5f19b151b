package payroll

import (
	"testing"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/salaryconfig"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func record(id string, role salaryconfig.Role, status salary.RecordStatus, base string) salary.SalaryRecord {
	rec := salary.SalaryRecord{
		ID:               id,
		EmployeeID:       "emp-" + id,
		Role:             role,
		SalaryType:       salary.SalaryTypeMonthly,
		BaseSalary:       decimal.RequireFromString(base),
		StandardWorkDays: 26,
		ActualWorkDays:   26,
		Status:           status,
		Bonus:            salary.Adjustment{Amount: decimal.NewFromInt(100)},
	}
	rec.ApplyDefaults()
	rec.Recalculate()
	return rec
}

func TestSummarize_TotalsAndBreakdowns(t *testing.T) {
	records := []salary.SalaryRecord{
		record("1", salaryconfig.RoleManager, salary.StatusPending, "1000"),
		record("2", salaryconfig.RolePersonalTrainer, salary.StatusApproved, "2000"),
		record("3", salaryconfig.RolePersonalTrainer, salary.StatusPaid, "3000"),
	}
	before := records[0].NetSalary

	s := Summarize(3, 2024, records)

	assert.Equal(t, 3, s.TotalEmployees)
	assert.True(t, decimal.NewFromInt(6000).Equal(s.Totals.BaseSalary))
	assert.True(t, decimal.NewFromInt(300).Equal(s.Totals.Bonuses))
	assert.True(t, decimal.NewFromInt(6300).Equal(s.Totals.NetSalary))
	assert.Equal(t, 2, s.ByRole[salaryconfig.RolePersonalTrainer].Count)
	assert.True(t, decimal.NewFromInt(5200).Equal(s.ByRole[salaryconfig.RolePersonalTrainer].NetSalary))
	assert.Equal(t, 1, s.ByStatus[salary.StatusPaid].Count)
	assert.True(t, before.Equal(records[0].NetSalary))
	assert.True(t, s.HasRecords())
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(1, 2024, nil)

	assert.False(t, s.HasRecords())
	assert.True(t, s.Totals.NetSalary.IsZero())
	assert.Empty(t, s.ByStatus)
}

func TestBatchResult_Add(t *testing.T) {
	b := NewBatchResult(5, 2024)

	b.Add(OutcomeSucceeded, BatchItem{EmployeeID: "a"})
	b.Add(OutcomeSkipped, BatchItem{EmployeeID: "b"})
	b.Add(OutcomeFailed, BatchItem{EmployeeID: "c", Reason: "boom"})

	assert.Len(t, b.Succeeded, 1)
	assert.Len(t, b.Skipped, 1)
	assert.Len(t, b.Failed, 1)
	assert.Equal(t, 3, b.Total())
}

func TestTrendOf(t *testing.T) {
	assert.Equal(t, TrendIncrease, TrendOf(decimal.NewFromInt(5)))
	assert.Equal(t, TrendDecrease, TrendOf(decimal.NewFromInt(-5)))
	assert.Equal(t, TrendStable, TrendOf(decimal.Zero))
}
