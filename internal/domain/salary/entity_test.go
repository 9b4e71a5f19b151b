package salary

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/salaryconfig"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func monthlyRecord() SalaryRecord {
	rec := SalaryRecord{
		EmployeeID:       "emp-1",
		Month:            3,
		Year:             2024,
		SalaryType:       SalaryTypeMonthly,
		BaseSalary:       d("10000000"),
		StandardWorkDays: 26,
		ActualWorkDays:   26,
	}
	rec.ApplyDefaults()
	return rec
}

func TestSalaryRecord_Recalculate_FullAttendance(t *testing.T) {
	rec := monthlyRecord()

	rec.Recalculate()

	assert.True(t, d("10000000").Equal(rec.GrossSalary))
	assert.True(t, d("10000000").Equal(rec.NetSalary))
}

func TestSalaryRecord_Recalculate_Proration(t *testing.T) {
	rec := monthlyRecord()
	rec.ActualWorkDays = 20

	rec.Recalculate()

	assert.Equal(t, "7692308", rec.ProratedBase.Round(0).String())
	assert.Equal(t, "7692308", rec.NetSalary.Round(0).String())
}

func TestSalaryRecord_Recalculate_MoreDaysThanStandardIsNotScaledUp(t *testing.T) {
	rec := monthlyRecord()
	rec.ActualWorkDays = 28

	rec.Recalculate()

	assert.True(t, d("10000000").Equal(rec.ProratedBase))
}

func TestSalaryRecord_Recalculate_MonthlyOvertime(t *testing.T) {
	rec := monthlyRecord()
	rec.BaseSalary = d("10400000")
	rec.OvertimeHours = d("10")

	rec.Recalculate()

	// 10,400,000 / 26 / 8 = 50,000 per hour
	assert.True(t, d("750000").Equal(rec.OvertimePay), rec.OvertimePay.String())
	assert.True(t, d("11150000").Equal(rec.GrossSalary))
}

func TestSalaryRecord_Recalculate_HourlyOvertime(t *testing.T) {
	rec := monthlyRecord()
	rec.SalaryType = SalaryTypeHourly
	rec.HourlyRate = d("40000")
	rec.OvertimeHours = d("5")

	rec.Recalculate()

	assert.True(t, d("300000").Equal(rec.OvertimePay))
}

func TestSalaryRecord_Recalculate_AllComponents(t *testing.T) {
	rec := monthlyRecord()
	rec.Commission = d("1300000")
	rec.Bonus = Adjustment{Amount: d("500000")}
	rec.Penalty = Adjustment{Amount: d("100000")}
	rec.Allowances = Allowances{Housing: d("1000000"), Transport: d("200000"), Meal: d("300000")}
	rec.Deductions = Deductions{Insurance: d("400000"), Tax: d("600000")}

	rec.Recalculate()
	first := rec.NetSalary
	rec.Recalculate()

	assert.True(t, d("13300000").Equal(rec.GrossSalary), rec.GrossSalary.String())
	assert.True(t, d("12200000").Equal(rec.NetSalary), rec.NetSalary.String())
	assert.True(t, first.Equal(rec.NetSalary))
}

func TestSalaryRecord_NetSalaryNeverNegative(t *testing.T) {
	cases := []struct {
		name       string
		deductions Deductions
		penalty    string
		actualDays int
	}{
		{"huge deductions", Deductions{Advance: d("50000000")}, "0", 26},
		{"huge penalty", Deductions{}, "99999999999", 26},
		{"no attendance with deductions", Deductions{Insurance: d("1")}, "0", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := monthlyRecord()
			rec.Deductions = tc.deductions
			rec.Penalty = Adjustment{Amount: d(tc.penalty)}
			rec.ActualWorkDays = tc.actualDays

			rec.Recalculate()

			assert.False(t, rec.NetSalary.IsNegative())
			assert.True(t, rec.NetSalary.IsZero())
		})
	}
}

func TestSalaryRecord_StateMachine_HappyPath(t *testing.T) {
	rec := monthlyRecord()
	now := time.Date(2024, 3, 28, 9, 0, 0, 0, time.UTC)

	require.NoError(t, rec.Approve("manager-1", now))
	assert.Equal(t, StatusApproved, rec.Status)
	require.NotNil(t, rec.ApprovedBy)
	assert.Equal(t, "manager-1", *rec.ApprovedBy)
	assert.Equal(t, now, *rec.ApprovedAt)

	require.NoError(t, rec.MarkAsPaid(now.Add(time.Hour)))
	assert.Equal(t, StatusPaid, rec.Status)
	assert.Equal(t, now.Add(time.Hour), *rec.PaidAt)
	assert.False(t, rec.CanEdit())
	assert.False(t, rec.CanDelete())
}

func TestSalaryRecord_MarkAsPaid_FromPendingFails(t *testing.T) {
	rec := monthlyRecord()

	err := rec.MarkAsPaid(time.Now())

	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	assert.Equal(t, StatusPending, rec.Status)
	assert.Nil(t, rec.PaidAt)
}

func TestSalaryRecord_Approve_OnlyFromPending(t *testing.T) {
	rec := monthlyRecord()
	now := time.Now()
	require.NoError(t, rec.Approve("m", now))

	err := rec.Approve("m", now)

	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	assert.Equal(t, StatusApproved, rec.Status)
}

func TestNewRecordFromConfig_SnapshotsConfig(t *testing.T) {
	// Arrange
	cfg := salaryconfig.SalaryConfig{
		ID:              "cfg-1",
		EmployeeID:      "emp-7",
		EmployeeName:    "Sari",
		Role:            salaryconfig.RolePersonalTrainer,
		SalaryType:      salaryconfig.SalaryTypeMixed,
		BaseSalary:      d("8000000"),
		TaxRate:         d("5"),
		SocialInsurance: d("100000"),
		Commission:      salaryconfig.CommissionRule{Enabled: true, Type: salaryconfig.CommissionPercentage, Rate: d("10")},
	}
	cfg.ApplyDefaults()
	cfg.AddAllowance("Transport", d("500000"))
	cfg.AddAllowance("gym kit", d("100000"))
	cfg.AddDeduction("advance", d("50000"))

	// Act
	rec := NewRecordFromConfig(cfg, 4, 2024, 26, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))
	cfg.BaseSalary = d("99000000")

	// Assert
	assert.Equal(t, SalaryTypeMonthly, rec.SalaryType)
	assert.True(t, d("8000000").Equal(rec.BaseSalary))
	assert.Equal(t, 26, rec.ActualWorkDays)
	assert.Equal(t, StatusPending, rec.Status)
	assert.True(t, d("500000").Equal(rec.Allowances.Transport))
	assert.True(t, d("100000").Equal(rec.Allowances.Other))
	assert.True(t, d("100000").Equal(rec.Deductions.Insurance))
	// (8,000,000 + 600,000) * 5%
	assert.True(t, d("430000").Equal(rec.Deductions.Tax))
	assert.True(t, d("50000").Equal(rec.Deductions.Other))
	assert.True(t, d("8600000").Equal(rec.GrossSalary))
	assert.True(t, d("8020000").Equal(rec.NetSalary))
	assert.True(t, rec.Commission.IsZero())
	assert.Equal(t, "2024-04", rec.Period())
}
