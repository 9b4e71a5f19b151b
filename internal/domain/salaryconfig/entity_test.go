package salaryconfig

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixedConfig() *SalaryConfig {
	cfg := &SalaryConfig{
		EmployeeID:   "emp-1",
		EmployeeName: "Budi",
		Role:         RoleReceptionist,
		SalaryType:   SalaryTypeFixed,
		BaseSalary:   d("10000000"),
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestSalaryConfig_LineItemTotalsStayConsistent(t *testing.T) {
	cfg := newFixedConfig()

	cfg.AddAllowance("transport", d("500000"))
	cfg.AddAllowance("meal", d("300000"))
	cfg.AddDeduction("advance", d("200000"))
	total, err := cfg.RemoveAllowance(0)
	require.NoError(t, err)

	assert.True(t, d("300000").Equal(total))
	assert.True(t, sumItems(cfg.Allowances).Equal(cfg.TotalAllowances))
	assert.True(t, sumItems(cfg.Deductions).Equal(cfg.TotalDeductions))
	assert.True(t, d("200000").Equal(cfg.TotalDeductions))

	_, err = cfg.RemoveDeduction(3)
	assert.ErrorIs(t, err, ErrLineItemNotFound)
	assert.True(t, d("200000").Equal(cfg.TotalDeductions))
}

func TestSalaryConfig_ApplyDefaults(t *testing.T) {
	cfg := &SalaryConfig{}
	cfg.ApplyDefaults()

	assert.Equal(t, 176, cfg.StandardWorkHours)
	assert.Equal(t, 22, cfg.StandardWorkDays())
	assert.True(t, d("1.5").Equal(cfg.OvertimeRate))
	assert.Equal(t, StatusActive, cfg.Status)
}

func TestSalaryConfig_CalculateNetSalary_FixedNoExtras(t *testing.T) {
	cfg := newFixedConfig()

	got := cfg.CalculateNetSalary(NetSalaryInput{})

	assert.True(t, d("10000000").Equal(got.Net))
	assert.True(t, d("10000000").Equal(got.Gross))
}

func TestSalaryConfig_CalculateNetSalary_AllComponents(t *testing.T) {
	// Arrange
	cfg := newFixedConfig()
	cfg.BaseSalary = d("8800000")
	cfg.Role = RolePersonalTrainer
	cfg.SalaryType = SalaryTypeMixed
	cfg.Commission = CommissionRule{Enabled: true, Type: CommissionPercentage, Rate: d("10")}
	cfg.AddAllowance("transport", d("400000"))
	cfg.AddDeduction("uniform", d("100000"))
	cfg.SocialInsurance = d("200000")
	cfg.HealthInsurance = d("100000")
	cfg.TaxRate = d("10")

	// Act
	got := cfg.CalculateNetSalary(NetSalaryInput{
		OvertimeHours: d("4"),
		SalesAmount:   d("5000000"),
		Bonuses:       d("250000"),
		Penalties:     d("50000"),
	})

	// Assert
	// hourly effective = 8,800,000 / 22 / 8 = 50,000; overtime = 50,000 * 4 * 1.5
	assert.True(t, d("300000").Equal(got.OvertimePay), got.OvertimePay.String())
	assert.True(t, d("500000").Equal(got.Commission))
	// gross = 8,800,000 + 400,000 + 500,000 + 300,000 + 250,000
	assert.True(t, d("10250000").Equal(got.Gross))
	// running = 10,250,000 - 100,000 - 50,000 - 300,000 = 9,800,000; tax 980,000
	assert.True(t, d("980000").Equal(got.Tax))
	assert.True(t, d("8820000").Equal(got.Net))
}

func TestSalaryConfig_CalculateNetSalary_Hourly(t *testing.T) {
	cfg := &SalaryConfig{SalaryType: SalaryTypeHourly, HourlyRate: d("50000")}
	cfg.ApplyDefaults()

	hours := d("100")
	got := cfg.CalculateNetSalary(NetSalaryInput{WorkHours: &hours, OvertimeHours: d("2")})

	assert.True(t, d("5000000").Equal(got.Base))
	assert.True(t, d("150000").Equal(got.OvertimePay))
	assert.True(t, d("5150000").Equal(got.Net))
}

func TestSalaryConfig_CalculateNetSalary_HourlyDefaultsToStandardHours(t *testing.T) {
	cfg := &SalaryConfig{SalaryType: SalaryTypeHourly, HourlyRate: d("50000"), StandardWorkHours: 160}
	cfg.ApplyDefaults()

	got := cfg.CalculateNetSalary(NetSalaryInput{})
	assert.True(t, d("8000000").Equal(got.Base), got.Base.String())

	zero := decimal.Zero
	got = cfg.CalculateNetSalary(NetSalaryInput{WorkHours: &zero})
	assert.True(t, got.Base.IsZero())

	cfg.StandardWorkHours = 0
	got = cfg.CalculateNetSalary(NetSalaryInput{})
	assert.True(t, d("8800000").Equal(got.Base), got.Base.String())
}

func TestSalaryConfig_CalculateNetSalary_CommissionOnlyHasNoBase(t *testing.T) {
	cfg := &SalaryConfig{
		SalaryType: SalaryTypeCommission,
		BaseSalary: d("9000000"),
		Commission: CommissionRule{Enabled: true, Type: CommissionPercentage, Rate: d("20")},
	}
	cfg.ApplyDefaults()

	got := cfg.CalculateNetSalary(NetSalaryInput{SalesAmount: d("1000000")})

	assert.True(t, got.Base.IsZero())
	assert.True(t, d("200000").Equal(got.Net))
}

func TestSalaryConfig_CalculateNetSalary_NeverNegative(t *testing.T) {
	cfg := newFixedConfig()
	cfg.BaseSalary = d("1000000")
	cfg.AddDeduction("loan", d("5000000"))
	cfg.SocialInsurance = d("900000")
	cfg.TaxRate = d("20")

	got := cfg.CalculateNetSalary(NetSalaryInput{Penalties: d("3000000")})

	assert.True(t, got.Net.Equal(decimal.Zero))
	assert.True(t, got.Tax.IsZero())
}

func TestSalaryConfig_Deactivate(t *testing.T) {
	cfg := newFixedConfig()
	now := cfg.EffectiveDate.AddDate(0, 1, 0)

	cfg.Deactivate(now)

	assert.False(t, cfg.IsActive())
	require.NotNil(t, cfg.EndDate)
	assert.Equal(t, now, *cfg.EndDate)
}
