package salaryconfig

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func exampleTiers() []CommissionTier {
	return []CommissionTier{
		{MinAmount: d("0"), Rate: d("5")},
		{MinAmount: d("10000000"), Rate: d("8")},
		{MinAmount: d("50000000"), Rate: d("12")},
	}
}

func TestCalculateCommission_Tiered(t *testing.T) {
	rule := CommissionRule{Enabled: true, Type: CommissionTiered, Tiers: exampleTiers()}

	cases := []struct {
		name  string
		sales string
		want  string
	}{
		{"spans two tiers", "20000000", "1300000"},
		{"exactly at second tier floor", "10000000", "500000"},
		{"one above second tier floor", "10000100", "500008"},
		{"spans all tiers", "60000000", "4900000"},
		{"zero sales", "0", "0"},
		{"negative sales", "-5000000", "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CalculateCommission(rule, d(tc.sales))
			assert.True(t, d(tc.want).Equal(got), "want %s, got %s", tc.want, got)
		})
	}
}

func TestCalculateCommission_TieredBelowFirstFloor(t *testing.T) {
	rule := CommissionRule{Enabled: true, Type: CommissionTiered, Tiers: []CommissionTier{
		{MinAmount: d("5000000"), Rate: d("10")},
	}}

	assert.True(t, CalculateCommission(rule, d("4000000")).IsZero())
	assert.True(t, d("100000").Equal(CalculateCommission(rule, d("6000000"))))
}

func TestCalculateCommission_TieredUnsortedInput(t *testing.T) {
	tiers := exampleTiers()
	tiers[0], tiers[2] = tiers[2], tiers[0]
	rule := CommissionRule{Enabled: true, Type: CommissionTiered, Tiers: tiers}

	assert.True(t, d("1300000").Equal(CalculateCommission(rule, d("20000000"))))
}

func TestCalculateCommission_Percentage(t *testing.T) {
	rule := CommissionRule{Enabled: true, Type: CommissionPercentage, Rate: d("10")}

	assert.True(t, d("2000000").Equal(CalculateCommission(rule, d("20000000"))))
	assert.True(t, CalculateCommission(rule, d("0")).IsZero())
}

func TestCalculateCommission_FixedAmountIgnoresSales(t *testing.T) {
	rule := CommissionRule{Enabled: true, Type: CommissionFixedAmount, Rate: d("750000")}

	assert.True(t, d("750000").Equal(CalculateCommission(rule, d("1"))))
	assert.True(t, d("750000").Equal(CalculateCommission(rule, d("90000000"))))
}

func TestCalculateCommission_NeverNegative(t *testing.T) {
	rule := CommissionRule{Enabled: true, Type: CommissionFixedAmount, Rate: d("-10")}

	assert.True(t, CalculateCommission(rule, d("1000")).IsZero())
}

func TestTiersStrictlyIncreasing(t *testing.T) {
	assert.True(t, TiersStrictlyIncreasing(exampleTiers()))
	assert.False(t, TiersStrictlyIncreasing([]CommissionTier{
		{MinAmount: d("0"), Rate: d("5")},
		{MinAmount: d("0"), Rate: d("8")},
	}))
}
