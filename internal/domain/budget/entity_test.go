package budget

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/expense"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func sampleBudget() Budget {
	month := 3
	b := Budget{
		Name:   "March",
		Period: PeriodMonthly,
		Year:   2024,
		Month:  &month,
		Status: StatusDraft,
		CategoryBudgets: []CategoryBudget{
			{CategoryName: "Rent", Type: expense.TypeRent, PlannedAmount: dec(1000)},
			{CategoryName: "Utilities", Type: expense.TypeUtilities, PlannedAmount: dec(500)},
			{CategoryName: "Marketing", Type: expense.TypeMarketing, PlannedAmount: dec(0)},
		},
	}
	b.RecalculateTotals()
	return b
}

func TestBudget_RecalculateTotals(t *testing.T) {
	b := sampleBudget()
	b.CategoryBudgets[0].ActualAmount = dec(1200)

	b.RecalculateTotals()

	assert.True(t, dec(1500).Equal(b.TotalPlannedAmount))
	assert.True(t, dec(1200).Equal(b.TotalActualAmount))
	assert.True(t, dec(-300).Equal(b.TotalVariance))
	assert.True(t, dec(200).Equal(b.CategoryBudgets[0].Variance))
	assert.True(t, dec(20).Equal(b.CategoryBudgets[0].VariancePercent))
	assert.True(t, b.CategoryBudgets[2].VariancePercent.IsZero())
}

func TestBudget_ApplyActualsIsIdempotent(t *testing.T) {
	b := sampleBudget()
	paid := map[expense.ExpenseType]expense.Bucket{
		expense.TypeRent:      {Key: "rent", Total: dec(900), Count: 1},
		expense.TypeMarketing: {Key: "marketing", Total: dec(50), Count: 1},
	}
	now := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	b.ApplyActuals(paid, now)
	first := make([]decimal.Decimal, len(b.CategoryBudgets))
	for i, cb := range b.CategoryBudgets {
		first[i] = cb.ActualAmount
	}
	b.ApplyActuals(paid, now)

	for i, cb := range b.CategoryBudgets {
		assert.True(t, first[i].Equal(cb.ActualAmount), cb.CategoryName)
	}
	assert.True(t, dec(950).Equal(b.TotalActualAmount))
	assert.True(t, b.CategoryBudgets[1].ActualAmount.IsZero())
	require.NotNil(t, b.LastCalculatedAt)
}

func TestBudget_UtilizationZeroPlanned(t *testing.T) {
	b := sampleBudget()
	b.CategoryBudgets[2].ActualAmount = dec(100)

	assert.True(t, b.CategoryBudgets[2].Utilization().IsZero())

	empty := Budget{}
	assert.True(t, empty.Utilization().IsZero())
}

func TestBudget_StatusTransitions(t *testing.T) {
	b := sampleBudget()
	now := time.Now()

	assert.ErrorIs(t, b.Complete(now), ErrInvalidStatusTransition)
	require.NoError(t, b.Activate(now))
	require.NoError(t, b.Complete(now))
	assert.Equal(t, StatusCompleted, b.Status)
	assert.ErrorIs(t, b.Cancel(now), ErrInvalidStatusTransition)
}

func TestBudget_MonthsAndLabel(t *testing.T) {
	b := sampleBudget()
	assert.Len(t, b.Months(), 1)
	assert.Equal(t, "2024-03", b.PeriodLabel())

	q := 2
	b.Period = PeriodQuarterly
	b.Quarter = &q
	assert.Len(t, b.Months(), 3)
	assert.Equal(t, "Q2 2024", b.PeriodLabel())

	b.Period = PeriodYearly
	assert.Len(t, b.Months(), 12)
	assert.Equal(t, "2024", b.PeriodLabel())
}

func TestAnalyze(t *testing.T) {
	b := sampleBudget()
	b.CategoryBudgets[0].ActualAmount = dec(1100)
	b.CategoryBudgets[1].ActualAmount = dec(100)
	b.RecalculateTotals()

	a := Analyze(b)

	require.Len(t, a.Categories, 3)
	assert.Equal(t, PerformanceOverBudget, a.Categories[0].Status)
	assert.Equal(t, PerformanceUnderUtilized, a.Categories[1].Status)
	assert.Len(t, a.Issues, 1)
	// 1200 / 1500 = 80%
	assert.Equal(t, PerformanceOnTrack, a.Status)
	assert.NotEmpty(t, a.Recommendations)
}

func TestCompare(t *testing.T) {
	first := sampleBudget()
	second := sampleBudget()
	second.CategoryBudgets[0].PlannedAmount = dec(1500)
	second.RecalculateTotals()

	c := Compare(first, second)

	assert.True(t, dec(500).Equal(c.PlannedChange))
	assert.True(t, decimal.RequireFromString("33.33").Equal(c.PlannedChangePct))
	assert.True(t, c.ActualChangePct.IsZero())
}
