package expense

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func newExpense(t ExpenseType, c Category, amount int64, status Status, approval ApprovalStatus) Expense {
	return Expense{
		Type:           t,
		Category:       c,
		Amount:         decimal.NewFromInt(amount),
		Status:         status,
		ApprovalStatus: approval,
		Lifecycle:      LifecycleActive,
		CreatedAt:      now,
	}
}

func TestExpense_ResolveAccountingPeriod(t *testing.T) {
	due := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)

	e := Expense{CreatedAt: now}
	assert.Equal(t, "2024-03", e.ResolveAccountingPeriod())

	e.DueDate = &due
	assert.Equal(t, "2024-05", e.ResolveAccountingPeriod())

	e.AccountingPeriod = "2024-01"
	assert.Equal(t, "2024-01", e.ResolveAccountingPeriod())
}

func TestExpense_IsOverdue(t *testing.T) {
	past := now.AddDate(0, 0, -2)
	future := now.AddDate(0, 0, 3)

	e := newExpense(TypeRent, CategoryInfrastructure, 100, StatusPending, ApprovalApproved)
	assert.False(t, e.IsOverdue(now))

	e.DueDate = &past
	assert.True(t, e.IsOverdue(now))
	assert.Equal(t, -2, *e.DaysUntilDue(now))

	e.Status = StatusPaid
	assert.False(t, e.IsOverdue(now))

	e.Status = StatusPending
	e.DueDate = &future
	assert.False(t, e.IsOverdue(now))
	assert.Equal(t, 3, *e.DaysUntilDue(now))
}

func TestExpense_ApprovalAndPaymentAreIndependent(t *testing.T) {
	e := newExpense(TypeUtilities, CategoryOperations, 100, StatusPending, ApprovalPending)

	require.NoError(t, e.Approve("owner", nil, now))
	assert.True(t, e.IsApproved())
	assert.False(t, e.IsPaid())

	require.NoError(t, e.MarkAsPaid(nil, nil, now))
	assert.True(t, e.IsPaid())
	assert.ErrorIs(t, e.Approve("owner", nil, now), ErrApprovalAlreadyProcessed)
	assert.ErrorIs(t, e.MarkAsPaid(nil, nil, now), ErrInvalidStatusTransition)
}

func TestExpense_RejectBlocksPayment(t *testing.T) {
	e := newExpense(TypeMarketing, CategoryMarketing, 100, StatusPending, ApprovalPending)

	require.NoError(t, e.Reject("owner", nil, now))

	assert.Equal(t, StatusRejected, e.Status)
	assert.ErrorIs(t, e.MarkAsPaid(nil, nil, now), ErrInvalidStatusTransition)
	assert.ErrorIs(t, e.Cancel(now), ErrInvalidStatusTransition)
}

func TestExpense_SoftDelete(t *testing.T) {
	e := newExpense(TypeOther, CategoryOther, 100, StatusPending, ApprovalPending)

	require.NoError(t, e.SoftDelete(now))

	assert.True(t, e.IsDeleted())
	require.NotNil(t, e.DeletedAt)
	assert.ErrorIs(t, e.SoftDelete(now), ErrExpenseDeleted)
	assert.ErrorIs(t, e.Approve("x", nil, now), ErrExpenseDeleted)
}

func TestSummarize_CountsPaidOrApprovedOnly(t *testing.T) {
	deleted := newExpense(TypeRent, CategoryInfrastructure, 1000, StatusPaid, ApprovalApproved)
	deleted.Lifecycle = LifecycleDeleted

	expenses := []Expense{
		newExpense(TypeRent, CategoryInfrastructure, 500, StatusPaid, ApprovalPending),
		newExpense(TypeUtilities, CategoryOperations, 200, StatusPending, ApprovalApproved),
		newExpense(TypeUtilities, CategoryOperations, 300, StatusPending, ApprovalPending),
		newExpense(TypeCleaning, CategoryOperations, 50, StatusRejected, ApprovalRejected),
		deleted,
	}

	s := Summarize("2024-03", []string{"2024-03"}, expenses)

	assert.True(t, decimal.NewFromInt(700).Equal(s.TotalExpenses))
	assert.Equal(t, 2, s.ExpenseCount)
	assert.Equal(t, 1, s.PendingCount)
	require.Len(t, s.ByType, 2)
	assert.Equal(t, "rent", s.ByType[0].Key)
	assert.Equal(t, "utilities", s.ByType[1].Key)
	require.Len(t, s.ByCategory, 2)
	assert.Equal(t, "infrastructure", s.ByCategory[0].Key)
}

func TestPaidByType(t *testing.T) {
	expenses := []Expense{
		newExpense(TypeRent, CategoryInfrastructure, 500, StatusPaid, ApprovalApproved),
		newExpense(TypeRent, CategoryInfrastructure, 250, StatusPaid, ApprovalPending),
		newExpense(TypeUtilities, CategoryOperations, 200, StatusPending, ApprovalApproved),
	}

	got := PaidByType(expenses)

	assert.Len(t, got, 1)
	assert.True(t, decimal.NewFromInt(750).Equal(got[TypeRent].Total))
	assert.Equal(t, 2, got[TypeRent].Count)
}

func TestComputeStatistics(t *testing.T) {
	past := now.AddDate(0, 0, -1)
	overdue := newExpense(TypeRent, CategoryInfrastructure, 400, StatusPending, ApprovalApproved)
	overdue.DueDate = &past

	st := ComputeStatistics([]string{"2024-03"}, []Expense{
		newExpense(TypeRent, CategoryInfrastructure, 600, StatusPaid, ApprovalApproved),
		newExpense(TypeUtilities, CategoryOperations, 300, StatusPaid, ApprovalApproved),
		overdue,
		newExpense(TypeOther, CategoryOther, 200, StatusCancelled, ApprovalPending),
		newExpense(TypeEquipment, CategoryEquipment, 5000, StatusPending, ApprovalPending),
	}, now)

	assert.Equal(t, 5, st.TotalCount)
	assert.Equal(t, 2, st.PaidCount)
	assert.True(t, decimal.NewFromInt(900).Equal(st.TotalPaid))
	assert.True(t, decimal.NewFromInt(5400).Equal(st.TotalPending))
	assert.True(t, decimal.NewFromInt(400).Equal(st.TotalOverdue))
	assert.Equal(t, 1, st.OverdueCount)
	assert.True(t, decimal.NewFromInt(600).Equal(st.Largest), st.Largest.String())
	assert.True(t, decimal.NewFromInt(300).Equal(st.Smallest), st.Smallest.String())
	assert.True(t, decimal.NewFromInt(450).Equal(st.Average), st.Average.String())
}

func TestComputeStatistics_NoPaidExpenses(t *testing.T) {
	st := ComputeStatistics([]string{"2024-03"}, []Expense{
		newExpense(TypeRent, CategoryInfrastructure, 600, StatusPending, ApprovalPending),
	}, now)

	assert.Equal(t, 1, st.TotalCount)
	assert.True(t, st.Average.IsZero())
	assert.True(t, st.Largest.IsZero())
	assert.True(t, st.Smallest.IsZero())
}

func TestExpenseCategory_Rules(t *testing.T) {
	c := ExpenseCategory{
		RequiresApproval:   true,
		ApprovalThreshold:  decimal.NewFromInt(1000),
		HasBudgetLimit:     true,
		MonthlyBudgetLimit: decimal.NewFromInt(5000),
	}

	assert.True(t, c.RequiresApprovalFor(decimal.NewFromInt(1000)))
	assert.False(t, c.RequiresApprovalFor(decimal.NewFromInt(999)))
	assert.True(t, c.ExceedsBudget(decimal.NewFromInt(5001), "monthly"))
	assert.False(t, c.ExceedsBudget(decimal.NewFromInt(5001), "yearly"))
}

func TestNewExpenseNumber(t *testing.T) {
	assert.Equal(t, "EXP-20240315-00042", NewExpenseNumber(now, 42))
}
