package payment

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/period"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func order(code int64, amount int64, status OrderStatus, paidAt time.Time, pt string) PaymentOrder {
	o := PaymentOrder{
		OrderCode:   code,
		PackageID:   "pkg-basic",
		PackageName: "Basic",
		Amount:      decimal.NewFromInt(amount),
		Status:      status,
		CreatedAt:   paidAt,
	}
	if status == StatusPaid {
		o.PaidAt = &paidAt
	}
	if pt != "" {
		o.PTTrainerID = strPtr(pt)
		o.PTTrainerName = strPtr("Trainer " + pt)
	}
	return o
}

func TestPaymentOrder_ManualConfirmationDoesNotClaimGateway(t *testing.T) {
	o := PaymentOrder{Status: StatusPending, VerifiedWithGateway: true}
	now := time.Now()

	require.NoError(t, o.MarkPaid(SourceManual, strPtr("tx-1"), nil, now))

	assert.Equal(t, StatusPaid, o.Status)
	assert.True(t, o.ConfirmedManually)
	assert.False(t, o.VerifiedWithGateway)
	assert.Equal(t, now, *o.PaidAt)
}

func TestPaymentOrder_GatewayConfirmation(t *testing.T) {
	o := PaymentOrder{Status: StatusPending}

	require.NoError(t, o.MarkPaid(SourceGateway, strPtr("tx-2"), strPtr("bank_transfer"), time.Now()))

	assert.True(t, o.VerifiedWithGateway)
	assert.False(t, o.ConfirmedManually)
}

func TestPaymentOrder_TerminalStatesAreFinal(t *testing.T) {
	now := time.Now()
	for _, status := range []OrderStatus{StatusPaid, StatusCancelled, StatusFailed, StatusExpired} {
		o := PaymentOrder{Status: status}

		assert.ErrorIs(t, o.MarkPaid(SourceManual, nil, nil, now), ErrOrderFinalized)
		assert.ErrorIs(t, o.Cancel(nil, now), ErrOrderFinalized)
		assert.ErrorIs(t, o.Fail(now), ErrOrderFinalized)
		assert.ErrorIs(t, o.Expire(now), ErrOrderFinalized)
		assert.Equal(t, status, o.Status)
		assert.True(t, status.IsTerminal())
	}
}

func TestSummarizeRevenue(t *testing.T) {
	march := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	april := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	premium := order(3, 3000000, StatusPaid, march, "pt-2")
	premium.PackageID = "pkg-premium"
	premium.PackageName = "Premium"

	orders := []PaymentOrder{
		order(1, 1000000, StatusPaid, march, "pt-1"),
		order(2, 1000000, StatusPaid, march, ""),
		premium,
		order(4, 9000000, StatusPending, march, "pt-1"),
		order(5, 9000000, StatusPaid, april, "pt-1"),
	}

	s := SummarizeRevenue(period.Month{Year: 2024, Month: 3}, orders)

	assert.Equal(t, 3, s.OrderCount)
	assert.True(t, decimal.NewFromInt(5000000).Equal(s.TotalRevenue))
	require.Len(t, s.ByPackage, 2)
	assert.Equal(t, "Premium", s.ByPackage[0].PackageName)
	assert.Equal(t, 2, s.ByPackage[1].Count)
	require.Len(t, s.ByPT, 2)
	assert.Equal(t, "pt-2", s.ByPT[0].PTID)
	assert.Equal(t, "Trainer pt-1", s.ByPT[1].PTName)
}

func TestTrainerSales(t *testing.T) {
	march := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	orders := []PaymentOrder{
		order(1, 1500000, StatusPaid, march, "pt-1"),
		order(2, 2500000, StatusPaid, march, "pt-1"),
		order(3, 9000000, StatusCancelled, march, "pt-1"),
		order(4, 7000000, StatusPaid, march, "pt-2"),
	}

	got := TrainerSales(period.Month{Year: 2024, Month: 3}, "pt-1", orders)

	assert.True(t, decimal.NewFromInt(4000000).Equal(got))
}
