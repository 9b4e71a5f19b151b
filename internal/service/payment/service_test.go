package payment

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/payment"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestService(loc *time.Location) (*PaymentServiceImpl, *clock) {
	c := &clock{t: time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)}
	svc := NewPaymentService(memory.NewOrderRepository(), loc).(*PaymentServiceImpl)
	svc.now = c.now
	return svc, c
}

func orderReq(code int64, amount int64, trainer string) payment.CreateOrderRequest {
	req := payment.CreateOrderRequest{
		OrderCode:       code,
		UserID:          "member-1",
		UserName:        "Member One",
		PackageID:       "pkg-basic",
		PackageName:     "Basic",
		PackageDuration: 30,
		Amount:          decimal.NewFromInt(amount),
	}
	if trainer != "" {
		req.PTTrainerID = strPtr(trainer)
		req.PTTrainerName = strPtr("Trainer " + trainer)
	}
	return req
}

func TestPaymentService_CreateOrder(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(nil)

	o, err := svc.CreateOrder(ctx, orderReq(1001, 500_000, ""))
	require.NoError(t, err)
	assert.Equal(t, payment.StatusPending, o.Status)

	_, err = svc.CreateOrder(ctx, orderReq(1001, 500_000, ""))
	assert.ErrorIs(t, err, payment.ErrOrderCodeExists)

	_, err = svc.CreateOrder(ctx, orderReq(1002, 999, ""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount")
}

func TestPaymentService_ConfirmManual(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(nil)
	_, err := svc.CreateOrder(ctx, orderReq(1, 2_000_000, ""))
	require.NoError(t, err)

	o, err := svc.ConfirmPayment(ctx, payment.ConfirmPaymentRequest{OrderCode: 1})

	require.NoError(t, err)
	assert.Equal(t, payment.StatusPaid, o.Status)
	assert.True(t, o.ConfirmedManually)
	assert.False(t, o.VerifiedWithGateway)

	_, err = svc.CancelOrder(ctx, payment.CancelOrderRequest{OrderCode: 1})
	assert.ErrorIs(t, err, payment.ErrOrderFinalized)
}

func TestPaymentService_ConfirmGatewayRequiresTransaction(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(nil)
	_, err := svc.CreateOrder(ctx, orderReq(1, 2_000_000, ""))
	require.NoError(t, err)

	_, err = svc.ConfirmPayment(ctx, payment.ConfirmPaymentRequest{OrderCode: 1, Source: payment.SourceGateway})
	require.Error(t, err)

	o, err := svc.ConfirmPayment(ctx, payment.ConfirmPaymentRequest{OrderCode: 1, Source: payment.SourceGateway, TransactionID: strPtr("tx-9")})
	require.NoError(t, err)
	assert.True(t, o.VerifiedWithGateway)
}

func TestPaymentService_ExpireStale(t *testing.T) {
	ctx := context.Background()
	svc, c := newTestService(nil)
	_, err := svc.CreateOrder(ctx, orderReq(1, 1_000_000, ""))
	require.NoError(t, err)
	_, err = svc.CreateOrder(ctx, orderReq(2, 1_000_000, ""))
	require.NoError(t, err)
	_, err = svc.ConfirmPayment(ctx, payment.ConfirmPaymentRequest{OrderCode: 2})
	require.NoError(t, err)

	c.t = c.t.Add(2 * time.Hour)
	_, err = svc.CreateOrder(ctx, orderReq(3, 1_000_000, ""))
	require.NoError(t, err)

	n, err := svc.ExpireStale(ctx, time.Hour)

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	o, err := svc.GetOrder(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusExpired, o.Status)
	fresh, err := svc.GetOrder(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusPending, fresh.Status)
}

func TestPaymentService_RevenueAndTrainerSales(t *testing.T) {
	ctx := context.Background()
	svc, c := newTestService(nil)
	for _, req := range []payment.CreateOrderRequest{
		orderReq(1, 3_000_000, "pt-1"),
		orderReq(2, 2_000_000, "pt-1"),
		orderReq(3, 5_000_000, "pt-2"),
		orderReq(4, 1_000_000, ""),
	} {
		_, err := svc.CreateOrder(ctx, req)
		require.NoError(t, err)
	}
	for _, code := range []int64{1, 3, 4} {
		_, err := svc.ConfirmPayment(ctx, payment.ConfirmPaymentRequest{OrderCode: code})
		require.NoError(t, err)
	}
	c.t = time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)
	_, err := svc.ConfirmPayment(ctx, payment.ConfirmPaymentRequest{OrderCode: 2})
	require.NoError(t, err)

	march, err := svc.GetMonthlyRevenueSummary(ctx, 2025, 3)
	require.NoError(t, err)
	assert.True(t, march.TotalRevenue.Equal(decimal.NewFromInt(9_000_000)))
	assert.Equal(t, 3, march.OrderCount)
	require.Len(t, march.ByPT, 2)
	assert.Equal(t, "pt-2", march.ByPT[0].PTID)

	sales, err := svc.GetPTSalesAmount(ctx, "pt-1", 2025, 3)
	require.NoError(t, err)
	assert.True(t, sales.Equal(decimal.NewFromInt(3_000_000)))

	april, err := svc.GetPTSalesAmount(ctx, "pt-1", 2025, 4)
	require.NoError(t, err)
	assert.True(t, april.Equal(decimal.NewFromInt(2_000_000)))

	_, err = svc.GetMonthlyRevenueSummary(ctx, 2025, 0)
	assert.ErrorIs(t, err, payment.ErrInvalidPeriod)
}

func TestPaymentService_RevenueUsesLocationMonthBoundary(t *testing.T) {
	ctx := context.Background()
	loc := time.FixedZone("ICT", 7*3600)
	svc, c := newTestService(loc)
	_, err := svc.CreateOrder(ctx, orderReq(1, 4_000_000, ""))
	require.NoError(t, err)
	// 2025-03-31 18:00 UTC is already April 1st in UTC+7.
	c.t = time.Date(2025, 3, 31, 18, 0, 0, 0, time.UTC)
	_, err = svc.ConfirmPayment(ctx, payment.ConfirmPaymentRequest{OrderCode: 1})
	require.NoError(t, err)

	march, err := svc.GetMonthlyRevenueSummary(ctx, 2025, 3)
	require.NoError(t, err)
	april, err := svc.GetMonthlyRevenueSummary(ctx, 2025, 4)
	require.NoError(t, err)

	assert.True(t, march.TotalRevenue.IsZero())
	assert.True(t, april.TotalRevenue.Equal(decimal.NewFromInt(4_000_000)))
}

func TestPaymentService_Statistics(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(nil)
	for code, amount := range map[int64]int64{1: 1_000_000, 2: 3_000_000, 3: 9_000_000} {
		_, err := svc.CreateOrder(ctx, orderReq(code, amount, ""))
		require.NoError(t, err)
	}
	_, err := svc.ConfirmPayment(ctx, payment.ConfirmPaymentRequest{OrderCode: 1})
	require.NoError(t, err)
	_, err = svc.ConfirmPayment(ctx, payment.ConfirmPaymentRequest{OrderCode: 2})
	require.NoError(t, err)
	_, err = svc.FailOrder(ctx, 3)
	require.NoError(t, err)

	st, err := svc.GetStatistics(ctx, payment.OrderFilter{})

	require.NoError(t, err)
	assert.Equal(t, 3, st.Total)
	assert.Equal(t, 2, st.ByStatus[payment.StatusPaid])
	assert.Equal(t, 1, st.ByStatus[payment.StatusFailed])
	assert.True(t, st.TotalRevenue.Equal(decimal.NewFromInt(4_000_000)))
	assert.True(t, st.AverageOrder.Equal(decimal.NewFromInt(2_000_000)))
}
