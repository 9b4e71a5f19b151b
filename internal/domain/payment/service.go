package payment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentService interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (PaymentOrder, error)
	GetOrder(ctx context.Context, orderCode int64) (PaymentOrder, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]PaymentOrder, error)
	ConfirmPayment(ctx context.Context, req ConfirmPaymentRequest) (PaymentOrder, error)
	CancelOrder(ctx context.Context, req CancelOrderRequest) (PaymentOrder, error)
	FailOrder(ctx context.Context, orderCode int64) (PaymentOrder, error)
	// ExpireStale expires pending orders created before now-olderThan and returns the count.
	ExpireStale(ctx context.Context, olderThan time.Duration) (int, error)
	GetStatistics(ctx context.Context, filter OrderFilter) (Statistics, error)

	GetMonthlyRevenueSummary(ctx context.Context, year, month int) (RevenueSummary, error)
	GetPTSalesAmount(ctx context.Context, employeeID string, year, month int) (decimal.Decimal, error)
}
