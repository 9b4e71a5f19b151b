package payment

import (
	"context"
	"time"
)

type OrderRepository interface {
	Create(ctx context.Context, o PaymentOrder) (PaymentOrder, error)
	Update(ctx context.Context, o PaymentOrder) error
	GetByOrderCode(ctx context.Context, orderCode int64) (PaymentOrder, error)
	List(ctx context.Context, filter OrderFilter) ([]PaymentOrder, error)
	// ListPaidBetween returns paid orders whose paid time (or creation time) is in [from, to).
	ListPaidBetween(ctx context.Context, from, to time.Time) ([]PaymentOrder, error)
}
