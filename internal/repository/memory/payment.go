package memory

import (
	"context"
	"maps"
	"strconv"
	"time"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/payment"
)

type orderRepository struct {
	t *table[payment.PaymentOrder]
}

func NewOrderRepository() payment.OrderRepository {
	return &orderRepository{t: newTable[payment.PaymentOrder]()}
}

func orderKey(code int64) string {
	return strconv.FormatInt(code, 10)
}

func cloneOrder(o payment.PaymentOrder) payment.PaymentOrder {
	o.Metadata = maps.Clone(o.Metadata)
	return o
}

func (r *orderRepository) Create(ctx context.Context, o payment.PaymentOrder) (payment.PaymentOrder, error) {
	if _, ok := r.t.get(orderKey(o.OrderCode)); ok {
		return payment.PaymentOrder{}, payment.ErrOrderCodeExists
	}
	r.t.put(orderKey(o.OrderCode), cloneOrder(o))
	return o, nil
}

func (r *orderRepository) Update(ctx context.Context, o payment.PaymentOrder) error {
	if _, ok := r.t.get(orderKey(o.OrderCode)); !ok {
		return payment.ErrOrderNotFound
	}
	r.t.put(orderKey(o.OrderCode), cloneOrder(o))
	return nil
}

func (r *orderRepository) GetByOrderCode(ctx context.Context, code int64) (payment.PaymentOrder, error) {
	o, ok := r.t.get(orderKey(code))
	if !ok {
		return payment.PaymentOrder{}, payment.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func newestOrderFirst(a, b payment.PaymentOrder) int {
	return b.CreatedAt.Compare(a.CreatedAt)
}

func (r *orderRepository) List(ctx context.Context, f payment.OrderFilter) ([]payment.PaymentOrder, error) {
	rows := r.t.filter(func(o payment.PaymentOrder) bool {
		if f.UserID != nil && o.UserID != *f.UserID {
			return false
		}
		if f.Status != nil && o.Status != *f.Status {
			return false
		}
		if f.PTTrainerID != nil && (o.PTTrainerID == nil || *o.PTTrainerID != *f.PTTrainerID) {
			return false
		}
		if f.PackageID != nil && o.PackageID != *f.PackageID {
			return false
		}
		if f.CreatedBefore != nil && !o.CreatedAt.Before(*f.CreatedBefore) {
			return false
		}
		if f.PaidFrom != nil && (o.PaidAt == nil || o.PaidAt.Before(*f.PaidFrom)) {
			return false
		}
		if f.PaidTo != nil && (o.PaidAt == nil || !o.PaidAt.Before(*f.PaidTo)) {
			return false
		}
		if f.Search != nil && !containsFold(o.UserName, *f.Search) && !containsFold(o.PackageName, *f.Search) &&
			!containsFold(orderKey(o.OrderCode), *f.Search) {
			return false
		}
		return true
	}, newestOrderFirst)
	return page(rows, f.Limit, f.Offset), nil
}

func (r *orderRepository) ListPaidBetween(ctx context.Context, from, to time.Time) ([]payment.PaymentOrder, error) {
	return r.t.filter(func(o payment.PaymentOrder) bool {
		if o.Status != payment.StatusPaid {
			return false
		}
		at := o.RevenueTime()
		return !at.Before(from) && at.Before(to)
	}, newestOrderFirst), nil
}
