package payment

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/payment"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/period"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentServiceImpl struct {
	repo payment.OrderRepository
	loc  *time.Location
	now  func() time.Time
}

// NewPaymentService wires the order service. Month boundaries for revenue are taken in loc
// (UTC when nil).
func NewPaymentService(repo payment.OrderRepository, loc *time.Location) payment.PaymentService {
	if loc == nil {
		loc = time.UTC
	}
	return &PaymentServiceImpl{repo: repo, loc: loc, now: time.Now}
}

func (s *PaymentServiceImpl) CreateOrder(ctx context.Context, req payment.CreateOrderRequest) (payment.PaymentOrder, error) {
	if err := req.Validate(); err != nil {
		return payment.PaymentOrder{}, err
	}
	now := s.now()
	o := payment.PaymentOrder{
		ID:              uuid.NewString(),
		OrderCode:       req.OrderCode,
		UserID:          req.UserID,
		UserName:        req.UserName,
		UserEmail:       req.UserEmail,
		UserPhone:       req.UserPhone,
		PackageID:       req.PackageID,
		PackageName:     req.PackageName,
		PackageDuration: req.PackageDuration,
		PTTrainerID:     req.PTTrainerID,
		PTTrainerName:   req.PTTrainerName,
		Amount:          req.Amount,
		Description:     req.Description,
		Status:          payment.StatusPending,
		PaymentLinkID:   req.PaymentLinkID,
		CheckoutURL:     req.CheckoutURL,
		Metadata:        maps.Clone(req.Metadata),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return s.repo.Create(ctx, o)
}

func (s *PaymentServiceImpl) GetOrder(ctx context.Context, orderCode int64) (payment.PaymentOrder, error) {
	return s.repo.GetByOrderCode(ctx, orderCode)
}

func (s *PaymentServiceImpl) ListOrders(ctx context.Context, filter payment.OrderFilter) ([]payment.PaymentOrder, error) {
	return s.repo.List(ctx, filter)
}

// ConfirmPayment marks a pending order paid. An empty source means a manual confirmation.
func (s *PaymentServiceImpl) ConfirmPayment(ctx context.Context, req payment.ConfirmPaymentRequest) (payment.PaymentOrder, error) {
	if err := req.Validate(); err != nil {
		return payment.PaymentOrder{}, err
	}
	source := req.Source
	if source == "" {
		source = payment.SourceManual
	}
	o, err := s.update(ctx, req.OrderCode, func(o *payment.PaymentOrder, now time.Time) error {
		return o.MarkPaid(source, req.TransactionID, req.PaymentMethod, now)
	})
	if err != nil {
		return payment.PaymentOrder{}, err
	}
	slog.Info("payment confirmed", "order_code", o.OrderCode, "source", source, "amount", o.Amount.String())
	return o, nil
}

func (s *PaymentServiceImpl) CancelOrder(ctx context.Context, req payment.CancelOrderRequest) (payment.PaymentOrder, error) {
	return s.update(ctx, req.OrderCode, func(o *payment.PaymentOrder, now time.Time) error {
		return o.Cancel(req.Reason, now)
	})
}

func (s *PaymentServiceImpl) FailOrder(ctx context.Context, orderCode int64) (payment.PaymentOrder, error) {
	return s.update(ctx, orderCode, func(o *payment.PaymentOrder, now time.Time) error {
		return o.Fail(now)
	})
}

func (s *PaymentServiceImpl) ExpireStale(ctx context.Context, olderThan time.Duration) (int, error) {
	now := s.now()
	cutoff := now.Add(-olderThan)
	pending := payment.StatusPending
	orders, err := s.repo.List(ctx, payment.OrderFilter{Status: &pending, CreatedBefore: &cutoff})
	if err != nil {
		return 0, fmt.Errorf("failed to list stale orders: %w", err)
	}

	expired := 0
	for i := range orders {
		o := orders[i]
		if err := o.Expire(now); err != nil {
			continue
		}
		if err := s.repo.Update(ctx, o); err != nil {
			slog.Warn("failed to expire order", "order_code", o.OrderCode, "error", err)
			continue
		}
		expired++
	}
	if expired > 0 {
		slog.Info("expired stale orders", "count", expired, "cutoff", cutoff)
	}
	return expired, nil
}

func (s *PaymentServiceImpl) GetStatistics(ctx context.Context, filter payment.OrderFilter) (payment.Statistics, error) {
	filter.Limit, filter.Offset = 0, 0
	orders, err := s.repo.List(ctx, filter)
	if err != nil {
		return payment.Statistics{}, err
	}

	st := payment.Statistics{
		Total:        len(orders),
		ByStatus:     map[payment.OrderStatus]int{},
		TotalRevenue: decimal.Zero,
		AverageOrder: decimal.Zero,
	}
	paid := 0
	for _, o := range orders {
		st.ByStatus[o.Status]++
		if o.Status == payment.StatusPaid {
			paid++
			st.TotalRevenue = st.TotalRevenue.Add(o.Amount)
		}
	}
	if paid > 0 {
		st.AverageOrder = st.TotalRevenue.Div(decimal.NewFromInt(int64(paid))).Round(2)
	}
	return st, nil
}

func (s *PaymentServiceImpl) GetMonthlyRevenueSummary(ctx context.Context, year, month int) (payment.RevenueSummary, error) {
	m, orders, err := s.paidInMonth(ctx, year, month)
	if err != nil {
		return payment.RevenueSummary{}, err
	}
	return payment.SummarizeRevenue(m, orders), nil
}

func (s *PaymentServiceImpl) GetPTSalesAmount(ctx context.Context, employeeID string, year, month int) (decimal.Decimal, error) {
	m, orders, err := s.paidInMonth(ctx, year, month)
	if err != nil {
		return decimal.Zero, err
	}
	return payment.TrainerSales(m, employeeID, orders), nil
}

// paidInMonth loads paid orders of the month and converts their revenue times into loc.
func (s *PaymentServiceImpl) paidInMonth(ctx context.Context, year, month int) (period.Month, []payment.PaymentOrder, error) {
	if !validator.IsValidYear(year) || !validator.IsValidMonth(month) {
		return period.Month{}, nil, payment.ErrInvalidPeriod
	}
	m := period.Month{Year: year, Month: month}
	orders, err := s.repo.ListPaidBetween(ctx, m.Start(s.loc), m.End(s.loc))
	if err != nil {
		return m, nil, fmt.Errorf("failed to load paid orders for %s: %w", m.Key(), err)
	}
	for i := range orders {
		orders[i].CreatedAt = orders[i].CreatedAt.In(s.loc)
		if orders[i].PaidAt != nil {
			at := orders[i].PaidAt.In(s.loc)
			orders[i].PaidAt = &at
		}
	}
	return m, orders, nil
}

func (s *PaymentServiceImpl) update(ctx context.Context, code int64, fn func(*payment.PaymentOrder, time.Time) error) (payment.PaymentOrder, error) {
	o, err := s.repo.GetByOrderCode(ctx, code)
	if err != nil {
		return payment.PaymentOrder{}, err
	}
	if err := fn(&o, s.now()); err != nil {
		return payment.PaymentOrder{}, err
	}
	if err := s.repo.Update(ctx, o); err != nil {
		return payment.PaymentOrder{}, fmt.Errorf("failed to update order: %w", err)
	}
	return o, nil
}
