package postgresql

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/payment"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/database"
)

type orderRepository struct {
	db *database.DB
}

func NewOrderRepository(db *database.DB) payment.OrderRepository {
	return &orderRepository{db: db}
}

var orderColumns = []string{
	"id", "order_code", "user_id", "user_name", "user_email", "user_phone",
	"package_id", "package_name", "package_duration", "pt_trainer_id", "pt_trainer_name",
	"amount", "description", "status", "payment_method", "transaction_id",
	"confirmed_manually", "verified_with_gateway", "payment_link_id", "checkout_url", "cancel_reason",
	"metadata", "created_at", "updated_at", "paid_at", "cancelled_at",
}

func orderValues(o payment.PaymentOrder) []any {
	return []any{
		o.ID, o.OrderCode, o.UserID, o.UserName, o.UserEmail, o.UserPhone,
		o.PackageID, o.PackageName, o.PackageDuration, o.PTTrainerID, o.PTTrainerName,
		o.Amount, o.Description, o.Status, o.PaymentMethod, o.TransactionID,
		o.ConfirmedManually, o.VerifiedWithGateway, o.PaymentLinkID, o.CheckoutURL, o.CancelReason,
		o.Metadata, o.CreatedAt, o.UpdatedAt, o.PaidAt, o.CancelledAt,
	}
}

func scanOrder(row rowScanner) (payment.PaymentOrder, error) {
	var o payment.PaymentOrder
	err := row.Scan(
		&o.ID, &o.OrderCode, &o.UserID, &o.UserName, &o.UserEmail, &o.UserPhone,
		&o.PackageID, &o.PackageName, &o.PackageDuration, &o.PTTrainerID, &o.PTTrainerName,
		&o.Amount, &o.Description, &o.Status, &o.PaymentMethod, &o.TransactionID,
		&o.ConfirmedManually, &o.VerifiedWithGateway, &o.PaymentLinkID, &o.CheckoutURL, &o.CancelReason,
		&o.Metadata, &o.CreatedAt, &o.UpdatedAt, &o.PaidAt, &o.CancelledAt,
	)
	return o, err
}

func (r *orderRepository) Create(ctx context.Context, o payment.PaymentOrder) (payment.PaymentOrder, error) {
	q := GetQuerier(ctx, r.db)

	query, args, err := psql.Insert("payment_orders").Columns(orderColumns...).Values(orderValues(o)...).ToSql()
	if err != nil {
		return payment.PaymentOrder{}, err
	}
	if _, err := q.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err, "uk_payment_orders_order_code") {
			return payment.PaymentOrder{}, payment.ErrOrderCodeExists
		}
		return payment.PaymentOrder{}, fmt.Errorf("failed to create payment order: %w", err)
	}
	return o, nil
}

func (r *orderRepository) Update(ctx context.Context, o payment.PaymentOrder) error {
	q := GetQuerier(ctx, r.db)

	values := orderValues(o)
	set := make(map[string]any, len(orderColumns))
	for i, col := range orderColumns {
		switch col {
		case "id", "order_code", "created_at":
			continue
		}
		set[col] = values[i]
	}
	query, args, err := psql.Update("payment_orders").SetMap(set).Where(sq.Eq{"order_code": o.OrderCode}).ToSql()
	if err != nil {
		return err
	}
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update payment order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payment.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) GetByOrderCode(ctx context.Context, orderCode int64) (payment.PaymentOrder, error) {
	q := GetQuerier(ctx, r.db)

	query, args, err := psql.Select(orderColumns...).From("payment_orders").Where(sq.Eq{"order_code": orderCode}).ToSql()
	if err != nil {
		return payment.PaymentOrder{}, err
	}
	o, err := scanOrder(q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return payment.PaymentOrder{}, payment.ErrOrderNotFound
		}
		return payment.PaymentOrder{}, fmt.Errorf("failed to get payment order: %w", err)
	}
	return o, nil
}

func (r *orderRepository) List(ctx context.Context, f payment.OrderFilter) ([]payment.PaymentOrder, error) {
	where := sq.And{}
	if f.UserID != nil {
		where = append(where, sq.Eq{"user_id": *f.UserID})
	}
	if f.Status != nil {
		where = append(where, sq.Eq{"status": *f.Status})
	}
	if f.PTTrainerID != nil {
		where = append(where, sq.Eq{"pt_trainer_id": *f.PTTrainerID})
	}
	if f.PackageID != nil {
		where = append(where, sq.Eq{"package_id": *f.PackageID})
	}
	if f.CreatedBefore != nil {
		where = append(where, sq.Lt{"created_at": *f.CreatedBefore})
	}
	if f.PaidFrom != nil {
		where = append(where, sq.GtOrEq{"paid_at": *f.PaidFrom})
	}
	if f.PaidTo != nil {
		where = append(where, sq.Lt{"paid_at": *f.PaidTo})
	}
	if f.Search != nil && *f.Search != "" {
		like := "%" + *f.Search + "%"
		where = append(where, sq.Or{
			sq.ILike{"user_name": like},
			sq.ILike{"package_name": like},
			sq.Expr("order_code::text LIKE ?", like),
		})
	}

	builder := psql.Select(orderColumns...).From("payment_orders").Where(where).OrderBy("created_at DESC")
	if f.Limit > 0 {
		builder = builder.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		builder = builder.Offset(uint64(f.Offset))
	}
	return r.query(ctx, builder)
}

func (r *orderRepository) ListPaidBetween(ctx context.Context, from, to time.Time) ([]payment.PaymentOrder, error) {
	builder := psql.Select(orderColumns...).
		From("payment_orders").
		Where(sq.Eq{"status": payment.StatusPaid}).
		Where(sq.Expr("COALESCE(paid_at, created_at) >= ? AND COALESCE(paid_at, created_at) < ?", from, to)).
		OrderBy("created_at DESC")
	return r.query(ctx, builder)
}

func (r *orderRepository) query(ctx context.Context, builder sq.SelectBuilder) ([]payment.PaymentOrder, error) {
	q := GetQuerier(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment orders: %w", err)
	}
	defer rows.Close()

	var orders []payment.PaymentOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
