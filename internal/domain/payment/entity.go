package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus enum
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusCancelled OrderStatus = "CANCELLED"
	StatusFailed    OrderStatus = "FAILED"
	StatusExpired   OrderStatus = "EXPIRED"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusCancelled, StatusFailed, StatusExpired:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed.
func (s OrderStatus) IsTerminal() bool {
	return s != StatusPending
}

// ConfirmationSource enum
type ConfirmationSource string

const (
	SourceManual  ConfirmationSource = "manual"
	SourceGateway ConfirmationSource = "gateway"
)

// MinOrderAmount is the smallest accepted order amount.
var MinOrderAmount = decimal.NewFromInt(1000)

// PaymentOrder - a membership package purchase
type PaymentOrder struct {
	ID              string          `json:"id"`
	OrderCode       int64           `json:"order_code"`
	UserID          string          `json:"user_id"`
	UserName        string          `json:"user_name"`
	UserEmail       *string         `json:"user_email,omitempty"`
	UserPhone       *string         `json:"user_phone,omitempty"`
	PackageID       string          `json:"package_id"`
	PackageName     string          `json:"package_name"`
	PackageDuration int             `json:"package_duration"`
	PTTrainerID     *string         `json:"pt_trainer_id,omitempty"`
	PTTrainerName   *string         `json:"pt_trainer_name,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Description     *string         `json:"description,omitempty"`

	Status              OrderStatus `json:"status"`
	PaymentMethod       *string     `json:"payment_method,omitempty"`
	TransactionID       *string     `json:"transaction_id,omitempty"`
	ConfirmedManually   bool        `json:"confirmed_manually"`
	VerifiedWithGateway bool        `json:"verified_with_gateway"`
	PaymentLinkID       *string     `json:"payment_link_id,omitempty"`
	CheckoutURL         *string     `json:"checkout_url,omitempty"`
	CancelReason        *string     `json:"cancel_reason,omitempty"`

	Metadata map[string]string `json:"metadata,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

// RevenueTime is when the order counts as revenue: paid time, falling back to creation.
func (o *PaymentOrder) RevenueTime() time.Time {
	if o.PaidAt != nil {
		return *o.PaidAt
	}
	return o.CreatedAt
}

// MarkPaid settles a pending order. A manual confirmation never claims gateway verification.
func (o *PaymentOrder) MarkPaid(source ConfirmationSource, transactionID, method *string, now time.Time) error {
	if o.Status != StatusPending {
		return ErrOrderFinalized
	}
	o.Status = StatusPaid
	o.PaidAt = &now
	o.UpdatedAt = now
	o.TransactionID = transactionID
	if method != nil {
		o.PaymentMethod = method
	}
	switch source {
	case SourceGateway:
		o.VerifiedWithGateway = true
		o.ConfirmedManually = false
	default:
		o.ConfirmedManually = true
		o.VerifiedWithGateway = false
	}
	return nil
}

func (o *PaymentOrder) Cancel(reason *string, now time.Time) error {
	if o.Status != StatusPending {
		return ErrOrderFinalized
	}
	o.Status = StatusCancelled
	o.CancelReason = reason
	o.CancelledAt = &now
	o.UpdatedAt = now
	return nil
}

func (o *PaymentOrder) Fail(now time.Time) error {
	if o.Status != StatusPending {
		return ErrOrderFinalized
	}
	o.Status = StatusFailed
	o.UpdatedAt = now
	return nil
}

func (o *PaymentOrder) Expire(now time.Time) error {
	if o.Status != StatusPending {
		return ErrOrderFinalized
	}
	o.Status = StatusExpired
	o.UpdatedAt = now
	return nil
}

// PackageRevenue groups paid revenue by package.
type PackageRevenue struct {
	PackageID   string          `json:"package_id"`
	PackageName string          `json:"package_name"`
	Count       int             `json:"count"`
	Total       decimal.Decimal `json:"total"`
}

// TrainerRevenue groups paid revenue by personal trainer.
type TrainerRevenue struct {
	PTID   string          `json:"pt_id"`
	PTName string          `json:"pt_name"`
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

// RevenueSummary is the paid revenue for one month.
type RevenueSummary struct {
	Year         int              `json:"year"`
	Month        int              `json:"month"`
	TotalRevenue decimal.Decimal  `json:"total_revenue"`
	OrderCount   int              `json:"order_count"`
	ByPackage    []PackageRevenue `json:"by_package"`
	ByPT         []TrainerRevenue `json:"by_pt"`
}

type Statistics struct {
	Total        int                 `json:"total"`
	ByStatus     map[OrderStatus]int `json:"by_status"`
	TotalRevenue decimal.Decimal     `json:"total_revenue"`
	AverageOrder decimal.Decimal     `json:"average_order"`
}
