package payment

import (
	"time"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateOrderRequest struct {
	OrderCode       int64             `json:"order_code"`
	UserID          string            `json:"user_id"`
	UserName        string            `json:"user_name"`
	UserEmail       *string           `json:"user_email,omitempty"`
	UserPhone       *string           `json:"user_phone,omitempty"`
	PackageID       string            `json:"package_id"`
	PackageName     string            `json:"package_name"`
	PackageDuration int               `json:"package_duration"`
	PTTrainerID     *string           `json:"pt_trainer_id,omitempty"`
	PTTrainerName   *string           `json:"pt_trainer_name,omitempty"`
	Amount          decimal.Decimal   `json:"amount"`
	Description     *string           `json:"description,omitempty"`
	PaymentLinkID   *string           `json:"payment_link_id,omitempty"`
	CheckoutURL     *string           `json:"checkout_url,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

func (r *CreateOrderRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.OrderCode <= 0 {
		errs.Add("order_code", "must be a positive number")
	}
	if validator.IsEmpty(r.UserID) {
		errs.Add("user_id", "is required")
	}
	if validator.IsEmpty(r.UserName) {
		errs.Add("user_name", "is required")
	}
	if validator.IsEmpty(r.PackageID) {
		errs.Add("package_id", "is required")
	}
	if validator.IsEmpty(r.PackageName) {
		errs.Add("package_name", "is required")
	}
	if r.PackageDuration <= 0 {
		errs.Add("package_duration", "must be greater than 0")
	}
	if r.Amount.LessThan(MinOrderAmount) {
		errs.Add("amount", "must be at least 1000")
	}
	if r.PTTrainerID != nil && validator.IsEmpty(*r.PTTrainerID) {
		errs.Add("pt_trainer_id", "cannot be empty")
	}

	return errs.Err()
}

type ConfirmPaymentRequest struct {
	OrderCode     int64              `json:"-"`
	Source        ConfirmationSource `json:"source"`
	TransactionID *string            `json:"transaction_id,omitempty"`
	PaymentMethod *string            `json:"payment_method,omitempty"`
}

func (r *ConfirmPaymentRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Source != "" && r.Source != SourceManual && r.Source != SourceGateway {
		errs.Add("source", "must be manual or gateway")
	}
	if r.Source == SourceGateway && (r.TransactionID == nil || validator.IsEmpty(*r.TransactionID)) {
		errs.Add("transaction_id", "is required for gateway confirmation")
	}
	return errs.Err()
}

type CancelOrderRequest struct {
	OrderCode int64   `json:"-"`
	Reason    *string `json:"reason,omitempty"`
}

type OrderFilter struct {
	UserID        *string
	Status        *OrderStatus
	PTTrainerID   *string
	PackageID     *string
	CreatedBefore *time.Time
	PaidFrom      *time.Time
	PaidTo        *time.Time
	Search        *string
	Limit         int
	Offset        int
}
