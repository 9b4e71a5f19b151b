package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/budget"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/expense"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/payment"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/salaryconfig"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/export"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenExpired),
		errors.Is(err, auth.ErrTokenRevoked):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrOwnerAccessRequired),
		errors.Is(err, user.ErrFinanceAccessRequired),
		errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrInvalidRole):
		Unauthorized(w, err.Error())

	// Not found
	case errors.Is(err, salaryconfig.ErrSalaryConfigNotFound),
		errors.Is(err, salaryconfig.ErrNoActiveSalaryConfig),
		errors.Is(err, salaryconfig.ErrLineItemNotFound),
		errors.Is(err, salary.ErrSalaryRecordNotFound),
		errors.Is(err, expense.ErrExpenseNotFound),
		errors.Is(err, expense.ErrCategoryNotFound),
		errors.Is(err, budget.ErrBudgetNotFound),
		errors.Is(err, budget.ErrCategoryNotInBudget),
		errors.Is(err, payment.ErrOrderNotFound),
		errors.Is(err, notification.ErrNotificationNotFound),
		errors.Is(err, payroll.ErrNoRecordsForPeriod),
		errors.Is(err, report.ErrNoData),
		errors.Is(err, cron.ErrJobNotFound):
		NotFound(w, err.Error())

	// Conflicts and invalid state
	case errors.Is(err, salary.ErrSalaryRecordExists),
		errors.Is(err, salary.ErrSalaryRecordPaid),
		errors.Is(err, salary.ErrCannotDeletePaidRecord),
		errors.Is(err, salary.ErrInvalidStatusTransition),
		errors.Is(err, salaryconfig.ErrSalaryConfigInactive),
		errors.Is(err, expense.ErrExpenseDeleted),
		errors.Is(err, expense.ErrExpensePaid),
		errors.Is(err, expense.ErrApprovalAlreadyProcessed),
		errors.Is(err, expense.ErrInvalidStatusTransition),
		errors.Is(err, expense.ErrCategoryCodeExists),
		errors.Is(err, expense.ErrCategoryInactive),
		errors.Is(err, budget.ErrBudgetClosed),
		errors.Is(err, budget.ErrInvalidStatusTransition),
		errors.Is(err, budget.ErrNoCategories),
		errors.Is(err, payment.ErrOrderCodeExists),
		errors.Is(err, payment.ErrOrderFinalized),
		errors.Is(err, payroll.ErrNoActiveEmployees):
		Conflict(w, err.Error())

	// Bad input
	case errors.Is(err, salary.ErrInvalidPeriod),
		errors.Is(err, payroll.ErrInvalidPeriod),
		errors.Is(err, expense.ErrInvalidPeriod),
		errors.Is(err, budget.ErrInvalidPeriod),
		errors.Is(err, payment.ErrInvalidPeriod),
		errors.Is(err, report.ErrInvalidPeriod),
		errors.Is(err, report.ErrInvalidMonthsBack),
		errors.Is(err, notification.ErrInvalidType),
		errors.Is(err, export.ErrUnsupportedFormat):
		BadRequest(w, err.Error(), nil)

	case errors.Is(err, notification.ErrQueueFull),
		errors.Is(err, notification.ErrStopped):
		ServiceUnavailable(w, err.Error())

	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
