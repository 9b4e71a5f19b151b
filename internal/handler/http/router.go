package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/config"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/httprate"
	"github.com/go-chi/jwtauth/v5"
)

// Handlers groups every HTTP handler mounted by NewRouter. Metrics may be nil.
type Handlers struct {
	SalaryConfig SalaryConfigHandler
	SalaryRecord SalaryRecordHandler
	Payroll      PayrollHandler
	Expense      ExpenseHandler
	Budget       BudgetHandler
	Payment      PaymentHandler
	Report       ReportHandler
	Notification NotificationHandler
	Job          JobHandler
	Metrics      http.Handler
}

func NewRouter(cfg *config.Config, logger *slog.Logger, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.App.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
		// Streaming responses stay open for minutes
		Skip: func(req *http.Request, respStatus int) bool {
			return req.URL.Path == "/api/v1/notifications/stream"
		},
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))
	if cfg.RateLimit.RequestsPerMinute > 0 {
		r.Use(httprate.LimitByIP(cfg.RateLimit.RequestsPerMinute, time.Minute))
	}

	if h.Metrics != nil {
		r.Handle("/metrics", h.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		// EventSource authenticates with a short-lived token in the query string
		r.Get("/notifications/stream", h.Notification.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))
			r.Use(chiMiddleware.AllowContentType("application/json"))

			r.Route("/salary-configs", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollView))
					r.Get("/", h.SalaryConfig.List)
					r.Get("/{id}", h.SalaryConfig.GetByID)
					r.Get("/employee/{employeeID}", h.SalaryConfig.GetByEmployee)
					r.Post("/employee/{employeeID}/preview", h.SalaryConfig.PreviewNetSalary)
				})
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionSalaryConfigure))
					r.Post("/", h.SalaryConfig.Create)
					r.Put("/{id}", h.SalaryConfig.Update)
					r.Post("/{id}/deactivate", h.SalaryConfig.Deactivate)
				})
			})

			r.Route("/salary-records", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollView))
					r.Get("/", h.SalaryRecord.ListByPeriod)
					r.Get("/{id}", h.SalaryRecord.GetByID)
					r.Get("/{id}/payslip", h.SalaryRecord.Payslip)
					r.Get("/employee/{employeeID}", h.SalaryRecord.ListByEmployee)
				})
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollManage))
					r.Post("/", h.SalaryRecord.Create)
					r.Put("/{id}", h.SalaryRecord.Update)
					r.Delete("/{id}", h.SalaryRecord.Delete)
					r.Post("/{id}/pay", h.SalaryRecord.MarkAsPaid)
				})
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollApprove))
					r.Post("/{id}/approve", h.SalaryRecord.Approve)
					r.Post("/bulk-approve", h.SalaryRecord.BulkApprove)
				})
			})

			r.Route("/me/salary-records", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionPayslipViewOwn))
				r.Get("/", h.SalaryRecord.MyRecords)
				r.Get("/{id}/payslip", h.SalaryRecord.MyPayslip)
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollManage))
					r.Post("/generate", h.Payroll.GenerateMonthly)
					r.Post("/commissions", h.Payroll.RefreshCommissions)
					r.Post("/salary-expenses", h.Payroll.PostSalaryExpenses)
				})
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollView))
					r.Get("/summary", h.Payroll.GetSummary)
					r.Get("/top-earners", h.Payroll.GetTopEarners)
					r.Get("/pt-commissions", h.Payroll.GetPTCommissions)
					r.Post("/compare", h.Payroll.CompareSalary)
					r.Get("/export", h.Payroll.ExportSummary)
				})
			})

			r.Route("/expenses", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionExpenseView))
					r.Get("/", h.Expense.List)
					r.Get("/overdue", h.Expense.Overdue)
					r.Get("/upcoming", h.Expense.Upcoming)
					r.Get("/pending-approvals", h.Expense.PendingApprovals)
					r.Get("/summary/monthly", h.Expense.MonthlySummary)
					r.Get("/summary/quarterly", h.Expense.QuarterlySummary)
					r.Get("/summary/yearly", h.Expense.YearlySummary)
					r.Get("/statistics", h.Expense.Statistics)
					r.Get("/export", h.Expense.Export)
					r.Get("/{id}", h.Expense.Get)
				})
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionExpenseManage))
					r.Post("/", h.Expense.Create)
					r.Put("/{id}", h.Expense.Update)
					r.Delete("/{id}", h.Expense.Delete)
					r.Post("/{id}/pay", h.Expense.MarkAsPaid)
					r.Post("/{id}/cancel", h.Expense.Cancel)
				})
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionExpenseApprove))
					r.Post("/{id}/approve", h.Expense.Approve)
					r.Post("/{id}/reject", h.Expense.Reject)
					r.Post("/bulk-approve", h.Expense.BulkApprove)
				})
			})

			r.Route("/expense-categories", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionExpenseView))
					r.Get("/", h.Expense.ListCategories)
					r.Get("/{id}", h.Expense.GetCategory)
				})
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionBudgetManage))
					r.Post("/", h.Expense.CreateCategory)
					r.Put("/{id}", h.Expense.UpdateCategory)
					r.Post("/{id}/deactivate", h.Expense.DeactivateCategory)
				})
			})

			r.Route("/budgets", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionExpenseView))
					r.Get("/", h.Budget.List)
					r.Get("/compare", h.Budget.Compare)
					r.Get("/forecast", h.Budget.Forecast)
					r.Get("/trends", h.Budget.Trends)
					r.Get("/{id}", h.Budget.Get)
					r.Get("/{id}/analysis", h.Budget.Analyze)
					r.Get("/{id}/export", h.Budget.Export)
				})
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionBudgetManage))
					r.Post("/", h.Budget.Create)
					r.Put("/{id}/planned", h.Budget.UpdatePlanned)
					r.Post("/{id}/actuals", h.Budget.RefreshActuals)
					r.Post("/{id}/activate", h.Budget.Activate)
					r.Post("/{id}/complete", h.Budget.Complete)
					r.Post("/{id}/cancel", h.Budget.Cancel)
				})
			})

			r.Route("/orders", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionOrderManage))
				r.Post("/", h.Payment.CreateOrder)
				r.Get("/", h.Payment.ListOrders)
				r.Get("/statistics", h.Payment.Statistics)
				r.Get("/{orderCode}", h.Payment.GetOrder)
				r.Post("/{orderCode}/confirm", h.Payment.ConfirmPayment)
				r.Post("/{orderCode}/cancel", h.Payment.CancelOrder)
				r.Post("/{orderCode}/fail", h.Payment.FailOrder)
			})

			r.Route("/revenue", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionReportsView))
				r.Get("/monthly", h.Payment.MonthlyRevenue)
				r.Get("/trainers/{trainerID}", h.Payment.TrainerSales)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionReportsView))
				r.Get("/monthly", h.Report.GetMonthlyReport)
				r.Get("/quarterly", h.Report.GetQuarterlyReport)
				r.Get("/yearly", h.Report.GetYearlyReport)
				r.Get("/break-even", h.Report.GetBreakEven)
				r.Get("/cash-flow", h.Report.GetCashFlow)
				r.Get("/kpis", h.Report.GetKPIs)
				r.Get("/trends", h.Report.GetTrends)
				r.Post("/compare", h.Report.ComparePeriods)
				r.Get("/export", h.Report.Export)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.Notification.List)
				r.Get("/unread-count", h.Notification.UnreadCount)
				r.Post("/read", h.Notification.MarkAsRead)
				r.Post("/read-all", h.Notification.MarkAllAsRead)
				r.Delete("/{id}", h.Notification.Delete)
				r.Get("/preferences", h.Notification.GetPreferences)
				r.Put("/preferences", h.Notification.UpdatePreference)
				r.Post("/stream-token", h.Notification.GetSSEToken)
			})

			r.Route("/jobs", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionJobsRun))
				r.Get("/", h.Job.List)
				r.Post("/{name}/run", h.Job.Run)
			})
		})
	})
	return r
}
