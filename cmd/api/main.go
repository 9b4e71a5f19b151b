package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/config"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/budget"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/expense"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/payment"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/salaryconfig"
	appHTTP "github.com/cmlabs-hris/gym-payroll-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/repository/postgresql"
	budgetService "github.com/cmlabs-hris/gym-payroll-backend-go/internal/service/budget"
	expenseService "github.com/cmlabs-hris/gym-payroll-backend-go/internal/service/expense"
	notificationService "github.com/cmlabs-hris/gym-payroll-backend-go/internal/service/notification"
	paymentService "github.com/cmlabs-hris/gym-payroll-backend-go/internal/service/payment"
	payrollService "github.com/cmlabs-hris/gym-payroll-backend-go/internal/service/payroll"
	reportService "github.com/cmlabs-hris/gym-payroll-backend-go/internal/service/report"
	salaryService "github.com/cmlabs-hris/gym-payroll-backend-go/internal/service/salary"
	salaryConfigService "github.com/cmlabs-hris/gym-payroll-backend-go/internal/service/salaryconfig"
	"github.com/cmlabs-hris/gym-payroll-backend-go/migrations"
	"github.com/go-chi/httplog/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 15 * time.Second

type repositories struct {
	salaryConfigs salaryconfig.SalaryConfigRepository
	salaryRecords salary.SalaryRecordRepository
	expenses      expense.ExpenseRepository
	categories    expense.CategoryRepository
	budgets       budget.BudgetRepository
	orders        payment.OrderRepository
	notifications notification.NotificationRepository
	tx            database.Transactor
}

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(!cfg.IsProduction())
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var repos repositories
	if cfg.Database.Disabled {
		logger.Warn("database disabled, using in-memory repositories")
		repos = memoryRepositories()
	} else {
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
			MaxConns: int32(cfg.Database.MaxConns),
		})
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		if cfg.Database.AutoMigrate {
			if err := database.Migrate(ctx, db, migrations.FS); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}
		}
		repos = postgresRepositories(db)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	var reportCache report.Cache
	if cfg.Redis.Addr != "" {
		rc, err := cache.Connect(ctx, cache.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.App.Name + ":",
		})
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer rc.Close()
		reportCache = rc
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	loc := cfg.Location()

	if reportCache != nil {
		inv := reportService.NewInvalidator(reportCache, loc)
		repos.salaryRecords = inv.SalaryRecords(repos.salaryRecords)
		repos.expenses = inv.Expenses(repos.expenses)
		repos.orders = inv.Orders(repos.orders)
	}

	hub := sse.NewHub[notification.Event](16)
	notifSvc := notificationService.NewNotificationService(repos.notifications, hub, m, notificationService.Config{
		BatchSize:     cfg.Notification.BatchSize,
		FlushInterval: cfg.Notification.FlushInterval,
		WorkerCount:   cfg.Notification.WorkerCount,
		QueueSize:     cfg.Notification.QueueSize,
	})
	defer notifSvc.Stop()

	salaryConfigSvc := salaryConfigService.NewSalaryConfigService(repos.tx, repos.salaryConfigs)
	salaryRecordSvc := salaryService.NewSalaryRecordService(repos.salaryRecords, notifSvc, cfg.App.Currency)
	paymentSvc := paymentService.NewPaymentService(repos.orders, loc)
	expenseSvc := expenseService.NewExpenseService(repos.expenses, repos.categories, notifSvc)
	budgetSvc := budgetService.NewBudgetService(repos.budgets, expenseSvc, notifSvc)
	payrollSvc := payrollService.NewPayrollService(repos.salaryConfigs, repos.salaryRecords, paymentSvc, expenseSvc, notifSvc, m, payrollService.Config{
		StandardWorkDays: cfg.Payroll.StandardWorkDays,
		Currency:         cfg.App.Currency,
	})
	reportSvc := reportService.NewReportService(paymentSvc, expenseSvc, payrollSvc, reportCache, m, reportService.Config{
		CacheTTL: cfg.Redis.ReportTTL,
		Location: loc,
	})

	scheduler := cron.NewScheduler(loc, m)
	if err := cron.NewPayrollJobs(payrollSvc, notifSvc, cfg.Payroll.GenerateSchedule, cfg.Payroll.CommissionSchedule).RegisterJobs(scheduler); err != nil {
		return fmt.Errorf("failed to register payroll jobs: %w", err)
	}
	if err := cron.NewFinanceJobs(paymentSvc, budgetSvc, expenseSvc, notifSvc).RegisterJobs(scheduler); err != nil {
		return fmt.Errorf("failed to register finance jobs: %w", err)
	}
	if cfg.Payroll.CronEnabled {
		scheduler.Start()
		defer scheduler.Stop()
	}

	router := appHTTP.NewRouter(cfg, logger, JWTService, appHTTP.Handlers{
		SalaryConfig: appHTTP.NewSalaryConfigHandler(salaryConfigSvc),
		SalaryRecord: appHTTP.NewSalaryRecordHandler(salaryRecordSvc),
		Payroll:      appHTTP.NewPayrollHandler(payrollSvc),
		Expense:      appHTTP.NewExpenseHandler(expenseSvc),
		Budget:       appHTTP.NewBudgetHandler(budgetSvc),
		Payment:      appHTTP.NewPaymentHandler(paymentSvc),
		Report:       appHTTP.NewReportHandler(reportSvc),
		Notification: appHTTP.NewNotificationHandler(notifSvc, JWTService),
		Job:          appHTTP.NewJobHandler(scheduler),
		Metrics:      promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("http server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func memoryRepositories() repositories {
	return repositories{
		salaryConfigs: memory.NewSalaryConfigRepository(),
		salaryRecords: memory.NewSalaryRecordRepository(),
		expenses:      memory.NewExpenseRepository(),
		categories:    memory.NewCategoryRepository(),
		budgets:       memory.NewBudgetRepository(),
		orders:        memory.NewOrderRepository(),
		notifications: memory.NewNotificationRepository(),
		tx:            database.NoopTransactor{},
	}
}

func postgresRepositories(db *database.DB) repositories {
	return repositories{
		salaryConfigs: postgresql.NewSalaryConfigRepository(db),
		salaryRecords: postgresql.NewSalaryRecordRepository(db),
		expenses:      postgresql.NewExpenseRepository(db),
		categories:    postgresql.NewCategoryRepository(db),
		budgets:       postgresql.NewBudgetRepository(db),
		orders:        postgresql.NewOrderRepository(db),
		notifications: postgresql.NewNotificationRepository(db),
		tx:            postgresql.NewTransactor(db),
	}
}
