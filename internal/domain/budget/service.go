package budget

import (
	"context"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/export"
)

type BudgetService interface {
	CreateFromCategories(ctx context.Context, req CreateFromCategoriesRequest) (Budget, error)
	Get(ctx context.Context, id string) (Budget, error)
	List(ctx context.Context, filter BudgetFilter) ([]Budget, error)
	UpdatePlanned(ctx context.Context, req UpdatePlannedRequest) (Budget, error)
	// UpdateActuals overwrites actual amounts from the period's paid expenses.
	UpdateActuals(ctx context.Context, id string) (Budget, error)
	// RefreshActive runs UpdateActuals for every active budget and returns how many were refreshed.
	RefreshActive(ctx context.Context) (int, error)
	AnalyzePerformance(ctx context.Context, id string) (Analysis, error)
	Activate(ctx context.Context, id string) (Budget, error)
	Complete(ctx context.Context, id string) (Budget, error)
	Cancel(ctx context.Context, id string) (Budget, error)
	Compare(ctx context.Context, firstID, secondID string) (Comparison, error)
	Forecast(ctx context.Context, year, month int) (Forecast, error)
	GetTrends(ctx context.Context, year int) ([]Trend, error)
	Export(ctx context.Context, id string, format export.Format) (export.File, error)
}
