package budget

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Performance enum
type Performance string

const (
	PerformanceOverBudget    Performance = "over_budget"
	PerformanceUnderUtilized Performance = "under_utilized"
	PerformanceOnTrack       Performance = "on_track"
)

// Severity enum
type Severity string

const (
	SeverityAlert   Severity = "alert"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
)

var (
	overBudgetThreshold    = decimal.NewFromInt(100)
	underUtilizedThreshold = decimal.NewFromInt(70)
)

type CategoryPerformance struct {
	CategoryName string          `json:"category_name"`
	Type         string          `json:"type"`
	Planned      decimal.Decimal `json:"planned"`
	Actual       decimal.Decimal `json:"actual"`
	Variance     decimal.Decimal `json:"variance"`
	Utilization  decimal.Decimal `json:"utilization"`
	Status       Performance     `json:"status"`
}

type Recommendation struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

type Analysis struct {
	BudgetID        string                `json:"budget_id"`
	Period          string                `json:"period"`
	Utilization     decimal.Decimal       `json:"utilization"`
	Status          Performance           `json:"status"`
	Categories      []CategoryPerformance `json:"categories"`
	Issues          []string              `json:"issues"`
	Recommendations []Recommendation      `json:"recommendations"`
}

func classify(utilization decimal.Decimal) Performance {
	switch {
	case utilization.GreaterThan(overBudgetThreshold):
		return PerformanceOverBudget
	case utilization.LessThan(underUtilizedThreshold):
		return PerformanceUnderUtilized
	default:
		return PerformanceOnTrack
	}
}

// Analyze classifies each category and the whole budget by utilization.
func Analyze(b Budget) Analysis {
	a := Analysis{
		BudgetID:        b.ID,
		Period:          b.PeriodLabel(),
		Utilization:     b.Utilization(),
		Status:          classify(b.Utilization()),
		Categories:      make([]CategoryPerformance, 0, len(b.CategoryBudgets)),
		Issues:          []string{},
		Recommendations: []Recommendation{},
	}

	over := 0
	for _, cb := range b.CategoryBudgets {
		util := cb.Utilization()
		status := classify(util)
		a.Categories = append(a.Categories, CategoryPerformance{
			CategoryName: cb.CategoryName,
			Type:         string(cb.Type),
			Planned:      cb.PlannedAmount,
			Actual:       cb.ActualAmount,
			Variance:     cb.ActualAmount.Sub(cb.PlannedAmount),
			Utilization:  util,
			Status:       status,
		})

		switch status {
		case PerformanceOverBudget:
			over++
			a.Issues = append(a.Issues, fmt.Sprintf("%s is over budget at %s%% utilization", cb.CategoryName, util.StringFixed(1)))
			a.Recommendations = append(a.Recommendations, Recommendation{
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("Review %s spending or raise its planned amount", cb.CategoryName),
			})
		case PerformanceUnderUtilized:
			if cb.PlannedAmount.IsPositive() {
				a.Recommendations = append(a.Recommendations, Recommendation{
					Severity: SeverityInfo,
					Message:  fmt.Sprintf("%s used only %s%% of its budget; consider reallocating", cb.CategoryName, util.StringFixed(1)),
				})
			}
		}
	}

	switch {
	case a.Status == PerformanceOverBudget:
		a.Recommendations = append(a.Recommendations, Recommendation{
			Severity: SeverityAlert,
			Message:  fmt.Sprintf("Total spend exceeds plan by %s", b.TotalVariance.StringFixed(2)),
		})
	case over == 0 && a.Status == PerformanceOnTrack:
		a.Recommendations = append(a.Recommendations, Recommendation{
			Severity: SeveritySuccess,
			Message:  "Budget is on track",
		})
	}
	return a
}

// Comparison contrasts two budgets' totals.
type Comparison struct {
	First            Budget          `json:"first"`
	Second           Budget          `json:"second"`
	PlannedChange    decimal.Decimal `json:"planned_change"`
	ActualChange     decimal.Decimal `json:"actual_change"`
	PlannedChangePct decimal.Decimal `json:"planned_change_percent"`
	ActualChangePct  decimal.Decimal `json:"actual_change_percent"`
}

func Compare(first, second Budget) Comparison {
	c := Comparison{
		First:         first,
		Second:        second,
		PlannedChange: second.TotalPlannedAmount.Sub(first.TotalPlannedAmount),
		ActualChange:  second.TotalActualAmount.Sub(first.TotalActualAmount),
	}
	c.PlannedChangePct = percentOf(c.PlannedChange, first.TotalPlannedAmount)
	c.ActualChangePct = percentOf(c.ActualChange, first.TotalActualAmount)
	return c
}

// Forecast is a projected spend per expense type.
type Forecast struct {
	Year          int                        `json:"year"`
	Month         int                        `json:"month"`
	BasedOn       []string                   `json:"based_on"`
	ByType        map[string]decimal.Decimal `json:"by_type"`
	TotalForecast decimal.Decimal            `json:"total_forecast"`
}

// Trend is one budget's position in a yearly trend.
type Trend struct {
	BudgetID    string          `json:"budget_id"`
	Period      string          `json:"period"`
	Planned     decimal.Decimal `json:"planned"`
	Actual      decimal.Decimal `json:"actual"`
	Utilization decimal.Decimal `json:"utilization"`
}
