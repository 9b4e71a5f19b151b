package expense

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Summarize rolls expenses up by type and category. Only expenses that are paid or
// approved count toward TotalExpenses and the buckets; deleted ones are ignored.
func Summarize(label string, periods []string, expenses []Expense) Summary {
	s := Summary{
		Label:         label,
		Periods:       periods,
		TotalExpenses: decimal.Zero,
		ByType:        []Bucket{},
		ByCategory:    []Bucket{},
	}

	byType := map[string]*Bucket{}
	byCategory := map[string]*Bucket{}
	for i := range expenses {
		e := &expenses[i]
		if e.IsDeleted() {
			continue
		}
		if e.Status == StatusPending && e.NeedsApproval() {
			s.PendingCount++
		}
		if !e.CountsTowardSpend() {
			continue
		}
		s.ExpenseCount++
		s.TotalExpenses = s.TotalExpenses.Add(e.Amount)
		addTo(byType, string(e.Type), e.Amount)
		addTo(byCategory, string(e.Category), e.Amount)
	}

	s.ByType = sortedBuckets(byType)
	s.ByCategory = sortedBuckets(byCategory)
	return s
}

// TypeBucket returns the summary bucket of one expense type, empty when the type has no spend.
func (s Summary) TypeBucket(t ExpenseType) Bucket {
	for _, b := range s.ByType {
		if b.Key == string(t) {
			return b
		}
	}
	return Bucket{Key: string(t)}
}

// PaidByType sums paid, non-deleted expenses per type.
func PaidByType(expenses []Expense) map[ExpenseType]Bucket {
	out := map[ExpenseType]Bucket{}
	for i := range expenses {
		e := &expenses[i]
		if e.IsDeleted() || !e.IsPaid() {
			continue
		}
		b := out[e.Type]
		b.Key = string(e.Type)
		b.Total = b.Total.Add(e.Amount)
		b.Count++
		out[e.Type] = b
	}
	return out
}

// ComputeStatistics derives paid/pending/overdue figures for a set of expenses.
// Average, Largest and Smallest describe paid expenses only.
func ComputeStatistics(periods []string, expenses []Expense, now time.Time) Statistics {
	st := Statistics{Periods: periods}
	for i := range expenses {
		e := &expenses[i]
		if e.IsDeleted() {
			continue
		}
		st.TotalCount++
		switch e.Status {
		case StatusPaid:
			if st.PaidCount == 0 || e.Amount.GreaterThan(st.Largest) {
				st.Largest = e.Amount
			}
			if st.PaidCount == 0 || e.Amount.LessThan(st.Smallest) {
				st.Smallest = e.Amount
			}
			st.PaidCount++
			st.TotalPaid = st.TotalPaid.Add(e.Amount)
		case StatusPending:
			st.PendingCount++
			st.TotalPending = st.TotalPending.Add(e.Amount)
		}
		if e.IsOverdue(now) && e.Status == StatusPending {
			st.OverdueCount++
			st.TotalOverdue = st.TotalOverdue.Add(e.Amount)
		}
	}
	if st.PaidCount > 0 {
		st.Average = st.TotalPaid.Div(decimal.NewFromInt(int64(st.PaidCount))).Round(2)
	}
	return st
}

func addTo(m map[string]*Bucket, key string, amount decimal.Decimal) {
	b, ok := m[key]
	if !ok {
		b = &Bucket{Key: key}
		m[key] = b
	}
	b.Total = b.Total.Add(amount)
	b.Count++
}

func sortedBuckets(m map[string]*Bucket) []Bucket {
	out := make([]Bucket, 0, len(m))
	for _, b := range m {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Key < out[j].Key
	})
	return out
}
