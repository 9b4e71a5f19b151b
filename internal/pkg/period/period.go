// Package period converts calendar months, quarters and years into "YYYY-MM" accounting keys.
package period

import (
	"fmt"
	"time"
)

// Month identifies one calendar month.
type Month struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

func (m Month) Key() string {
	return fmt.Sprintf("%04d-%02d", m.Year, m.Month)
}

// Start returns the first instant of the month in loc.
func (m Month) Start(loc *time.Location) time.Time {
	return time.Date(m.Year, time.Month(m.Month), 1, 0, 0, 0, 0, loc)
}

// End returns the first instant of the following month in loc.
func (m Month) End(loc *time.Location) time.Time {
	return m.Start(loc).AddDate(0, 1, 0)
}

// Contains reports whether t falls inside the month.
func (m Month) Contains(t time.Time) bool {
	return t.Year() == m.Year && int(t.Month()) == m.Month
}

// Add shifts the month by n months.
func (m Month) Add(n int) Month {
	t := time.Date(m.Year, time.Month(m.Month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	return Month{Year: t.Year(), Month: int(t.Month())}
}

func Of(t time.Time) Month {
	return Month{Year: t.Year(), Month: int(t.Month())}
}

func Key(year, month int) string {
	return Month{Year: year, Month: month}.Key()
}

// QuarterMonths lists the three months of quarter q.
func QuarterMonths(year, quarter int) []Month {
	first := (quarter-1)*3 + 1
	return []Month{{year, first}, {year, first + 1}, {year, first + 2}}
}

// YearMonths lists January through December of year.
func YearMonths(year int) []Month {
	months := make([]Month, 0, 12)
	for m := 1; m <= 12; m++ {
		months = append(months, Month{Year: year, Month: m})
	}
	return months
}

// Trailing returns the n months ending at (and including) last, oldest first.
func Trailing(last Month, n int) []Month {
	months := make([]Month, 0, n)
	for i := n - 1; i >= 0; i-- {
		months = append(months, last.Add(-i))
	}
	return months
}

// Keys converts months to accounting keys.
func Keys(months []Month) []string {
	keys := make([]string, len(months))
	for i, m := range months {
		keys[i] = m.Key()
	}
	return keys
}

// QuarterOf returns the quarter (1..4) containing month.
func QuarterOf(month int) int {
	return (month-1)/3 + 1
}
