package payment

import (
	"sort"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/period"
	"github.com/shopspring/decimal"
)

// SummarizeRevenue totals paid orders whose revenue time falls in the month.
func SummarizeRevenue(m period.Month, orders []PaymentOrder) RevenueSummary {
	s := RevenueSummary{
		Year:         m.Year,
		Month:        m.Month,
		TotalRevenue: decimal.Zero,
		ByPackage:    []PackageRevenue{},
		ByPT:         []TrainerRevenue{},
	}

	pkgs := map[string]*PackageRevenue{}
	pts := map[string]*TrainerRevenue{}
	for i := range orders {
		o := &orders[i]
		if o.Status != StatusPaid || !m.Contains(o.RevenueTime()) {
			continue
		}
		s.OrderCount++
		s.TotalRevenue = s.TotalRevenue.Add(o.Amount)

		p, ok := pkgs[o.PackageID]
		if !ok {
			p = &PackageRevenue{PackageID: o.PackageID, PackageName: o.PackageName}
			pkgs[o.PackageID] = p
		}
		p.Count++
		p.Total = p.Total.Add(o.Amount)

		if o.PTTrainerID != nil && *o.PTTrainerID != "" {
			t, ok := pts[*o.PTTrainerID]
			if !ok {
				t = &TrainerRevenue{PTID: *o.PTTrainerID}
				if o.PTTrainerName != nil {
					t.PTName = *o.PTTrainerName
				}
				pts[*o.PTTrainerID] = t
			}
			t.Count++
			t.Total = t.Total.Add(o.Amount)
		}
	}

	for _, p := range pkgs {
		s.ByPackage = append(s.ByPackage, *p)
	}
	sort.Slice(s.ByPackage, func(i, j int) bool {
		if c := s.ByPackage[i].Total.Cmp(s.ByPackage[j].Total); c != 0 {
			return c > 0
		}
		return s.ByPackage[i].PackageName < s.ByPackage[j].PackageName
	})

	for _, t := range pts {
		s.ByPT = append(s.ByPT, *t)
	}
	sort.Slice(s.ByPT, func(i, j int) bool {
		if c := s.ByPT[i].Total.Cmp(s.ByPT[j].Total); c != 0 {
			return c > 0
		}
		return s.ByPT[i].PTID < s.ByPT[j].PTID
	})
	return s
}

// TrainerSales sums paid orders credited to trainerID within the month.
func TrainerSales(m period.Month, trainerID string, orders []PaymentOrder) decimal.Decimal {
	total := decimal.Zero
	for i := range orders {
		o := &orders[i]
		if o.Status != StatusPaid || o.PTTrainerID == nil || *o.PTTrainerID != trainerID {
			continue
		}
		if m.Contains(o.RevenueTime()) {
			total = total.Add(o.Amount)
		}
	}
	return total
}
