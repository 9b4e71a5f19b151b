package salaryconfig

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CommissionType enum
type CommissionType string

const (
	CommissionPercentage  CommissionType = "percentage"
	CommissionFixedAmount CommissionType = "fixed_amount"
	CommissionTiered      CommissionType = "tiered"
)

func (t CommissionType) IsValid() bool {
	return t == CommissionPercentage || t == CommissionFixedAmount || t == CommissionTiered
}

// CommissionTier charges Rate percent on the slice of sales from MinAmount up to the next tier.
type CommissionTier struct {
	MinAmount decimal.Decimal `json:"min_amount"`
	Rate      decimal.Decimal `json:"rate"`
}

// CommissionRule describes how sales turn into commission.
type CommissionRule struct {
	Enabled bool             `json:"has_commission"`
	Type    CommissionType   `json:"commission_type,omitempty"`
	Rate    decimal.Decimal  `json:"commission_rate"`
	Tiers   []CommissionTier `json:"commission_tiers,omitempty"`
}

var hundred = decimal.NewFromInt(100)

// CalculateCommission returns the commission earned on sales under rule.
// It never returns a negative amount, and sales <= 0 always yields zero.
func CalculateCommission(rule CommissionRule, sales decimal.Decimal) decimal.Decimal {
	if !sales.IsPositive() {
		return decimal.Zero
	}

	var commission decimal.Decimal
	switch rule.Type {
	case CommissionPercentage:
		commission = sales.Mul(rule.Rate).Div(hundred)
	case CommissionFixedAmount:
		commission = rule.Rate
	case CommissionTiered:
		commission = tieredCommission(rule.Tiers, sales)
	default:
		return decimal.Zero
	}

	if commission.IsNegative() {
		return decimal.Zero
	}
	return commission
}

// tieredCommission walks tiers ascending; each tier covers [min, nextMin).
// Sales below the first tier's floor earn nothing.
func tieredCommission(tiers []CommissionTier, sales decimal.Decimal) decimal.Decimal {
	if len(tiers) == 0 {
		return decimal.Zero
	}

	sorted := make([]CommissionTier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinAmount.LessThan(sorted[j].MinAmount)
	})

	total := decimal.Zero
	for i, tier := range sorted {
		if sales.LessThanOrEqual(tier.MinAmount) {
			break
		}
		upper := sales
		if i+1 < len(sorted) && sorted[i+1].MinAmount.LessThan(sales) {
			upper = sorted[i+1].MinAmount
		}
		slice := upper.Sub(tier.MinAmount)
		if slice.IsPositive() {
			total = total.Add(slice.Mul(tier.Rate).Div(hundred))
		}
	}
	return total
}

// TiersStrictlyIncreasing reports whether tier floors are strictly ascending in the given order.
func TiersStrictlyIncreasing(tiers []CommissionTier) bool {
	for i := 1; i < len(tiers); i++ {
		if !tiers[i].MinAmount.GreaterThan(tiers[i-1].MinAmount) {
			return false
		}
	}
	return true
}
