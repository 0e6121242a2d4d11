/*
trailing.go - Trailing-12-month sums

PURPOSE:
  Computes the rolling 12-month sums used as lockup-ratio denominators:
  trailing net revenue for WIP lockup, trailing net billings for debtors
  lockup.

THE PAD REQUIREMENT:
  trailing12(M) sums the incremental series over [M-11, M]. For the first
  visible month to have a complete window, the incremental series must be
  fetched starting 12 months before the visible window's start. Callers
  pass the padded series here; only visible months come back out.
*/
package reports

import "github.com/shopspring/decimal"

// TrailingSums computes trailing-12-month sums for every month of the
// visible window. incremental must cover at least [visible.From-11,
// visible.To] in ascending order; months missing from the series count
// as zero.
func TrailingSums(incremental []MonthlyAmount, visible MonthRange) []MonthlyAmount {
	byMonth := make(map[YearMonth]decimal.Decimal, len(incremental))
	for _, m := range incremental {
		byMonth[m.Month] = m.Amount
	}

	months := visible.Months()
	out := make([]MonthlyAmount, 0, len(months))
	for _, ym := range months {
		sum := decimal.Zero
		for back := 0; back < 12; back++ {
			if v, ok := byMonth[ym.AddMonths(-back)]; ok {
				sum = sum.Add(v)
			}
		}
		out = append(out, MonthlyAmount{Month: ym, Amount: sum})
	}
	return out
}

// NetRevenueDeltas maps categorized per-month sums to incremental net
// revenue (time + time adjustments + provision), the trailing base for
// WIP lockup days.
func NetRevenueDeltas(months []CategorizedMonth) []MonthlyAmount {
	out := make([]MonthlyAmount, len(months))
	for i, m := range months {
		out[i] = MonthlyAmount{
			Month:  m.Month,
			Amount: m.Amounts.Time.Add(m.Amounts.TimeAdjustments).Add(m.Amounts.Provision),
		}
	}
	return out
}
