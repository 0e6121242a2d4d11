/*
series.go - Carry-forward running-balance series

PURPOSE:
  Produces the contiguous, gap-free monthly balance series behind WIP and
  Debtors balances. A balance only changes in months with activity; quiet
  months repeat the last known balance.

ALGORITHM:
  1. Take per-month signed deltas (categorized net-WIP sums, or plain
     sums for debtors), computed in Incremental mode.
  2. Prefix-sum the deltas ascending over the months that have activity.
  3. Walk the full requested grid: months with a running total get it;
     months without carry the nearest prior total forward; months before
     the first activity are zero.

EDGE CASES:
  - The grid's upper bound is capped at the current calendar month. A
    balance is a statement of fact, never a projection.
  - If the requested end predates the first transaction, every balance
    is zero.
*/
package reports

import "github.com/shopspring/decimal"

// BuildBalanceSeries turns incremental per-month deltas into a running
// balance for every month of the grid, carrying the last known balance
// through quiet months. now caps the grid at the current calendar month.
//
// deltas may start before grid.From (history feeds the opening balance)
// and must be in ascending month order, one entry per month at most.
func BuildBalanceSeries(deltas []MonthlyAmount, grid MonthRange, now YearMonth) []MonthlyBalance {
	grid = grid.CapAt(now)

	months := grid.Months()
	if len(months) == 0 {
		return nil
	}

	out := make([]MonthlyBalance, 0, len(months))
	running := decimal.Zero
	i := 0

	// Fold every delta dated before the grid into the opening balance.
	for i < len(deltas) && deltas[i].Month.Before(grid.From) {
		running = running.Add(deltas[i].Amount)
		i++
	}

	for _, ym := range months {
		for i < len(deltas) && deltas[i].Month.Equal(ym) {
			running = running.Add(deltas[i].Amount)
			i++
		}
		out = append(out, MonthlyBalance{Month: ym, Balance: running})
	}
	return out
}

// WIPDeltas maps categorized per-month sums to signed WIP movements,
// ready for BuildBalanceSeries.
func WIPDeltas(months []CategorizedMonth) []MonthlyAmount {
	out := make([]MonthlyAmount, len(months))
	for i, m := range months {
		out[i] = MonthlyAmount{Month: m.Month, Amount: NetWIPDelta(m.Amounts)}
	}
	return out
}
