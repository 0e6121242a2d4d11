/*
compose.go - Final per-month metric rows

PURPOSE:
  Combines categorized cumulative sums, carry-forward balances, trailing
  sums, and collections into the MonthlyMetrics rows the overview report
  returns.

FORMULAS (per month):
  netRevenue        = time + timeAdjustments + provision
  grossProfit       = netRevenue - cost
  netAdjustments    = timeAdjustments + provision
  writeoffAmount    = abs(netAdjustments) when negative, else 0
  writeoffPct       = time != 0 ? writeoffAmount / time * 100 : 0
  wipLockupDays     = t12Revenue != 0 ? wipBalance * 365 / t12Revenue : 0
  debtorsLockupDays = t12Billings != 0 ? debtorsBalance * 365 / t12Billings : 0

ZERO-DENOMINATOR CONTRACT:
  Every ratio guards its denominator and returns exactly zero. NaN and
  Infinity never leave this file. Division by zero is not an error here.
*/
package reports

import "github.com/shopspring/decimal"

var (
	daysPerYear = decimal.NewFromInt(365)
	hundred     = decimal.NewFromInt(100)
)

// ComposeInput carries the per-year series the composer stitches
// together. All slices are aligned to the same visible window: one entry
// per month, ascending. Balance series may be shorter when the window
// extends past the current month; missing tail months read as zero.
type ComposeInput struct {
	Cumulative         []CategorizedMonth
	Collections        []MonthlyAmount
	WIPBalances        []MonthlyBalance
	DebtorBalances     []MonthlyBalance
	Trailing12Revenue  []MonthlyAmount
	Trailing12Billings []MonthlyAmount
}

// Compose builds one MonthlyMetrics row per month of the cumulative
// series.
func Compose(in ComposeInput) []MonthlyMetrics {
	wip := balancesByMonth(in.WIPBalances)
	debtors := balancesByMonth(in.DebtorBalances)
	collections := amountsByMonth(in.Collections)
	t12Revenue := amountsByMonth(in.Trailing12Revenue)
	t12Billings := amountsByMonth(in.Trailing12Billings)

	out := make([]MonthlyMetrics, 0, len(in.Cumulative))
	for _, cm := range in.Cumulative {
		a := cm.Amounts

		netRevenue := a.Time.Add(a.TimeAdjustments).Add(a.Provision)
		netAdjustments := a.TimeAdjustments.Add(a.Provision)

		writeoffAmount := decimal.Zero
		if netAdjustments.IsNegative() {
			writeoffAmount = netAdjustments.Abs()
		}

		wipBalance := wip[cm.Month]
		debtorsBalance := debtors[cm.Month]
		trailingRevenue := t12Revenue[cm.Month]
		trailingBillings := t12Billings[cm.Month]

		out = append(out, MonthlyMetrics{
			Month:              cm.Month,
			NetRevenue:         netRevenue,
			GrossProfit:        netRevenue.Sub(a.Cost),
			Collections:        collections[cm.Month],
			WIPLockupDays:      lockupDays(wipBalance, trailingRevenue),
			DebtorsLockupDays:  lockupDays(debtorsBalance, trailingBillings),
			WriteoffPercentage: ratioPct(writeoffAmount, a.Time),
			GrossTime:          a.Time,
			Provisions:         a.Provision,
			WIPBalance:         wipBalance,
			DebtorsBalance:     debtorsBalance,
			Trailing12Revenue:  trailingRevenue,
			Trailing12Billings: trailingBillings,
		})
	}
	return out
}

// GrossWIP and NetWIP are the month's WIP composition; exposed for the
// task WIP views.
func GrossWIP(a CategorizedAmounts) decimal.Decimal {
	return a.Time.
		Add(a.TimeAdjustments).
		Add(a.Disbursements).
		Add(a.DisbursementAdjustments).
		Sub(a.Fees)
}

func NetWIP(a CategorizedAmounts) decimal.Decimal {
	return GrossWIP(a).Add(a.Provision)
}

// lockupDays normalizes a balance by a trailing-12 base: days' worth of
// the base represented by the balance. Zero base means zero days.
func lockupDays(balance, trailingBase decimal.Decimal) decimal.Decimal {
	if trailingBase.IsZero() {
		return decimal.Zero
	}
	return balance.Mul(daysPerYear).Div(trailingBase)
}

func ratioPct(numerator, denominator decimal.Decimal) decimal.Decimal {
	if denominator.IsZero() {
		return decimal.Zero
	}
	return numerator.Div(denominator).Mul(hundred)
}

func balancesByMonth(balances []MonthlyBalance) map[YearMonth]decimal.Decimal {
	out := make(map[YearMonth]decimal.Decimal, len(balances))
	for _, b := range balances {
		out[b.Month] = b.Balance
	}
	return out
}

func amountsByMonth(amounts []MonthlyAmount) map[YearMonth]decimal.Decimal {
	out := make(map[YearMonth]decimal.Decimal, len(amounts))
	for _, a := range amounts {
		out[a.Month] = a.Amount
	}
	return out
}
