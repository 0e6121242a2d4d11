/*
aggregate.go - Per-month bucket sums over a transaction list

PURPOSE:
  Sums categorized transaction amounts per calendar month over a window.
  Two modes:

    Cumulative:  for each month-end in the window, sum every provided
                 transaction dated on or before that month-end. Over a
                 fiscal-year fetch this yields year-to-date running
                 totals; over an unbounded fetch, life-to-date.
    Incremental: for each month, sum only the transactions whose date
                 falls inside that month.

GUARANTEES:
  - Exactly one record per month in the window, inclusive, ascending.
  - Months with no matching transactions are zero-filled, never skipped.
  - Bucket signs are preserved as-is from the ledger. Fees are NOT
    pre-negated here; the composer subtracts them.
  - Unclassified adjustments land in no bucket (see categorize.go).

SEE ALSO:
  - series.go: Turns incremental sums into carry-forward balances
  - compose.go: Turns cumulative sums into report rows
*/
package reports

import "github.com/shopspring/decimal"

// =============================================================================
// AGGREGATION MODE
// =============================================================================

type AggregationMode int

const (
	Cumulative AggregationMode = iota
	Incremental
)

// =============================================================================
// MONTHLY AGGREGATOR
// =============================================================================

// Aggregate sums categorized amounts per month across the window. The
// window is honored exactly as given; callers cap it at the current month
// where that matters (see series.go).
func Aggregate(txs []LedgerTransaction, window MonthRange, mode AggregationMode) []CategorizedMonth {
	months := window.Months()
	out := make([]CategorizedMonth, 0, len(months))

	for _, ym := range months {
		sums := ZeroCategorized()
		for _, tx := range txs {
			if !inScope(tx, ym, mode) {
				continue
			}
			sums = accumulate(sums, tx)
		}
		out = append(out, CategorizedMonth{Month: ym, Amounts: sums})
	}
	return out
}

// AggregatePlain sums raw transaction amounts per month with no
// categorization. Used for debtors deltas and collections, where the
// ledger rows are already a single semantic stream.
func AggregatePlain(txs []LedgerTransaction, window MonthRange, mode AggregationMode) []MonthlyAmount {
	months := window.Months()
	out := make([]MonthlyAmount, 0, len(months))

	for _, ym := range months {
		sum := decimal.Zero
		for _, tx := range txs {
			if !inScope(tx, ym, mode) {
				continue
			}
			sum = sum.Add(tx.Amount)
		}
		out = append(out, MonthlyAmount{Month: ym, Amount: sum})
	}
	return out
}

func inScope(tx LedgerTransaction, ym YearMonth, mode AggregationMode) bool {
	txMonth := YearMonthOf(tx.TransactionDate)
	if mode == Incremental {
		return txMonth.Equal(ym)
	}
	return txMonth.BeforeOrEqual(ym)
}

func accumulate(sums CategorizedAmounts, tx LedgerTransaction) CategorizedAmounts {
	bucket := Categorize(tx.TypeCode, tx.SubTypeDescriptor)
	switch bucket.Kind {
	case BucketTime:
		sums.Time = sums.Time.Add(tx.Amount)
		sums.Cost = sums.Cost.Add(tx.Cost)
	case BucketDisbursement:
		sums.Disbursements = sums.Disbursements.Add(tx.Amount)
		sums.Cost = sums.Cost.Add(tx.Cost)
	case BucketFee:
		sums.Fees = sums.Fees.Add(tx.Amount)
	case BucketProvision:
		sums.Provision = sums.Provision.Add(tx.Amount)
	case BucketAdjustment:
		switch bucket.Adjustment {
		case AdjustTime:
			sums.TimeAdjustments = sums.TimeAdjustments.Add(tx.Amount)
		case AdjustDisbursement:
			sums.DisbursementAdjustments = sums.DisbursementAdjustments.Add(tx.Amount)
		default:
			// Unclassified adjustments are excluded from every bucket.
			// Documented current behavior; see categorize.go.
		}
	}
	return sums
}

// NetWIPDelta is the signed per-month WIP movement derived from bucket
// sums: everything that builds WIP minus the fees that relieve it, plus
// provision.
func NetWIPDelta(a CategorizedAmounts) decimal.Decimal {
	return a.Time.
		Add(a.TimeAdjustments).
		Add(a.Disbursements).
		Add(a.DisbursementAdjustments).
		Sub(a.Fees).
		Add(a.Provision)
}
