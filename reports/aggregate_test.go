package reports_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arden/practice-engine/reports"
)

func ledgerTx(id string, date time.Time, typeCode, subType string, amount, cost float64) reports.LedgerTransaction {
	return reports.LedgerTransaction{
		ID:                id,
		Amount:            decimal.NewFromFloat(amount),
		Cost:              decimal.NewFromFloat(cost),
		TypeCode:          typeCode,
		SubTypeDescriptor: subType,
		TransactionDate:   date,
	}
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// =============================================================================
// GRID GUARANTEES
// =============================================================================

func TestAggregate_ZeroFillsQuietMonths(t *testing.T) {
	// GIVEN: Activity in January only, over a three-month window
	window := reports.MonthRange{
		From: reports.NewYearMonth(2026, time.January),
		To:   reports.NewYearMonth(2026, time.March),
	}
	txs := []reports.LedgerTransaction{
		ledgerTx("t1", day(2026, time.January, 15), "TIME", "", 1000, 600),
	}

	// WHEN: Aggregating incrementally
	months := reports.Aggregate(txs, window, reports.Incremental)

	// THEN: Exactly one record per month, quiet months zero-filled
	require.Len(t, months, 3)
	assert.Equal(t, reports.NewYearMonth(2026, time.January), months[0].Month)
	assert.Equal(t, reports.NewYearMonth(2026, time.February), months[1].Month)
	assert.Equal(t, reports.NewYearMonth(2026, time.March), months[2].Month)

	assert.True(t, months[0].Amounts.Time.Equal(decimal.NewFromInt(1000)))
	assert.True(t, months[1].Amounts.Time.IsZero())
	assert.True(t, months[2].Amounts.Time.IsZero())
}

func TestAggregate_CumulativeCarriesRunningTotals(t *testing.T) {
	// GIVEN: Time in January and February
	window := reports.MonthRange{
		From: reports.NewYearMonth(2026, time.January),
		To:   reports.NewYearMonth(2026, time.March),
	}
	txs := []reports.LedgerTransaction{
		ledgerTx("t1", day(2026, time.January, 5), "TIME", "", 1000, 0),
		ledgerTx("t2", day(2026, time.February, 5), "TIME", "", 500, 0),
	}

	months := reports.Aggregate(txs, window, reports.Cumulative)

	// THEN: Each month-end sums everything dated on or before it
	require.Len(t, months, 3)
	assert.True(t, months[0].Amounts.Time.Equal(decimal.NewFromInt(1000)))
	assert.True(t, months[1].Amounts.Time.Equal(decimal.NewFromInt(1500)))
	assert.True(t, months[2].Amounts.Time.Equal(decimal.NewFromInt(1500)), "quiet March carries the total")
}

func TestAggregate_BucketsRoutedBySemanticKind(t *testing.T) {
	window := reports.MonthRange{
		From: reports.NewYearMonth(2026, time.January),
		To:   reports.NewYearMonth(2026, time.January),
	}
	txs := []reports.LedgerTransaction{
		ledgerTx("t1", day(2026, time.January, 1), "TIME", "", 1000, 600),
		ledgerTx("t2", day(2026, time.January, 2), "DISB", "", 200, 150),
		ledgerTx("t3", day(2026, time.January, 3), "FEE", "", 900, 0),
		ledgerTx("t4", day(2026, time.January, 4), "PROV", "", -100, 0),
		ledgerTx("t5", day(2026, time.January, 5), "ADJ", "time write off", -50, 0),
		ledgerTx("t6", day(2026, time.January, 6), "ADJ", "disb correction", -20, 0),
	}

	months := reports.Aggregate(txs, window, reports.Incremental)
	require.Len(t, months, 1)
	a := months[0].Amounts

	assert.True(t, a.Time.Equal(decimal.NewFromInt(1000)))
	assert.True(t, a.Disbursements.Equal(decimal.NewFromInt(200)))
	assert.True(t, a.Fees.Equal(decimal.NewFromInt(900)), "fee signs preserved, not pre-negated")
	assert.True(t, a.Provision.Equal(decimal.NewFromInt(-100)))
	assert.True(t, a.TimeAdjustments.Equal(decimal.NewFromInt(-50)))
	assert.True(t, a.DisbursementAdjustments.Equal(decimal.NewFromInt(-20)))
	assert.True(t, a.Cost.Equal(decimal.NewFromInt(750)), "cost accumulates on time and disbursement rows")
}

// Every classified transaction lands in exactly one bucket: the bucket
// total equals the raw sum as long as no unclassified adjustment is
// present.
func TestAggregate_BucketTotalMatchesRawSum(t *testing.T) {
	window := reports.MonthRange{
		From: reports.NewYearMonth(2026, time.January),
		To:   reports.NewYearMonth(2026, time.January),
	}
	txs := []reports.LedgerTransaction{
		ledgerTx("t1", day(2026, time.January, 1), "TIME", "", 1234.56, 0),
		ledgerTx("t2", day(2026, time.January, 2), "FEE", "", -987.65, 0),
		ledgerTx("t3", day(2026, time.January, 3), "PRV", "", -44.44, 0),
		ledgerTx("t4", day(2026, time.January, 4), "WOFF", "TIME", -10, 0),
	}

	months := reports.Aggregate(txs, window, reports.Incremental)
	require.Len(t, months, 1)

	raw := decimal.Zero
	for _, tx := range txs {
		raw = raw.Add(tx.Amount)
	}
	assert.True(t, months[0].Amounts.BucketTotal().Equal(raw))
}

// The deliberate exception to the property above: unclassified
// adjustments vanish from every bucket. Their amount is absent from the
// bucket total. If this test starts failing, the exclusion contract
// changed - make sure that was intentional.
func TestAggregate_UnclassifiedAdjustmentExcluded(t *testing.T) {
	window := reports.MonthRange{
		From: reports.NewYearMonth(2026, time.January),
		To:   reports.NewYearMonth(2026, time.January),
	}
	txs := []reports.LedgerTransaction{
		ledgerTx("t1", day(2026, time.January, 1), "TIME", "", 1000, 0),
		ledgerTx("t2", day(2026, time.January, 2), "ADJ", "misc correction", -500, 0),
	}

	months := reports.Aggregate(txs, window, reports.Incremental)
	require.Len(t, months, 1)

	a := months[0].Amounts
	assert.True(t, a.TimeAdjustments.IsZero())
	assert.True(t, a.DisbursementAdjustments.IsZero())
	assert.True(t, a.BucketTotal().Equal(decimal.NewFromInt(1000)),
		"the -500 unclassified adjustment is in no bucket")
}

func TestAggregatePlain_SumsRawAmounts(t *testing.T) {
	window := reports.MonthRange{
		From: reports.NewYearMonth(2026, time.January),
		To:   reports.NewYearMonth(2026, time.February),
	}
	txs := []reports.LedgerTransaction{
		ledgerTx("t1", day(2026, time.January, 1), "REC", "", 300, 0),
		ledgerTx("t2", day(2026, time.January, 20), "REC", "", 200, 0),
		ledgerTx("t3", day(2026, time.February, 2), "REC", "", -100, 0),
	}

	incremental := reports.AggregatePlain(txs, window, reports.Incremental)
	require.Len(t, incremental, 2)
	assert.True(t, incremental[0].Amount.Equal(decimal.NewFromInt(500)))
	assert.True(t, incremental[1].Amount.Equal(decimal.NewFromInt(-100)))

	cumulative := reports.AggregatePlain(txs, window, reports.Cumulative)
	assert.True(t, cumulative[1].Amount.Equal(decimal.NewFromInt(400)))
}

func TestNetWIPDelta_Formula(t *testing.T) {
	a := reports.CategorizedAmounts{
		Time:                    decimal.NewFromInt(1000),
		TimeAdjustments:         decimal.NewFromInt(-50),
		Disbursements:           decimal.NewFromInt(200),
		DisbursementAdjustments: decimal.NewFromInt(-20),
		Fees:                    decimal.NewFromInt(900),
		Provision:               decimal.NewFromInt(-100),
	}
	// 1000 - 50 + 200 - 20 - 900 - 100 = 130
	assert.True(t, reports.NetWIPDelta(a).Equal(decimal.NewFromInt(130)))
}
