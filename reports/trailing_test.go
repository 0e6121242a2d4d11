package reports_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arden/practice-engine/reports"
)

func TestTrailingSums_TwelveMonthWindow(t *testing.T) {
	// GIVEN: A flat incremental series of 100/month for 24 months
	var incremental []reports.MonthlyAmount
	ym := reports.NewYearMonth(2024, time.September)
	for i := 0; i < 24; i++ {
		incremental = append(incremental, reports.MonthlyAmount{
			Month:  ym.AddMonths(i),
			Amount: decimal.NewFromInt(100),
		})
	}
	visible := reports.MonthRange{
		From: reports.NewYearMonth(2025, time.September),
		To:   reports.NewYearMonth(2026, time.August),
	}

	// WHEN
	sums := reports.TrailingSums(incremental, visible)

	// THEN: Every visible month has a full 12-month lookback
	require.Len(t, sums, 12)
	for _, s := range sums {
		assert.True(t, s.Amount.Equal(decimal.NewFromInt(1200)), "month %s", s.Month)
	}
}

func TestTrailingSums_SlidesAsMonthsDrop(t *testing.T) {
	// GIVEN: A single spike, then nothing
	incremental := []reports.MonthlyAmount{
		{Month: reports.NewYearMonth(2025, time.March), Amount: decimal.NewFromInt(500)},
	}
	visible := reports.MonthRange{
		From: reports.NewYearMonth(2026, time.January),
		To:   reports.NewYearMonth(2026, time.March),
	}

	sums := reports.TrailingSums(incremental, visible)

	// THEN: The spike is inside the window through Feb 2026
	// (Mar 2025 is 11 back from Feb 2026), then slides out
	require.Len(t, sums, 3)
	assert.True(t, sums[0].Amount.Equal(decimal.NewFromInt(500)), "Jan 2026 still covers Mar 2025")
	assert.True(t, sums[1].Amount.Equal(decimal.NewFromInt(500)), "Feb 2026 still covers Mar 2025")
	assert.True(t, sums[2].Amount.IsZero(), "Mar 2026 window starts Apr 2025")
}

func TestTrailingSums_MissingMonthsCountAsZero(t *testing.T) {
	visible := reports.MonthRange{
		From: reports.NewYearMonth(2026, time.January),
		To:   reports.NewYearMonth(2026, time.January),
	}

	sums := reports.TrailingSums(nil, visible)

	require.Len(t, sums, 1)
	assert.True(t, sums[0].Amount.IsZero())
}

func TestNetRevenueDeltas_Formula(t *testing.T) {
	months := []reports.CategorizedMonth{
		{
			Month: reports.NewYearMonth(2026, time.January),
			Amounts: reports.CategorizedAmounts{
				Time:            decimal.NewFromInt(1000),
				TimeAdjustments: decimal.NewFromInt(-50),
				Provision:       decimal.NewFromInt(-100),
				Disbursements:   decimal.NewFromInt(999), // not revenue
				Fees:            decimal.NewFromInt(999), // not revenue
			},
		},
	}

	deltas := reports.NetRevenueDeltas(months)

	require.Len(t, deltas, 1)
	assert.True(t, deltas[0].Amount.Equal(decimal.NewFromInt(850)))
}
