/*
envelope.go - Response envelopes and the chart compatibility contract

PURPOSE:
  The JSON field names here (and the numeric field set of a metrics row)
  are a compatibility contract with downstream chart consumers. Do not
  rename or drop fields silently.

  Envelopes are defined in this package rather than the api layer because
  the cache stores the serialized payload: a cache hit must round-trip
  byte-for-byte compatible JSON.
*/
package reports

// MetricsRow is one serialized month of the overview report. Decimals
// are rendered as JSON numbers at this boundary only; all arithmetic
// upstream is exact.
type MetricsRow struct {
	Month              string  `json:"month"`
	NetRevenue         float64 `json:"netRevenue"`
	GrossProfit        float64 `json:"grossProfit"`
	Collections        float64 `json:"collections"`
	WIPLockupDays      float64 `json:"wipLockupDays"`
	DebtorsLockupDays  float64 `json:"debtorsLockupDays"`
	WriteoffPercentage float64 `json:"writeoffPercentage"`
	GrossTime          float64 `json:"grossTime"`
	Provisions         float64 `json:"provisions"`
	WIPBalance         float64 `json:"wipBalance"`
	DebtorsBalance     float64 `json:"debtorsBalance"`
	Trailing12Revenue  float64 `json:"trailing12Revenue"`
	Trailing12Billings float64 `json:"trailing12Billings"`
}

// DateRange echoes a custom range back to the caller.
type DateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// OverviewPayload is the response envelope for every overview shape.
// Single fiscal year and custom range populate MonthlyMetrics; the "all"
// shape populates YearlyData keyed by fiscal-year number. FiscalYear
// carries an int for single years and the literal "all" for multi-year.
type OverviewPayload struct {
	MonthlyMetrics []MetricsRow            `json:"monthlyMetrics,omitempty"`
	YearlyData     map[string][]MetricsRow `json:"yearlyData,omitempty"`
	FilterMode     FilterMode              `json:"filterMode"`
	EmployeeCode   string                  `json:"employeeCode"`
	FiscalYear     any                     `json:"fiscalYear,omitempty"`
	DateRange      *DateRange              `json:"dateRange,omitempty"`
	IsCumulative   bool                    `json:"isCumulative"`
}

// BalanceRow is one serialized month of a task WIP-balance series.
type BalanceRow struct {
	Month   string  `json:"month"`
	Balance float64 `json:"balance"`
}

func toMetricsRows(metrics []MonthlyMetrics) []MetricsRow {
	rows := make([]MetricsRow, len(metrics))
	for i, m := range metrics {
		rows[i] = MetricsRow{
			Month:              m.Month.String(),
			NetRevenue:         m.NetRevenue.InexactFloat64(),
			GrossProfit:        m.GrossProfit.InexactFloat64(),
			Collections:        m.Collections.InexactFloat64(),
			WIPLockupDays:      m.WIPLockupDays.InexactFloat64(),
			DebtorsLockupDays:  m.DebtorsLockupDays.InexactFloat64(),
			WriteoffPercentage: m.WriteoffPercentage.InexactFloat64(),
			GrossTime:          m.GrossTime.InexactFloat64(),
			Provisions:         m.Provisions.InexactFloat64(),
			WIPBalance:         m.WIPBalance.InexactFloat64(),
			DebtorsBalance:     m.DebtorsBalance.InexactFloat64(),
			Trailing12Revenue:  m.Trailing12Revenue.InexactFloat64(),
			Trailing12Billings: m.Trailing12Billings.InexactFloat64(),
		}
	}
	return rows
}

// ToBalanceRows serializes a balance series for the task WIP endpoints.
func ToBalanceRows(balances []MonthlyBalance) []BalanceRow {
	rows := make([]BalanceRow, len(balances))
	for i, b := range balances {
		rows[i] = BalanceRow{Month: b.Month.String(), Balance: b.Balance.InexactFloat64()}
	}
	return rows
}
