/*
Package reports provides the financial time-series aggregation engine.

PURPOSE:
  This package contains the types and algorithms behind "My Reports /
  Overview" and the task WIP-balance endpoints. It classifies raw ledger
  transactions into semantic buckets, builds gap-free monthly running
  balances with carry-forward, computes trailing-12-month ratio bases,
  and composes per-month financial metrics across fiscal-year or custom
  date ranges.

KEY CONCEPTS IN THIS FILE (types.go):
  - YearMonth / MonthRange: Calendar-month grid the whole engine works on
  - LedgerTransaction: An immutable, externally produced ledger row
  - CategorizedAmounts: Signed semantic buckets derived per month
  - MonthlyBalance / MonthlyMetrics: Derived, recomputed per request

DESIGN PRINCIPLES:
  1. Read-only: The engine never writes to the ledger. Ever.
  2. Precision: Uses decimal.Decimal to avoid floating-point errors
  3. Purity: Metrics and balances are pure derivations of transactions;
     they are discarded after the response unless captured by the cache
  4. Month grids are always contiguous, ascending, and deduplicated

SEE ALSO:
  - categorize.go: Transaction type-code classification
  - aggregate.go: Per-month bucket sums (cumulative / incremental)
  - series.go: Carry-forward running balances
  - compose.go: Final per-month metric rows
*/
package reports

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MustParseDecimal parses a stored decimal string, treating garbage as
// zero. Ledger feeds are validated upstream; this is the scan-side
// fallback.
func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// =============================================================================
// YEAR-MONTH - Calendar month used as the grid unit for every series
// =============================================================================

type YearMonth struct {
	Year  int
	Month time.Month
}

func NewYearMonth(year int, month time.Month) YearMonth {
	return YearMonth{Year: year, Month: month}
}

// YearMonthOf returns the calendar month containing t.
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

func (ym YearMonth) index() int { return ym.Year*12 + int(ym.Month) - 1 }

func (ym YearMonth) AddMonths(n int) YearMonth {
	i := ym.index() + n
	y, m := i/12, i%12
	if m < 0 {
		y--
		m += 12
	}
	return YearMonth{Year: y, Month: time.Month(m + 1)}
}

func (ym YearMonth) Next() YearMonth              { return ym.AddMonths(1) }
func (ym YearMonth) Before(other YearMonth) bool  { return ym.index() < other.index() }
func (ym YearMonth) After(other YearMonth) bool   { return ym.index() > other.index() }
func (ym YearMonth) Equal(other YearMonth) bool   { return ym.index() == other.index() }
func (ym YearMonth) BeforeOrEqual(o YearMonth) bool { return !ym.After(o) }
func (ym YearMonth) AfterOrEqual(o YearMonth) bool  { return !ym.Before(o) }

// Start returns midnight UTC on the first day of the month.
func (ym YearMonth) Start() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns midnight UTC on the last day of the month.
func (ym YearMonth) End() time.Time {
	return time.Date(ym.Year, ym.Month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
}

func (ym YearMonth) String() string { return ym.Start().Format("2006-01") }

// =============================================================================
// MONTH RANGE - Inclusive, contiguous span of calendar months
// =============================================================================

type MonthRange struct {
	From YearMonth
	To   YearMonth
}

// MonthRangeOf expands [start, end] to full calendar months at both ends.
func MonthRangeOf(start, end time.Time) MonthRange {
	return MonthRange{From: YearMonthOf(start), To: YearMonthOf(end)}
}

// Months returns every month in the range, ascending. Empty if To < From.
func (r MonthRange) Months() []YearMonth {
	if r.To.Before(r.From) {
		return nil
	}
	months := make([]YearMonth, 0, r.To.index()-r.From.index()+1)
	for ym := r.From; ym.BeforeOrEqual(r.To); ym = ym.Next() {
		months = append(months, ym)
	}
	return months
}

func (r MonthRange) Contains(ym YearMonth) bool {
	return ym.AfterOrEqual(r.From) && ym.BeforeOrEqual(r.To)
}

// CapAt clips the upper bound. Balance grids never project past the
// current calendar month.
func (r MonthRange) CapAt(limit YearMonth) MonthRange {
	if r.To.After(limit) {
		return MonthRange{From: r.From, To: limit}
	}
	return r
}

// Pad extends the lower bound backwards by n months. Used to fetch the
// lookback needed for trailing-12 sums on the first visible month.
func (r MonthRange) Pad(n int) MonthRange {
	return MonthRange{From: r.From.AddMonths(-n), To: r.To}
}

func (r MonthRange) String() string { return "[" + r.From.String() + ", " + r.To.String() + "]" }

// =============================================================================
// LEDGER TRANSACTION - Immutable, externally produced; read-only input
// =============================================================================

type LedgerTransaction struct {
	ID                string
	Amount            decimal.Decimal
	Cost              decimal.Decimal
	TypeCode          string
	SubTypeDescriptor string
	TransactionDate   time.Time
	OwnerCode         string
	TaskCode          string
	ServiceLine       string
}

// =============================================================================
// CATEGORIZED AMOUNTS - Signed semantic buckets derived per month
// =============================================================================

type CategorizedAmounts struct {
	Time                    decimal.Decimal
	TimeAdjustments         decimal.Decimal
	Disbursements           decimal.Decimal
	DisbursementAdjustments decimal.Decimal
	Fees                    decimal.Decimal
	Provision               decimal.Decimal
	Cost                    decimal.Decimal
}

func ZeroCategorized() CategorizedAmounts {
	return CategorizedAmounts{
		Time:                    decimal.Zero,
		TimeAdjustments:         decimal.Zero,
		Disbursements:           decimal.Zero,
		DisbursementAdjustments: decimal.Zero,
		Fees:                    decimal.Zero,
		Provision:               decimal.Zero,
		Cost:                    decimal.Zero,
	}
}

// BucketTotal sums every bucket (cost excluded - it is an audit sidecar,
// not a bucket). Unclassified adjustments never reach any bucket, so this
// can differ from the raw transaction sum. See categorize.go.
func (c CategorizedAmounts) BucketTotal() decimal.Decimal {
	return c.Time.
		Add(c.TimeAdjustments).
		Add(c.Disbursements).
		Add(c.DisbursementAdjustments).
		Add(c.Fees).
		Add(c.Provision)
}

// CategorizedMonth pairs a calendar month with its bucket sums.
type CategorizedMonth struct {
	Month   YearMonth
	Amounts CategorizedAmounts
}

// MonthlyAmount is a plain signed sum for one month.
type MonthlyAmount struct {
	Month  YearMonth
	Amount decimal.Decimal
}

// =============================================================================
// MONTHLY BALANCE - Carry-forward running balance for one month
// =============================================================================

// MonthlyBalance holds the running balance at the end of Month.
//
// INVARIANT: if no transaction falls in month M but one fell in an earlier
// month, balance(M) == balance(last month with activity). If none ever
// occurred, balance is zero.
type MonthlyBalance struct {
	Month   YearMonth
	Balance decimal.Decimal
}

// =============================================================================
// MONTHLY METRICS - Final composed report row
// =============================================================================

// MonthlyMetrics is one row of the overview report. The field set is a
// compatibility contract with downstream chart consumers; do not rename
// or drop fields.
type MonthlyMetrics struct {
	Month              YearMonth
	NetRevenue         decimal.Decimal
	GrossProfit        decimal.Decimal
	Collections        decimal.Decimal
	WIPLockupDays      decimal.Decimal
	DebtorsLockupDays  decimal.Decimal
	WriteoffPercentage decimal.Decimal

	// Audit fields
	GrossTime         decimal.Decimal
	Provisions        decimal.Decimal
	WIPBalance        decimal.Decimal
	DebtorsBalance    decimal.Decimal
	Trailing12Revenue decimal.Decimal
	Trailing12Billings decimal.Decimal
}

// =============================================================================
// EMPLOYEE / FILTER MODE
// =============================================================================

// FilterMode selects which ownership column filters the ledger. This is a
// business rule: partner-category employees see the book they are task
// partner on; everyone else sees the book they manage.
type FilterMode string

const (
	FilterPartner FilterMode = "PARTNER"
	FilterManager FilterMode = "MANAGER"
)

// Employee is the resolved caller identity.
type Employee struct {
	Code     string
	Name     string
	Category string
}

// partnerCategories are the firm's partner-type employee categories.
var partnerCategories = map[string]bool{
	"PARTNER":            true,
	"SALARIED PARTNER":   true,
	"CONSULTANT PARTNER": true,
}

// FilterModeFor derives the ledger ownership filter from an employee
// category. Must be preserved exactly; it is a business rule, not a
// technical choice.
func FilterModeFor(category string) FilterMode {
	if partnerCategories[strings.ToUpper(strings.TrimSpace(category))] {
		return FilterPartner
	}
	return FilterManager
}
