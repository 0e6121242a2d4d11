/*
fiscal.go - Fiscal calendar resolution

PURPOSE:
  Maps fiscal-year numbers and custom ranges to concrete calendar bounds,
  and tells open periods from closed ones. The firm's fiscal year is a
  fixed 12-month window anchored on a constant start month: FY2024 runs
  Sep 2023 - Aug 2024.

CLOSED vs OPEN:
  A fiscal year is closed once today falls past its end date. Closed
  years are immutable ledgers, which is why the cache holds them longer.
*/
package reports

import "time"

// FiscalYearStartMonth anchors the firm's fiscal calendar. FY(n) runs
// 1 Sep (n-1) through 31 Aug (n).
const FiscalYearStartMonth = time.September

// FiscalPeriod is a fixed-length 12-month accounting window.
type FiscalPeriod struct {
	FiscalYear int
	Start      time.Time
	End        time.Time
}

// Months returns the period as a month grid.
func (p FiscalPeriod) Months() MonthRange { return MonthRangeOf(p.Start, p.End) }

// FiscalCalendar resolves fiscal years against a fixed start month.
// The zero value is not usable; construct with NewFiscalCalendar.
type FiscalCalendar struct {
	startMonth time.Month
}

func NewFiscalCalendar() FiscalCalendar {
	return FiscalCalendar{startMonth: FiscalYearStartMonth}
}

// PeriodFor returns the calendar bounds of a fiscal year.
func (c FiscalCalendar) PeriodFor(fiscalYear int) FiscalPeriod {
	start := time.Date(fiscalYear-1, c.startMonth, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, -1)
	return FiscalPeriod{FiscalYear: fiscalYear, Start: start, End: end}
}

// FiscalYearOf returns the fiscal-year number containing the given date.
func (c FiscalCalendar) FiscalYearOf(date time.Time) int {
	year := date.Year()
	if date.Month() >= c.startMonth {
		return year + 1
	}
	return year
}

// Current returns the fiscal year containing today.
func (c FiscalCalendar) Current(today time.Time) int {
	return c.FiscalYearOf(today)
}

// IsClosed reports whether the fiscal year ended before today. Closed
// years are immutable once closed.
func (c FiscalCalendar) IsClosed(fiscalYear int, today time.Time) bool {
	return c.PeriodFor(fiscalYear).End.Before(today.Truncate(24 * time.Hour))
}

// AllYears resolves the "all" token: the current fiscal year plus the two
// preceding ones, newest first.
func (c FiscalCalendar) AllYears(today time.Time) []int {
	current := c.Current(today)
	return []int{current, current - 1, current - 2}
}
