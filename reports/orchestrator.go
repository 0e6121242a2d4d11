/*
orchestrator.go - Top-level overview coordinator

PURPOSE:
  Drives the whole pipeline for one overview request: resolve the
  caller's filter mode, fan out the raw-data fetches, run the
  aggregation chain, assemble the envelope, and manage the cache.

REQUEST MODES:
  The period selector is a closed union - FiscalSingle, FiscalAll,
  CustomRange - dispatched by type switch. The api layer parses request
  strings into the union; no string-mode branching happens in here.

CONCURRENCY:
  Within one fiscal-year pipeline the six raw-data fetches run
  concurrently; the pipeline suspends until all six complete, then
  proceeds synchronously through series building and composition. For
  FiscalAll the three per-year pipelines also run concurrently,
  all-or-nothing: one failed year fails the request rather than serving
  an incomplete multi-year comparison.

  Everything is request-scoped and stateless outside the cache.
  Concurrent requests for the same uncached key may both compute and
  both write; the computation is pure, so last-write-wins is fine.

BEST-EFFORT PRE-WARM:
  After a successful current-year response is ready, the two preceding
  fiscal years are warmed in a detached goroutine. The result is
  intentionally discarded: errors are logged, never surfaced, never
  retried.
*/
package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
)

// =============================================================================
// PERIOD SELECTOR - Closed union over the request mode
// =============================================================================

type PeriodSelector interface {
	isPeriodSelector()
}

// FiscalSingle requests one fiscal year.
type FiscalSingle struct {
	Year int
}

// FiscalAll requests the current fiscal year plus the two preceding.
type FiscalAll struct{}

// CustomRange requests an arbitrary date range, expanded to full
// calendar months at both ends.
type CustomRange struct {
	Start time.Time
	End   time.Time
}

func (FiscalSingle) isPeriodSelector() {}
func (FiscalAll) isPeriodSelector()    {}
func (CustomRange) isPeriodSelector()  {}

// OverviewRequest is the engine-level request, already parsed by the
// transport layer.
type OverviewRequest struct {
	CallerID     string
	Period       PeriodSelector
	ServiceLines []string
}

// =============================================================================
// ORCHESTRATOR
// =============================================================================

// trailingPadMonths is the lookback fetched beyond the visible window so
// the first displayed month has a complete trailing-12 base.
const trailingPadMonths = 12

type Orchestrator struct {
	Ledger    LedgerReader
	Directory EmployeeDirectory
	Cache     *ReportCache
	Calendar  FiscalCalendar

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

func NewOrchestrator(ledger LedgerReader, directory EmployeeDirectory, cache *ReportCache) *Orchestrator {
	return &Orchestrator{
		Ledger:    ledger,
		Directory: directory,
		Cache:     cache,
		Calendar:  NewFiscalCalendar(),
		Now:       time.Now,
	}
}

// Overview runs the full pipeline for one request.
func (o *Orchestrator) Overview(ctx context.Context, req OverviewRequest) (*OverviewPayload, error) {
	if cr, ok := req.Period.(CustomRange); ok {
		if cr.Start.IsZero() || cr.End.IsZero() {
			return nil, ErrMissingDateRange
		}
	}

	emp, err := o.Directory.Resolve(ctx, req.CallerID)
	if err != nil {
		return nil, err
	}
	mode := FilterModeFor(emp.Category)

	scope := ReportScope{
		EmployeeCode: emp.Code,
		FilterMode:   mode,
		Period:       req.Period,
		ServiceLines: req.ServiceLines,
	}

	if cached, ok := o.Cache.Get(ctx, scope); ok {
		var payload OverviewPayload
		if err := json.Unmarshal(cached, &payload); err == nil {
			return &payload, nil
		}
		log.Printf("overview: discarding undecodable cache entry for %s", scope.Key())
	}

	today := o.Now()
	var payload *OverviewPayload

	switch sel := req.Period.(type) {
	case FiscalSingle:
		payload, err = o.fiscalSingle(ctx, emp, mode, req.ServiceLines, sel.Year)

	case FiscalAll:
		payload, err = o.fiscalAll(ctx, emp, mode, req.ServiceLines, today)

	case CustomRange:
		rows, rangeErr := o.runRange(ctx, emp.Code, mode, req.ServiceLines, MonthRangeOf(sel.Start, sel.End))
		if rangeErr != nil {
			err = rangeErr
			break
		}
		payload = &OverviewPayload{
			MonthlyMetrics: rows,
			FilterMode:     mode,
			EmployeeCode:   emp.Code,
			DateRange: &DateRange{
				StartDate: sel.Start.Format("2006-01-02"),
				EndDate:   sel.End.Format("2006-01-02"),
			},
			IsCumulative: true,
		}

	default:
		err = fmt.Errorf("unknown period selector %T", req.Period)
	}
	if err != nil {
		return nil, err
	}

	if encoded, marshalErr := json.Marshal(payload); marshalErr == nil {
		o.Cache.Set(ctx, scope, encoded, today)
	} else {
		log.Printf("overview: failed to encode payload for %s, skipping cache write: %v", scope.Key(), marshalErr)
	}

	// A fresh current-year response is the trigger to warm the two prior
	// years in the background. Detached from the request context: an
	// abandoned request must not cancel the warm-up.
	if sel, ok := req.Period.(FiscalSingle); ok && sel.Year == o.Calendar.Current(today) {
		go o.PrewarmPriorYears(context.Background(), emp.Code, mode, req.ServiceLines)
	}

	return payload, nil
}

func (o *Orchestrator) fiscalSingle(ctx context.Context, emp *Employee, mode FilterMode, serviceLines []string, year int) (*OverviewPayload, error) {
	rows, err := o.runRange(ctx, emp.Code, mode, serviceLines, o.Calendar.PeriodFor(year).Months())
	if err != nil {
		return nil, err
	}
	return &OverviewPayload{
		MonthlyMetrics: rows,
		FilterMode:     mode,
		EmployeeCode:   emp.Code,
		FiscalYear:     year,
		IsCumulative:   true,
	}, nil
}

// fiscalAll runs three single-year pipelines concurrently. All or
// nothing: a single failed year fails the request.
func (o *Orchestrator) fiscalAll(ctx context.Context, emp *Employee, mode FilterMode, serviceLines []string, today time.Time) (*OverviewPayload, error) {
	years := o.Calendar.AllYears(today)
	results := make([][]MetricsRow, len(years))

	g, gctx := errgroup.WithContext(ctx)
	for i, year := range years {
		i, year := i, year
		g.Go(func() error {
			rows, err := o.runRange(gctx, emp.Code, mode, serviceLines, o.Calendar.PeriodFor(year).Months())
			if err != nil {
				return fmt.Errorf("fiscal year %d: %w", year, err)
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	yearly := make(map[string][]MetricsRow, len(years))
	for i, year := range years {
		yearly[strconv.Itoa(year)] = results[i]
	}
	return &OverviewPayload{
		YearlyData:   yearly,
		FilterMode:   mode,
		EmployeeCode: emp.Code,
		FiscalYear:   "all",
		IsCumulative: true,
	}, nil
}

// =============================================================================
// SINGLE-WINDOW PIPELINE
// =============================================================================

// runRange executes the six-fetch fan-out and the aggregation chain for
// one visible month window. The window is capped at the current calendar
// month first: the report states facts, never projected rows.
func (o *Orchestrator) runRange(ctx context.Context, ownerCode string, mode FilterMode, serviceLines []string, visible MonthRange) ([]MetricsRow, error) {
	now := o.Now()
	nowMonth := YearMonthOf(now)
	visible = visible.CapAt(nowMonth)
	padded := visible.Pad(trailingPadMonths)

	scopeFor := func(window MonthRange, fromInception bool) QueryScope {
		scope := QueryScope{
			OwnerCode:    ownerCode,
			FilterMode:   mode,
			To:           window.To.End(),
			ServiceLines: serviceLines,
		}
		if !fromInception {
			scope.From = window.From.Start()
		}
		return scope
	}

	var (
		cumulativeWIP  []LedgerTransaction
		incrementalWIP []LedgerTransaction
		collections    []LedgerTransaction
		netBillings    []LedgerTransaction
		wipHistory     []LedgerTransaction
		debtorHistory  []LedgerTransaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		cumulativeWIP, err = fetchWithRetry(gctx, "cumulative-wip", func(ctx context.Context) ([]LedgerTransaction, error) {
			return o.Ledger.WIPTransactions(ctx, scopeFor(visible, false))
		})
		return err
	})
	g.Go(func() (err error) {
		incrementalWIP, err = fetchWithRetry(gctx, "incremental-wip", func(ctx context.Context) ([]LedgerTransaction, error) {
			return o.Ledger.WIPTransactions(ctx, scopeFor(padded, false))
		})
		return err
	})
	g.Go(func() (err error) {
		collections, err = fetchWithRetry(gctx, "collections", func(ctx context.Context) ([]LedgerTransaction, error) {
			return o.Ledger.CollectionTransactions(ctx, scopeFor(visible, false))
		})
		return err
	})
	g.Go(func() (err error) {
		netBillings, err = fetchWithRetry(gctx, "net-billings", func(ctx context.Context) ([]LedgerTransaction, error) {
			return o.Ledger.BillingTransactions(ctx, scopeFor(padded, false))
		})
		return err
	})
	g.Go(func() (err error) {
		wipHistory, err = fetchWithRetry(gctx, "wip-balance", func(ctx context.Context) ([]LedgerTransaction, error) {
			return o.Ledger.WIPTransactions(ctx, scopeFor(visible, true))
		})
		return err
	})
	g.Go(func() (err error) {
		debtorHistory, err = fetchWithRetry(gctx, "debtors-balance", func(ctx context.Context) ([]LedgerTransaction, error) {
			return o.Ledger.DebtorTransactions(ctx, scopeFor(visible, true))
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	metrics := Compose(ComposeInput{
		Cumulative:         Aggregate(cumulativeWIP, visible, Cumulative),
		Collections:        AggregatePlain(collections, visible, Cumulative),
		WIPBalances:        BuildBalanceSeries(wipDeltasFor(wipHistory, visible), visible, nowMonth),
		DebtorBalances:     BuildBalanceSeries(debtorDeltasFor(debtorHistory, visible), visible, nowMonth),
		Trailing12Revenue:  TrailingSums(NetRevenueDeltas(Aggregate(incrementalWIP, padded, Incremental)), visible),
		Trailing12Billings: TrailingSums(AggregatePlain(netBillings, padded, Incremental), visible),
	})
	return toMetricsRows(metrics), nil
}

// TaskWIPBalances returns the carry-forward WIP balance series for one
// task over the requested window.
func (o *Orchestrator) TaskWIPBalances(ctx context.Context, taskCode string, window MonthRange) ([]MonthlyBalance, error) {
	txs, err := fetchWithRetry(ctx, "task-wip-balance", func(ctx context.Context) ([]LedgerTransaction, error) {
		return o.Ledger.WIPTransactions(ctx, QueryScope{TaskCode: taskCode, To: window.To.End()})
	})
	if err != nil {
		return nil, err
	}
	return BuildBalanceSeries(wipDeltasFor(txs, window), window, YearMonthOf(o.Now())), nil
}

// =============================================================================
// BEST-EFFORT PRE-WARM
// =============================================================================

// PrewarmPriorYears computes and caches the two fiscal years preceding
// the current one. Best-effort by contract: callers spawn it and discard
// the outcome; failures are logged here and go nowhere else.
func (o *Orchestrator) PrewarmPriorYears(ctx context.Context, employeeCode string, mode FilterMode, serviceLines []string) {
	today := o.Now()
	current := o.Calendar.Current(today)

	for _, year := range []int{current - 1, current - 2} {
		scope := ReportScope{
			EmployeeCode: employeeCode,
			FilterMode:   mode,
			Period:       FiscalSingle{Year: year},
			ServiceLines: serviceLines,
		}
		if _, ok := o.Cache.Get(ctx, scope); ok {
			continue
		}

		rows, err := o.runRange(ctx, employeeCode, mode, serviceLines, o.Calendar.PeriodFor(year).Months())
		if err != nil {
			log.Printf("overview prewarm: fiscal year %d for %s failed, discarding: %v", year, employeeCode, err)
			continue
		}
		payload := OverviewPayload{
			MonthlyMetrics: rows,
			FilterMode:     mode,
			EmployeeCode:   employeeCode,
			FiscalYear:     year,
			IsCumulative:   true,
		}
		if encoded, err := json.Marshal(payload); err == nil {
			o.Cache.Set(ctx, scope, encoded, today)
		} else {
			log.Printf("overview prewarm: failed to encode fiscal year %d for %s, skipping cache write: %v", year, employeeCode, err)
		}
	}
}

// =============================================================================
// DELTA HELPERS
// =============================================================================

// wipDeltasFor computes per-month signed WIP deltas over the full history
// of the fetched rows, so BuildBalanceSeries can fold pre-window months
// into the opening balance.
func wipDeltasFor(txs []LedgerTransaction, visible MonthRange) []MonthlyAmount {
	return WIPDeltas(Aggregate(txs, historyRange(txs, visible), Incremental))
}

func debtorDeltasFor(txs []LedgerTransaction, visible MonthRange) []MonthlyAmount {
	return AggregatePlain(txs, historyRange(txs, visible), Incremental)
}

// historyRange extends the visible window back to the earliest fetched
// transaction.
func historyRange(txs []LedgerTransaction, visible MonthRange) MonthRange {
	from := visible.From
	for _, tx := range txs {
		if m := YearMonthOf(tx.TransactionDate); m.Before(from) {
			from = m
		}
	}
	return MonthRange{From: from, To: visible.To}
}
