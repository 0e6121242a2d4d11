/*
ledger.go - Read-only ledger collaborator

PURPOSE:
  The engine never owns transaction storage; it consumes a LedgerReader
  maintained elsewhere (posting, invoicing, and every other write path
  live upstream). This file defines the six query shapes the overview
  pipeline needs, the typed query scope they share, and the bounded
  retry policy applied to transient read failures.

QUERY SCOPE:
  QueryScope is a typed predicate, not a string fragment. Storage
  implementations compose WHERE clauses from its fields; the month-grid,
  running-total, and carry-forward algorithms stay in this package so
  they remain portable and unit-testable independent of the engine
  underneath.

SEE ALSO:
  - store/sqlite: Production implementation with the predicate builder
  - store/memory: In-memory implementation for tests and demos
*/
package reports

import (
	"context"
	"time"
)

// =============================================================================
// QUERY SCOPE - Typed predicate shared by every ledger read
// =============================================================================

// QueryScope filters ledger reads. Zero-value From means "from
// inception". Owner/FilterMode select the ownership column; TaskCode
// narrows to a single task (task WIP views); ServiceLines is an optional
// set filter.
type QueryScope struct {
	OwnerCode    string
	FilterMode   FilterMode
	TaskCode     string
	From         time.Time
	To           time.Time
	ServiceLines []string
}

// =============================================================================
// LEDGER READER - The six query shapes of the overview pipeline
// =============================================================================

// LedgerReader returns externally maintained, immutable transaction rows.
// Implementations must order results by transaction date ascending.
type LedgerReader interface {
	// WIPTransactions returns work-in-progress ledger rows: time,
	// disbursements, fees, adjustments, provisions.
	WIPTransactions(ctx context.Context, scope QueryScope) ([]LedgerTransaction, error)

	// DebtorTransactions returns accounts-receivable ledger rows
	// (invoices and receipts, signed).
	DebtorTransactions(ctx context.Context, scope QueryScope) ([]LedgerTransaction, error)

	// CollectionTransactions returns cash receipts only.
	CollectionTransactions(ctx context.Context, scope QueryScope) ([]LedgerTransaction, error)

	// BillingTransactions returns net billings: fee invoices less credit
	// notes.
	BillingTransactions(ctx context.Context, scope QueryScope) ([]LedgerTransaction, error)
}

// EmployeeDirectory resolves the caller's identity to an employee record.
// Identity resolution itself (auth, user mapping) lives upstream.
type EmployeeDirectory interface {
	// Resolve returns the employee for a caller identity, or
	// ErrEmployeeNotFound.
	Resolve(ctx context.Context, callerID string) (*Employee, error)
}

// =============================================================================
// RETRY POLICY - Cold-start-tolerant bounded backoff for ledger reads
// =============================================================================

const (
	ledgerReadAttempts = 3
	ledgerReadBackoff  = 100 * time.Millisecond
)

// fetchWithRetry runs a ledger read with bounded backoff. Transient
// connectivity blips (cold connection pools, restarting replicas) get a
// couple of doubling-delay retries before the failure is surfaced as
// fatal. Fatal request errors never pass through here.
func fetchWithRetry(ctx context.Context, name string, fetch func(context.Context) ([]LedgerTransaction, error)) ([]LedgerTransaction, error) {
	var lastErr error
	delay := ledgerReadBackoff

	for attempt := 1; attempt <= ledgerReadAttempts; attempt++ {
		txs, err := fetch(ctx)
		if err == nil {
			return txs, nil
		}
		lastErr = err

		if attempt == ledgerReadAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	return nil, &LedgerReadError{Fetch: name, Attempts: ledgerReadAttempts, Err: lastErr}
}
