/*
errors.go - Centralized error types for the reports engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The api package maps these onto HTTP status codes.

ERROR CATEGORIES:
  1. Request errors - fatal, surfaced immediately, never retried
  2. Ledger errors - transient reads retried with bounded backoff first
  3. Cache errors - never fatal; logged and treated as a miss / no-op

USAGE:
  if errors.Is(err, reports.ErrEmployeeNotFound) {
      respondError(w, http.StatusForbidden, ...)
  }
*/
package reports

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEmployeeNotFound is returned when the caller has no employee
	// record. Authorization-shaped: fatal, not retried.
	ErrEmployeeNotFound = errors.New("no employee record for caller")

	// ErrMissingDateRange is returned when a custom-range request omits
	// its start or end date. Fatal validation failure.
	ErrMissingDateRange = errors.New("custom range requires both startDate and endDate")

	// ErrLedgerUnavailable wraps a ledger read that kept failing after the
	// bounded retry policy was exhausted.
	ErrLedgerUnavailable = errors.New("ledger read failed")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// LedgerReadError records which fetch failed and after how many attempts.
type LedgerReadError struct {
	Fetch    string
	Attempts int
	Err      error
}

func (e *LedgerReadError) Error() string {
	return fmt.Sprintf("ledger read %q failed after %d attempts: %v", e.Fetch, e.Attempts, e.Err)
}

func (e *LedgerReadError) Unwrap() error { return ErrLedgerUnavailable }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input
// or a missing caller record, rather than an engine failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrMissingDateRange)
}
