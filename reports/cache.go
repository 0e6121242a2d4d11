/*
cache.go - TTL-differentiated report cache

PURPOSE:
  Caches composed overview payloads keyed by report scope. Two TTLs:

    30 minutes  scopes touching the current (open) fiscal year, and any
                custom range
    60 minutes  scopes fully inside closed past fiscal years - those
                ledgers are immutable once closed, so staleness is cheap

  There is no invalidation path; entries only expire.

FAILURE POLICY:
  Cache problems never fail a request. A read error is a miss, a write
  error is a no-op; both are logged and forgotten. Concurrent requests
  for the same uncached key may both compute and both write - last write
  wins, and the computation is pure, so nobody cares.

NO SINGLETON:
  The cache is an injected collaborator behind the narrow KV contract,
  not ambient package state. Keys carry a versioned namespace so the
  payload shape can evolve without serving stale structures.
*/
package reports

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"
)

// =============================================================================
// KV - The consumed cache contract (storage internals live elsewhere)
// =============================================================================

type KV interface {
	// Get returns the payload for key, a hit flag, and any storage error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a payload under key for the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// =============================================================================
// REPORT SCOPE - Cache key material
// =============================================================================

// ReportScope identifies one cacheable report computation.
type ReportScope struct {
	EmployeeCode string
	FilterMode   FilterMode
	Period       PeriodSelector
	ServiceLines []string
}

const cacheNamespace = "reports:overview:v1"

// Key returns the namespaced cache key for the scope: a stable hash of
// its canonical encoding.
func (s ReportScope) Key() string {
	lines := append([]string(nil), s.ServiceLines...)
	sort.Strings(lines)

	canonical := fmt.Sprintf("%s|%s|%s|%s",
		s.EmployeeCode, s.FilterMode, describePeriod(s.Period), strings.Join(lines, ","))

	sum := sha256.Sum256([]byte(canonical))
	return cacheNamespace + ":" + hex.EncodeToString(sum[:])
}

func describePeriod(p PeriodSelector) string {
	switch sel := p.(type) {
	case FiscalSingle:
		return fmt.Sprintf("fy:%d", sel.Year)
	case FiscalAll:
		return "fy:all"
	case CustomRange:
		return fmt.Sprintf("custom:%s:%s",
			sel.Start.Format("2006-01-02"), sel.End.Format("2006-01-02"))
	default:
		return "unknown"
	}
}

// =============================================================================
// REPORT CACHE
// =============================================================================

const (
	openPeriodTTL   = 30 * time.Minute
	closedPeriodTTL = 60 * time.Minute
)

// ReportCache wraps a KV with the scope keying and TTL policy.
type ReportCache struct {
	kv       KV
	calendar FiscalCalendar
}

func NewReportCache(kv KV, calendar FiscalCalendar) *ReportCache {
	return &ReportCache{kv: kv, calendar: calendar}
}

// Get returns the cached payload for a scope. Any storage error is
// logged and reported as a miss.
func (c *ReportCache) Get(ctx context.Context, scope ReportScope) ([]byte, bool) {
	payload, ok, err := c.kv.Get(ctx, scope.Key())
	if err != nil {
		log.Printf("report cache: read failed for %s, treating as miss: %v", scope.Key(), err)
		return nil, false
	}
	return payload, ok
}

// Set stores a payload under the scope with the policy TTL. Write
// failures are logged and swallowed.
func (c *ReportCache) Set(ctx context.Context, scope ReportScope, payload []byte, today time.Time) {
	if err := c.kv.Set(ctx, scope.Key(), payload, c.TTLFor(scope.Period, today)); err != nil {
		log.Printf("report cache: write failed for %s, skipping: %v", scope.Key(), err)
	}
}

// TTLFor applies the TTL policy: long for scopes fully inside closed
// fiscal years, short for anything touching the open year or using a
// custom range.
func (c *ReportCache) TTLFor(period PeriodSelector, today time.Time) time.Duration {
	switch sel := period.(type) {
	case FiscalSingle:
		if c.calendar.IsClosed(sel.Year, today) {
			return closedPeriodTTL
		}
		return openPeriodTTL
	case FiscalAll:
		// Always touches the current year.
		return openPeriodTTL
	case CustomRange:
		return openPeriodTTL
	default:
		return openPeriodTTL
	}
}
