// Package memory provides in-memory reports collaborators for tests and
// local demos.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/arden/practice-engine/reports"
)

// =============================================================================
// MEMORY STORE - In-memory LedgerReader + EmployeeDirectory
// =============================================================================

// Store keeps one sorted slice per ledger stream and a user->employee
// map. Safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	ledgers   map[string][]reports.LedgerTransaction
	employees map[string]reports.Employee
}

const (
	LedgerWIP         = "wip"
	LedgerDebtors     = "debtors"
	LedgerCollections = "collections"
	LedgerBillings    = "billings"
)

func New() *Store {
	return &Store{
		ledgers:   make(map[string][]reports.LedgerTransaction),
		employees: make(map[string]reports.Employee),
	}
}

// Add inserts a transaction into a ledger stream, keeping date order.
func (s *Store) Add(ledger string, tx reports.LedgerTransaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txs := s.ledgers[ledger]
	i := sort.Search(len(txs), func(i int) bool {
		return txs[i].TransactionDate.After(tx.TransactionDate)
	})
	txs = append(txs, reports.LedgerTransaction{})
	copy(txs[i+1:], txs[i:])
	txs[i] = tx
	s.ledgers[ledger] = txs
}

// AddEmployee registers an employee under a caller identity.
func (s *Store) AddEmployee(userID string, emp reports.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees[userID] = emp
}

// =============================================================================
// LEDGER READER (reports.LedgerReader interface)
// =============================================================================

func (s *Store) WIPTransactions(_ context.Context, scope reports.QueryScope) ([]reports.LedgerTransaction, error) {
	return s.query(LedgerWIP, scope), nil
}

func (s *Store) DebtorTransactions(_ context.Context, scope reports.QueryScope) ([]reports.LedgerTransaction, error) {
	return s.query(LedgerDebtors, scope), nil
}

func (s *Store) CollectionTransactions(_ context.Context, scope reports.QueryScope) ([]reports.LedgerTransaction, error) {
	return s.query(LedgerCollections, scope), nil
}

func (s *Store) BillingTransactions(_ context.Context, scope reports.QueryScope) ([]reports.LedgerTransaction, error) {
	return s.query(LedgerBillings, scope), nil
}

func (s *Store) query(ledger string, scope reports.QueryScope) []reports.LedgerTransaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []reports.LedgerTransaction
	for _, tx := range s.ledgers[ledger] {
		if matches(tx, scope) {
			out = append(out, tx)
		}
	}
	return out
}

func matches(tx reports.LedgerTransaction, scope reports.QueryScope) bool {
	if scope.OwnerCode != "" && tx.OwnerCode != scope.OwnerCode {
		return false
	}
	if scope.TaskCode != "" && tx.TaskCode != scope.TaskCode {
		return false
	}
	if !scope.From.IsZero() && tx.TransactionDate.Before(scope.From) {
		return false
	}
	if !scope.To.IsZero() && tx.TransactionDate.After(scope.To) {
		return false
	}
	if len(scope.ServiceLines) > 0 {
		found := false
		for _, line := range scope.ServiceLines {
			if tx.ServiceLine == line {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// =============================================================================
// EMPLOYEE DIRECTORY (reports.EmployeeDirectory interface)
// =============================================================================

func (s *Store) Resolve(_ context.Context, callerID string) (*reports.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	emp, ok := s.employees[callerID]
	if !ok {
		return nil, reports.ErrEmployeeNotFound
	}
	return &emp, nil
}
