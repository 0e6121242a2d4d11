/*
Package sqlite provides the SQLite-backed implementations of the reports
engine's collaborators.

PURPOSE:
  Implements reports.LedgerReader and reports.EmployeeDirectory over the
  firm's reporting tables. In production the same patterns apply to
  PostgreSQL - only minor SQL dialect differences.

READ-ONLY CONTRACT:
  The reports engine never writes ledger rows. The write helpers in this
  file (SaveTransaction, SaveEmployee) exist for the upstream feed,
  seeding, and tests - not for the engine.

LEDGER STREAMS:
  The reporting feed lands every row in ledger_transactions with a
  `ledger` discriminator:
    wip          time, disbursements, fees, adjustments, provisions
    debtors      AR movements (invoices +, receipts -)
    collections  cash receipts (positive)
    billings     fee invoices less credit notes

PREDICATE BUILDER:
  Query filters are composed from typed parts (date range, ownership
  column, task, service-line set), never concatenated from raw strings.
  The month-grid / running-total / carry-forward algorithms stay in the
  reports package; SQL only filters rows.

WAL MODE:
  SQLite is opened with WAL for read concurrency.

SEE ALSO:
  - reports/ledger.go: Interface definitions and query scope
  - store/memory: In-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/arden/practice-engine/reports"
)

// Store implements the reports collaborators over SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (and migrates) a SQLite store. Use ":memory:" for tests.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Reporting feed of ledger rows (maintained upstream, read-only here)
	CREATE TABLE IF NOT EXISTS ledger_transactions (
		id TEXT PRIMARY KEY,
		ledger TEXT NOT NULL,
		amount TEXT NOT NULL,
		cost TEXT NOT NULL DEFAULT '0',
		type_code TEXT NOT NULL,
		sub_type TEXT,
		tx_date TEXT NOT NULL,
		partner_code TEXT NOT NULL,
		manager_code TEXT NOT NULL,
		task_code TEXT NOT NULL DEFAULT '',
		service_line TEXT NOT NULL DEFAULT ''
	);

	-- Hot path: per-owner windowed reads for the six overview fetches
	CREATE INDEX IF NOT EXISTS idx_ledger_partner_date
		ON ledger_transactions(ledger, partner_code, tx_date);
	CREATE INDEX IF NOT EXISTS idx_ledger_manager_date
		ON ledger_transactions(ledger, manager_code, tx_date);
	CREATE INDEX IF NOT EXISTS idx_ledger_task_date
		ON ledger_transactions(ledger, task_code, tx_date);

	-- Employees (identity resolution source)
	CREATE TABLE IF NOT EXISTS employees (
		user_id TEXT PRIMARY KEY,
		code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		category TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PREDICATE BUILDER - Typed filter composition
// =============================================================================

type predicate struct {
	clauses []string
	args    []any
}

func (p *predicate) where(clause string, args ...any) {
	p.clauses = append(p.clauses, clause)
	p.args = append(p.args, args...)
}

func (p *predicate) ledger(kind string) {
	p.where("ledger = ?", kind)
}

// scope translates a reports.QueryScope into clauses. The ownership
// column follows the filter mode; a zero From means unbounded history.
func (p *predicate) scope(scope reports.QueryScope) {
	if scope.OwnerCode != "" {
		if scope.FilterMode == reports.FilterPartner {
			p.where("partner_code = ?", scope.OwnerCode)
		} else {
			p.where("manager_code = ?", scope.OwnerCode)
		}
	}
	if scope.TaskCode != "" {
		p.where("task_code = ?", scope.TaskCode)
	}
	if !scope.From.IsZero() {
		p.where("tx_date >= ?", scope.From.Format("2006-01-02"))
	}
	if !scope.To.IsZero() {
		p.where("tx_date <= ?", scope.To.Format("2006-01-02"))
	}
	if len(scope.ServiceLines) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(scope.ServiceLines)), ",")
		clause := "service_line IN (" + placeholders + ")"
		args := make([]any, len(scope.ServiceLines))
		for i, line := range scope.ServiceLines {
			args[i] = line
		}
		p.where(clause, args...)
	}
}

func (p *predicate) sql() (string, []any) {
	if len(p.clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(p.clauses, " AND "), p.args
}

// =============================================================================
// LEDGER READER (reports.LedgerReader interface)
// =============================================================================

func (s *Store) WIPTransactions(ctx context.Context, scope reports.QueryScope) ([]reports.LedgerTransaction, error) {
	return s.queryLedger(ctx, "wip", scope)
}

func (s *Store) DebtorTransactions(ctx context.Context, scope reports.QueryScope) ([]reports.LedgerTransaction, error) {
	return s.queryLedger(ctx, "debtors", scope)
}

func (s *Store) CollectionTransactions(ctx context.Context, scope reports.QueryScope) ([]reports.LedgerTransaction, error) {
	return s.queryLedger(ctx, "collections", scope)
}

func (s *Store) BillingTransactions(ctx context.Context, scope reports.QueryScope) ([]reports.LedgerTransaction, error) {
	return s.queryLedger(ctx, "billings", scope)
}

func (s *Store) queryLedger(ctx context.Context, ledger string, scope reports.QueryScope) ([]reports.LedgerTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := &predicate{}
	p.ledger(ledger)
	p.scope(scope)
	whereSQL, args := p.sql()

	query := `
		SELECT id, amount, cost, type_code, sub_type, tx_date,
		       partner_code, manager_code, task_code, service_line
		FROM ledger_transactions` + whereSQL + `
		ORDER BY tx_date ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s ledger: %w", ledger, err)
	}
	defer rows.Close()

	var txs []reports.LedgerTransaction
	for rows.Next() {
		tx, err := scanTransaction(rows, scope.FilterMode)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func scanTransaction(rows *sql.Rows, mode reports.FilterMode) (reports.LedgerTransaction, error) {
	var (
		tx          reports.LedgerTransaction
		amount      string
		cost        string
		subType     sql.NullString
		txDate      string
		partnerCode string
		managerCode string
	)

	err := rows.Scan(&tx.ID, &amount, &cost, &tx.TypeCode, &subType, &txDate,
		&partnerCode, &managerCode, &tx.TaskCode, &tx.ServiceLine)
	if err != nil {
		return tx, fmt.Errorf("failed to scan ledger transaction: %w", err)
	}

	tx.Amount = reports.MustParseDecimal(amount)
	tx.Cost = reports.MustParseDecimal(cost)
	tx.SubTypeDescriptor = subType.String
	tx.TransactionDate, _ = time.Parse("2006-01-02", txDate)
	if mode == reports.FilterPartner {
		tx.OwnerCode = partnerCode
	} else {
		tx.OwnerCode = managerCode
	}
	return tx, nil
}

// =============================================================================
// EMPLOYEE DIRECTORY (reports.EmployeeDirectory interface)
// =============================================================================

// Resolve maps a caller identity onto an employee record.
func (s *Store) Resolve(ctx context.Context, callerID string) (*reports.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var emp reports.Employee
	err := s.db.QueryRowContext(ctx,
		"SELECT code, name, category FROM employees WHERE user_id = ?",
		callerID,
	).Scan(&emp.Code, &emp.Name, &emp.Category)

	if err == sql.ErrNoRows {
		return nil, reports.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

// =============================================================================
// FEED HELPERS - For the upstream loader, seeding, and tests
// =============================================================================

// TransactionRecord is one feed row destined for ledger_transactions.
type TransactionRecord struct {
	ID          string
	Ledger      string
	Amount      string
	Cost        string
	TypeCode    string
	SubType     string
	TxDate      time.Time
	PartnerCode string
	ManagerCode string
	TaskCode    string
	ServiceLine string
}

// SaveTransaction inserts a feed row. Not used by the reports engine.
func (s *Store) SaveTransaction(ctx context.Context, r TransactionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cost := r.Cost
	if cost == "" {
		cost = "0"
	}
	query := `
		INSERT INTO ledger_transactions
		(id, ledger, amount, cost, type_code, sub_type, tx_date,
		 partner_code, manager_code, task_code, service_line)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.Ledger, r.Amount, cost, r.TypeCode, r.SubType,
		r.TxDate.Format("2006-01-02"),
		r.PartnerCode, r.ManagerCode, r.TaskCode, r.ServiceLine,
	)
	return err
}

// SaveEmployee upserts an employee record.
func (s *Store) SaveEmployee(ctx context.Context, userID string, emp reports.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO employees (user_id, code, name, category)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			code = excluded.code,
			name = excluded.name,
			category = excluded.category
	`
	_, err := s.db.ExecContext(ctx, query, userID, emp.Code, emp.Name, emp.Category)
	return err
}
