package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arden/practice-engine/reports"
	"github.com/arden/practice-engine/store/sqlite"
)

func testStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func save(t *testing.T, s *sqlite.Store, r sqlite.TransactionRecord) {
	t.Helper()
	require.NoError(t, s.SaveTransaction(context.Background(), r))
}

func record(id, ledger, amount string, date time.Time) sqlite.TransactionRecord {
	return sqlite.TransactionRecord{
		ID:          id,
		Ledger:      ledger,
		Amount:      amount,
		TypeCode:    "TIME",
		TxDate:      date,
		PartnerCode: "P100",
		ManagerCode: "M200",
		TaskCode:    "TSK-1",
		ServiceLine: "AUDIT",
	}
}

// =============================================================================
// LEDGER STREAMS
// =============================================================================

func TestStore_LedgerStreamsAreIsolated(t *testing.T) {
	// GIVEN: One row in each stream
	s := testStore(t)
	date := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)
	save(t, s, record("w1", "wip", "100", date))
	save(t, s, record("d1", "debtors", "200", date))
	save(t, s, record("c1", "collections", "300", date))
	save(t, s, record("b1", "billings", "400", date))

	scope := reports.QueryScope{OwnerCode: "P100", FilterMode: reports.FilterPartner}

	// THEN: Each reader sees only its own stream
	wip, err := s.WIPTransactions(context.Background(), scope)
	require.NoError(t, err)
	require.Len(t, wip, 1)
	assert.Equal(t, "w1", wip[0].ID)

	debtors, err := s.DebtorTransactions(context.Background(), scope)
	require.NoError(t, err)
	require.Len(t, debtors, 1)
	assert.True(t, debtors[0].Amount.Equal(decimal.NewFromInt(200)))

	collections, err := s.CollectionTransactions(context.Background(), scope)
	require.NoError(t, err)
	require.Len(t, collections, 1)

	billings, err := s.BillingTransactions(context.Background(), scope)
	require.NoError(t, err)
	require.Len(t, billings, 1)
}

func TestStore_OwnershipColumnFollowsFilterMode(t *testing.T) {
	s := testStore(t)
	date := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)
	save(t, s, record("w1", "wip", "100", date)) // partner P100, manager M200

	// Partner mode matches the partner column only
	got, err := s.WIPTransactions(context.Background(),
		reports.QueryScope{OwnerCode: "P100", FilterMode: reports.FilterPartner})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "P100", got[0].OwnerCode)

	got, err = s.WIPTransactions(context.Background(),
		reports.QueryScope{OwnerCode: "M200", FilterMode: reports.FilterPartner})
	require.NoError(t, err)
	assert.Empty(t, got, "M200 is not the task partner")

	// Manager mode flips the column
	got, err = s.WIPTransactions(context.Background(),
		reports.QueryScope{OwnerCode: "M200", FilterMode: reports.FilterManager})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "M200", got[0].OwnerCode)
}

func TestStore_DateRangeFilter(t *testing.T) {
	s := testStore(t)
	save(t, s, record("w1", "wip", "100", time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)))
	save(t, s, record("w2", "wip", "200", time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)))
	save(t, s, record("w3", "wip", "300", time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)))

	// GIVEN: A bounded window
	got, err := s.WIPTransactions(context.Background(), reports.QueryScope{
		OwnerCode:  "P100",
		FilterMode: reports.FilterPartner,
		From:       time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		To:         time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "w2", got[0].ID)

	// GIVEN: A zero From - unbounded history up to To
	got, err = s.WIPTransactions(context.Background(), reports.QueryScope{
		OwnerCode:  "P100",
		FilterMode: reports.FilterPartner,
		To:         time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestStore_TaskAndServiceLineFilters(t *testing.T) {
	s := testStore(t)
	date := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)

	r := record("w1", "wip", "100", date)
	save(t, s, r)
	r = record("w2", "wip", "200", date)
	r.TaskCode = "TSK-2"
	r.ServiceLine = "TAX"
	save(t, s, r)

	got, err := s.WIPTransactions(context.Background(), reports.QueryScope{
		OwnerCode:  "P100",
		FilterMode: reports.FilterPartner,
		TaskCode:   "TSK-2",
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "w2", got[0].ID)

	got, err = s.WIPTransactions(context.Background(), reports.QueryScope{
		OwnerCode:    "P100",
		FilterMode:   reports.FilterPartner,
		ServiceLines: []string{"AUDIT"},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "w1", got[0].ID)

	got, err = s.WIPTransactions(context.Background(), reports.QueryScope{
		OwnerCode:    "P100",
		FilterMode:   reports.FilterPartner,
		ServiceLines: []string{"AUDIT", "TAX"},
	})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestStore_ResultsOrderedByDateAscending(t *testing.T) {
	s := testStore(t)
	save(t, s, record("late", "wip", "300", time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)))
	save(t, s, record("early", "wip", "100", time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)))
	save(t, s, record("mid", "wip", "200", time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)))

	got, err := s.WIPTransactions(context.Background(),
		reports.QueryScope{OwnerCode: "P100", FilterMode: reports.FilterPartner})

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"early", "mid", "late"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestStore_DecimalFieldsSurviveStorage(t *testing.T) {
	s := testStore(t)
	r := record("w1", "wip", "1234.56", time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC))
	r.Cost = "789.01"
	r.SubType = "Time write off"
	save(t, s, r)

	got, err := s.WIPTransactions(context.Background(),
		reports.QueryScope{OwnerCode: "P100", FilterMode: reports.FilterPartner})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Amount.Equal(decimal.RequireFromString("1234.56")))
	assert.True(t, got[0].Cost.Equal(decimal.RequireFromString("789.01")))
	assert.Equal(t, "Time write off", got[0].SubTypeDescriptor)
}

// =============================================================================
// EMPLOYEE DIRECTORY
// =============================================================================

func TestStore_ResolveEmployee(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.SaveEmployee(context.Background(), "u1", reports.Employee{
		Code: "P100", Name: "Alex Mercer", Category: "Partner",
	}))

	emp, err := s.Resolve(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "P100", emp.Code)
	assert.Equal(t, "Partner", emp.Category)
}

func TestStore_ResolveUnknownCaller(t *testing.T) {
	s := testStore(t)

	_, err := s.Resolve(context.Background(), "ghost")

	assert.ErrorIs(t, err, reports.ErrEmployeeNotFound)
}

func TestStore_SaveEmployeeUpserts(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.SaveEmployee(context.Background(), "u1", reports.Employee{
		Code: "P100", Name: "Alex Mercer", Category: "Manager",
	}))
	require.NoError(t, s.SaveEmployee(context.Background(), "u1", reports.Employee{
		Code: "P100", Name: "Alex Mercer", Category: "Partner",
	}))

	emp, err := s.Resolve(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Partner", emp.Category)
}
