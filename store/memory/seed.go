package memory

import (
	"time"

	"github.com/arden/practice-engine/reports"
)

// Seed loads a small demo book: one partner with a year of WIP activity,
// billings, and collections. Enough to render a non-empty overview
// without a real feed.
func Seed(s *Store, today time.Time) {
	s.AddEmployee("demo-partner", reports.Employee{
		Code:     "P100",
		Name:     "Alex Mercer",
		Category: "Partner",
	})
	s.AddEmployee("demo-manager", reports.Employee{
		Code:     "M200",
		Name:     "Sam Okafor",
		Category: "Manager",
	})

	start := today.AddDate(-1, 0, 0)
	for i := 0; i < 12; i++ {
		date := start.AddDate(0, i, 0)
		month := date.Format("2006-01")

		s.Add(LedgerWIP, tx("wip-time-"+month, "TIME", "", "12000", "7000", date, "TSK-1"))
		s.Add(LedgerWIP, tx("wip-disb-"+month, "DISB", "", "800", "800", date, "TSK-1"))
		if i%3 == 2 {
			s.Add(LedgerWIP, tx("wip-fee-"+month, "FEE", "", "30000", "0", date, "TSK-1"))
			s.Add(LedgerWIP, tx("wip-adj-"+month, "ADJ", "Time write off", "-1500", "0", date, "TSK-1"))
			s.Add(LedgerBillings, tx("bill-"+month, "INV", "", "30000", "0", date, "TSK-1"))
			s.Add(LedgerDebtors, tx("ar-inv-"+month, "INV", "", "30000", "0", date, "TSK-1"))
		}
		if i%3 == 0 && i > 0 {
			s.Add(LedgerCollections, tx("coll-"+month, "REC", "", "28000", "0", date, "TSK-1"))
			s.Add(LedgerDebtors, tx("ar-rec-"+month, "REC", "", "-28000", "0", date, "TSK-1"))
		}
	}
}

func tx(id, typeCode, subType, amount, cost string, date time.Time, taskCode string) reports.LedgerTransaction {
	return reports.LedgerTransaction{
		ID:                id,
		Amount:            reports.MustParseDecimal(amount),
		Cost:              reports.MustParseDecimal(cost),
		TypeCode:          typeCode,
		SubTypeDescriptor: subType,
		TransactionDate:   date,
		OwnerCode:         "P100",
		TaskCode:          taskCode,
		ServiceLine:       "AUDIT",
	}
}
