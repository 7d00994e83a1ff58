package finance

import (
	"sort"
	"time"

	"github.com/tallyhq/tally/internal/model"
)

// BuildLedger produces a cash-flow ledger for [start, end]. The opening
// balance is the running balance as of the range start; each row applies one
// transaction's signed amount in chronological order. The input slice is
// copied before sorting, so same-day transactions keep their input order and
// the caller's snapshot is never reordered.
func BuildLedger(transactions []model.Transaction, start, end time.Time) Ledger {
	var inPeriod []model.Transaction
	for _, t := range transactions {
		if inRange(t.Date, start, end) {
			inPeriod = append(inPeriod, t)
		}
	}
	sort.SliceStable(inPeriod, func(i, j int) bool {
		return inPeriod[i].Date.Before(inPeriod[j].Date)
	})

	opening := RunningBalance(transactions, start)
	balance := opening

	rows := make([]LedgerRow, 0, len(inPeriod))
	for _, t := range inPeriod {
		balance = balance.Add(t.SignedAmount())
		rows = append(rows, LedgerRow{Transaction: t, Balance: balance})
	}

	return Ledger{
		Rows:           rows,
		OpeningBalance: opening,
		ClosingBalance: balance,
		NetChange:      balance.Sub(opening),
	}
}
