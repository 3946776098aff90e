package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/tallyup/tallyup/internal/models"
)

// ExpenseLedger bundles one expense with every share and payment recorded
// against it. It is the unit of input for balance aggregation.
type ExpenseLedger struct {
	Expense  models.Expense
	Shares   []models.ExpenseItemShare
	Payments []models.ExpensePayment
}

// BuildBalanceLines runs the two directional scans for a user across the
// given ledgers:
//
//  1. Expenses where the user holds a share but is not the payer produce a
//     "you owe" line toward the payer, valued at the user's share total
//     minus the user's verified payments.
//  2. Expenses where the user is the payer produce one "owed to you" line
//     per distinct other share holder, valued symmetrically.
//
// Only strictly positive remainders emit lines; zero or negative remainders
// are dropped, never emitted as zero-value lines. Names maps user IDs to
// display names for the counterparty fields; missing entries are fine.
func BuildBalanceLines(userID string, ledgers []ExpenseLedger, names map[string]string) []models.BalanceLine {
	var lines []models.BalanceLine

	for _, l := range ledgers {
		exp := l.Expense
		if exp.PayerID == userID {
			for _, debtor := range shareHolders(l.Shares) {
				if debtor == userID {
					continue
				}
				if rem, ok := remaining(debtor, l); ok {
					lines = append(lines, models.BalanceLine{
						Direction:        models.OwedToUser,
						CounterpartyID:   debtor,
						CounterpartyName: names[debtor],
						GroupID:          exp.GroupID,
						ExpenseID:        exp.ID,
						Amount:           rem,
					})
				}
			}
			continue
		}

		// Balances need a creditor; an expense without a payer cannot
		// produce one.
		if exp.PayerID == "" || !holdsShare(userID, l.Shares) {
			continue
		}
		if rem, ok := remaining(userID, l); ok {
			lines = append(lines, models.BalanceLine{
				Direction:        models.OwedByUser,
				CounterpartyID:   exp.PayerID,
				CounterpartyName: names[exp.PayerID],
				GroupID:          exp.GroupID,
				ExpenseID:        exp.ID,
				Amount:           rem,
			})
		}
	}

	return lines
}

// Summarize folds balance lines into the two independent totals. Amounts
// owed and owed-to are never netted against each other, even for the same
// counterparty.
func Summarize(lines []models.BalanceLine) models.BalanceSummary {
	summary := models.BalanceSummary{
		TotalOwedByUser: decimal.Zero,
		TotalOwedToUser: decimal.Zero,
	}
	for _, l := range lines {
		switch l.Direction {
		case models.OwedByUser:
			summary.TotalOwedByUser = summary.TotalOwedByUser.Add(l.Amount)
		case models.OwedToUser:
			summary.TotalOwedToUser = summary.TotalOwedToUser.Add(l.Amount)
		}
	}
	return summary
}

// remaining computes a participant's share total minus verified payments for
// one ledger, reporting ok only when strictly positive.
func remaining(userID string, l ExpenseLedger) (decimal.Decimal, bool) {
	rem := Owed(userID, l.Shares).Sub(Paid(userID, l.Payments))
	return rem, rem.IsPositive()
}

// shareHolders returns the sorted distinct users holding at least one share.
func shareHolders(shares []models.ExpenseItemShare) []string {
	seen := make(map[string]bool)
	for _, s := range shares {
		seen[s.UserID] = true
	}
	holders := make([]string, 0, len(seen))
	for u := range seen {
		holders = append(holders, u)
	}
	sort.Strings(holders)
	return holders
}

// holdsShare reports whether the user has at least one share in the slice.
func holdsShare(userID string, shares []models.ExpenseItemShare) bool {
	for _, s := range shares {
		if s.UserID == userID {
			return true
		}
	}
	return false
}
