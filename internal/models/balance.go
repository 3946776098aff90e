package models

import "github.com/shopspring/decimal"

// BalanceDirection says which way money flows on a balance line.
type BalanceDirection string

const (
	// OwedByUser means the user owes the counterparty.
	OwedByUser BalanceDirection = "OWED_BY_USER"

	// OwedToUser means the counterparty owes the user.
	OwedToUser BalanceDirection = "OWED_TO_USER"
)

// BalanceLine is one directional, nonzero remaining amount between a user
// and a counterparty, scoped to a single expense.
type BalanceLine struct {
	// Direction says whether the user owes or is owed.
	Direction BalanceDirection

	// CounterpartyID is the other user on the line: the expense payer for
	// OwedByUser lines, the debtor for OwedToUser lines.
	CounterpartyID string

	// CounterpartyName is the counterparty's display name, when known.
	CounterpartyName string

	// GroupID and ExpenseID give the context the debt arose in.
	GroupID   string
	ExpenseID string

	// Amount is the positive remaining amount. Zero or negative remainders
	// never produce a line.
	Amount decimal.Decimal
}

// BalanceSummary is the two-number rollup of a user's balance lines.
// The totals are independent: amounts owed and amounts due from the same
// counterparty across different expenses are not netted against each other.
type BalanceSummary struct {
	// TotalOwedByUser is the sum of remaining amounts the user owes others.
	TotalOwedByUser decimal.Decimal

	// TotalOwedToUser is the sum of remaining amounts others owe the user.
	TotalOwedToUser decimal.Decimal
}
