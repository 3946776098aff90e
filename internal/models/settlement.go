package models

import "github.com/shopspring/decimal"

// Settlement is the computed (owed, paid, remaining, settled) tuple for one
// user on one expense. It is derived on every read, never persisted.
type Settlement struct {
	// ExpenseID is the expense the settlement applies to.
	ExpenseID string

	// UserID is the participant the settlement applies to.
	UserID string

	// Owed is the sum of the user's base-currency share values across
	// the expense's items, at 2-decimal money scale.
	Owed decimal.Decimal

	// Paid is the sum of the user's verified payments toward the expense.
	Paid decimal.Decimal

	// Remaining is max(0, Owed - Paid).
	Remaining decimal.Decimal

	// Settled is true when Paid >= Owed.
	Settled bool
}
