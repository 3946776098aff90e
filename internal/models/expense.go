package models

import "github.com/shopspring/decimal"

// Expense is a group expense paid by one user, broken into line items.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group the expense belongs to.
	GroupID string

	// PayerID is the user who paid the expense. An expense without a payer
	// never participates in balance computations.
	PayerID string

	// Amount is the headline amount of the expense in the base currency.
	Amount decimal.Decimal

	// RateSnapshot is an optional frozen JSON rate table captured when the
	// expense was recorded. When present and well formed it takes priority
	// over live rates; parsing happens at computation time, not on write.
	RateSnapshot string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// ExpenseItem is a single line item of an expense, with its own amount and
// currency. Items in a foreign currency are converted to base via the
// expense's resolved rate table.
type ExpenseItem struct {
	// ID is the unique identifier for the item (UUID format).
	ID string

	// ExpenseID is the expense the item belongs to.
	ExpenseID string

	// Name describes the item.
	Name string

	// Amount is the item's amount in Currency.
	Amount decimal.Decimal

	// Currency is the item's 3-letter currency code. Blank or malformed
	// codes are resolved to the base currency on write.
	Currency string
}
