package models

import "github.com/shopspring/decimal"

// ExpenseItemShare is one participant's allocated portion of an item.
//
// Percent is the declared input when the share was given as a percentage of
// the item amount; Value and BaseValue are derived and rewritten on every
// (re)allocation. A share created from a fixed value has a nil Percent.
type ExpenseItemShare struct {
	// ID is the unique identifier for the share (UUID format).
	ID string

	// ItemID is the item the share applies to.
	ItemID string

	// UserID is the participant holding the share.
	UserID string

	// Percent is the declared percentage of the item amount, nil for
	// fixed-value shares. Range 0 to 100 inclusive.
	Percent *decimal.Decimal

	// Value is the share amount in the item's currency, at 2-decimal scale.
	Value *decimal.Decimal

	// BaseValue is Value converted to the base currency, at 6-decimal scale.
	BaseValue *decimal.Decimal
}
