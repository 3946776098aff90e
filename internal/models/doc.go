// Package models defines the core domain models for Tallyup.
//
// # Persisted models
//
//   - Expense: a group expense paid by one user, broken into line items
//   - ExpenseItem: a single line item with its own amount and currency
//   - ExpenseItemShare: one participant's allocated portion of an item
//   - ExpensePayment: a payment made toward an expense, with a status
//   - User, Group: identity and grouping records
//
// # Computed models
//
// Settlement, BalanceLine and BalanceSummary are derived on every read from
// the persisted graph. They are never stored: any mutation to an item, share
// or payment changes the result of the next computation.
//
// # Design principles
//
//  1. Monetary values use decimal.Decimal, never float64
//  2. Relationships use ID strings instead of pointers to avoid cycles
//  3. Optional monetary fields are *decimal.Decimal so "absent" is
//     distinguishable from zero
package models
