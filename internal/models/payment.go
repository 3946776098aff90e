package models

import "github.com/shopspring/decimal"

// PaymentStatus is the verification state of a payment.
type PaymentStatus string

const (
	// PaymentPending is the initial state. Pending payments carry no
	// settlement weight.
	PaymentPending PaymentStatus = "PENDING"

	// PaymentVerified payments count toward settlement.
	PaymentVerified PaymentStatus = "VERIFIED"

	// PaymentRejected payments are kept for the record but never count.
	PaymentRejected PaymentStatus = "REJECTED"
)

// Valid reports whether the status is one of the known states.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentVerified, PaymentRejected:
		return true
	}
	return false
}

// ExpensePayment is a payment made by a user toward an expense.
type ExpensePayment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	// ExpenseID is the expense the payment goes toward.
	ExpenseID string

	// UserID is the user who made the payment.
	UserID string

	// Amount is the payment amount in the base currency, always positive.
	Amount decimal.Decimal

	// Status is the verification state. Only verified payments reduce what
	// a participant owes.
	Status PaymentStatus

	// ReceiptRef is an optional receipt reference, unique per expense.
	ReceiptRef string

	// CreatedAt is the Unix timestamp when the payment was recorded.
	CreatedAt int64
}
