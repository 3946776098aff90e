// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tallyup/tallyup/internal/models"
)

// Store defines the interface for expense graph storage.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
//
// The settlement engine only reads through this interface, except for the
// derived value/base-value fields on shares, which it writes back when
// (re)computed.
type Store interface {
	// CreateUser persists a new user, assigning an ID if unset.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, userID string) (*models.User, error)

	// CreateGroup persists a new group with its members.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by ID, including member IDs.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// CreateExpense persists a new expense, assigning ID and CreatedAt
	// if unset.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense by ID.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// DeleteExpense removes an expense and, through ownership, its items,
	// shares and payments.
	DeleteExpense(ctx context.Context, expenseID string) error

	// ListExpensesWithUserShare returns every expense in which the user
	// holds at least one item share, regardless of group membership.
	ListExpensesWithUserShare(ctx context.Context, userID string) ([]models.Expense, error)

	// ListExpensesByPayer returns every expense the user paid for.
	ListExpensesByPayer(ctx context.Context, userID string) ([]models.Expense, error)

	// CreateItem persists a new line item.
	CreateItem(ctx context.Context, item *models.ExpenseItem) error

	// GetItem retrieves an item by ID.
	GetItem(ctx context.Context, itemID string) (*models.ExpenseItem, error)

	// UpdateItem updates an item's name, amount and currency.
	UpdateItem(ctx context.Context, item *models.ExpenseItem) error

	// DeleteItem removes an item and its shares.
	DeleteItem(ctx context.Context, itemID string) error

	// ListItems returns all items of an expense.
	ListItems(ctx context.Context, expenseID string) ([]models.ExpenseItem, error)

	// CreateShare persists a new item share with its derived values.
	CreateShare(ctx context.Context, share *models.ExpenseItemShare) error

	// GetShare retrieves a share by ID.
	GetShare(ctx context.Context, shareID string) (*models.ExpenseItemShare, error)

	// UpdateShareValues writes back a share's declared percent and derived
	// original/base values after (re)computation.
	UpdateShareValues(ctx context.Context, shareID string, percent, value, baseValue *decimal.Decimal) error

	// DeleteShare removes a share.
	DeleteShare(ctx context.Context, shareID string) error

	// ListSharesByItem returns all shares of one item.
	ListSharesByItem(ctx context.Context, itemID string) ([]models.ExpenseItemShare, error)

	// ListSharesByExpense returns all shares across all items of an expense.
	ListSharesByExpense(ctx context.Context, expenseID string) ([]models.ExpenseItemShare, error)

	// CreatePayment persists a new payment, assigning ID and CreatedAt if
	// unset.
	CreatePayment(ctx context.Context, payment *models.ExpensePayment) error

	// GetPayment retrieves a payment by ID.
	GetPayment(ctx context.Context, paymentID string) (*models.ExpensePayment, error)

	// UpdatePaymentStatus sets a payment's verification status.
	UpdatePaymentStatus(ctx context.Context, paymentID string, status models.PaymentStatus) error

	// AttachReceipt sets a payment's receipt reference.
	AttachReceipt(ctx context.Context, paymentID, receiptRef string) error

	// HasReceipt reports whether any payment on the expense already
	// carries the given receipt reference.
	HasReceipt(ctx context.Context, expenseID, receiptRef string) (bool, error)

	// ListPayments returns all payments toward an expense.
	ListPayments(ctx context.Context, expenseID string) ([]models.ExpensePayment, error)

	// Close releases any resources held by the store.
	Close() error
}
