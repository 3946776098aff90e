// Package service orchestrates storage, rate resolution and the settlement
// math behind the engine's public operations. Services hold no state beyond
// their collaborators; every result is recomputed from the stored graph on
// each call.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/tallyup/tallyup/internal/apperr"
	"github.com/tallyup/tallyup/internal/calculator"
	"github.com/tallyup/tallyup/internal/currency"
	"github.com/tallyup/tallyup/internal/models"
	"github.com/tallyup/tallyup/internal/storage"
)

// ExpenseService manages the expense graph: expenses, items, shares and
// payments. Share mutations recompute the derived original/base values
// against the current item amount and the expense's resolved rates.
type ExpenseService struct {
	store storage.Store
	norm  *currency.Normalizer
}

// NewExpenseService creates an ExpenseService.
func NewExpenseService(store storage.Store, norm *currency.Normalizer) *ExpenseService {
	return &ExpenseService{store: store, norm: norm}
}

// CreateExpense records a new expense. The group and payer must exist.
// rateSnapshot is an optional frozen JSON rate table; it is stored as given
// and validated lazily at computation time.
func (s *ExpenseService) CreateExpense(ctx context.Context, groupID, payerID string, amount decimal.Decimal, rateSnapshot string) (*models.Expense, error) {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetUser(ctx, payerID); err != nil {
		return nil, err
	}

	expense := &models.Expense{
		GroupID:      groupID,
		PayerID:      payerID,
		Amount:       amount.Round(2),
		RateSnapshot: rateSnapshot,
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, err
	}
	slog.Info("expense created", "expense_id", expense.ID, "group_id", groupID, "payer_id", payerID)
	return expense, nil
}

// GetExpense retrieves an expense by ID.
func (s *ExpenseService) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	return s.store.GetExpense(ctx, expenseID)
}

// DeleteExpense removes an expense with its items, shares and payments.
func (s *ExpenseService) DeleteExpense(ctx context.Context, expenseID string) error {
	return s.store.DeleteExpense(ctx, expenseID)
}

// AddItem adds a line item to an expense. Blank or malformed currency codes
// are stored as the base currency.
func (s *ExpenseService) AddItem(ctx context.Context, expenseID, name string, amount decimal.Decimal, currencyCode string) (*models.ExpenseItem, error) {
	if _, err := s.store.GetExpense(ctx, expenseID); err != nil {
		return nil, err
	}

	item := &models.ExpenseItem{
		ExpenseID: expenseID,
		Name:      name,
		Amount:    amount.Round(2),
		Currency:  s.norm.ResolveCode(currencyCode),
	}
	if err := s.store.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// ListItems returns all items of an expense.
func (s *ExpenseService) ListItems(ctx context.Context, expenseID string) ([]models.ExpenseItem, error) {
	if _, err := s.store.GetExpense(ctx, expenseID); err != nil {
		return nil, err
	}
	return s.store.ListItems(ctx, expenseID)
}

// UpdateItem updates an item and reallocates every share on it, since both
// percent shares (item amount changed) and value shares (currency changed)
// depend on the item.
func (s *ExpenseService) UpdateItem(ctx context.Context, expenseID, itemID, name string, amount decimal.Decimal, currencyCode string) (*models.ExpenseItem, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	item, err := s.itemInExpense(ctx, expenseID, itemID)
	if err != nil {
		return nil, err
	}

	item.Name = name
	item.Amount = amount.Round(2)
	item.Currency = s.norm.ResolveCode(currencyCode)
	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	if err := s.reallocateItemShares(ctx, expense, item); err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveItem deletes an item from an expense; its shares go with it.
func (s *ExpenseService) RemoveItem(ctx context.Context, expenseID, itemID string) error {
	if _, err := s.itemInExpense(ctx, expenseID, itemID); err != nil {
		return err
	}
	return s.store.DeleteItem(ctx, itemID)
}

// AddShare allocates a portion of an item to a participant. Exactly one of
// value or percent is required; when both are given percent wins, matching
// the update policy.
func (s *ExpenseService) AddShare(ctx context.Context, expenseID, itemID, userID string, value, percent *decimal.Decimal) (*models.ExpenseItemShare, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	item, err := s.itemInExpense(ctx, expenseID, itemID)
	if err != nil {
		return nil, err
	}

	rates := s.norm.RatesToBase(ctx, expense)
	original, base, err := calculator.AllocateShare(item, value, percent, s.norm, rates)
	if err != nil {
		return nil, err
	}

	share := &models.ExpenseItemShare{
		ItemID:    itemID,
		UserID:    userID,
		Value:     original,
		BaseValue: base,
	}
	if percent != nil {
		p := percent.Round(2)
		share.Percent = &p
	}
	if err := s.store.CreateShare(ctx, share); err != nil {
		return nil, err
	}
	return share, nil
}

// UpdateShare recomputes a share from a new value or percentage against the
// current item amount and current rates. Stale base amounts are never reused.
func (s *ExpenseService) UpdateShare(ctx context.Context, expenseID, itemID, shareID string, value, percent *decimal.Decimal) (*models.ExpenseItemShare, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	item, err := s.itemInExpense(ctx, expenseID, itemID)
	if err != nil {
		return nil, err
	}
	share, err := s.shareInItem(ctx, itemID, shareID)
	if err != nil {
		return nil, err
	}

	rates := s.norm.RatesToBase(ctx, expense)
	original, base, err := calculator.AllocateShare(item, value, percent, s.norm, rates)
	if err != nil {
		return nil, err
	}

	// Percent is authoritative when both inputs are present; a pure value
	// update clears any previously declared percentage.
	share.Percent = nil
	if percent != nil {
		p := percent.Round(2)
		share.Percent = &p
	}
	share.Value = original
	share.BaseValue = base

	if err := s.store.UpdateShareValues(ctx, shareID, share.Percent, share.Value, share.BaseValue); err != nil {
		return nil, err
	}
	return share, nil
}

// RecomputeShare re-derives a share's stored values from its declared input,
// without new input. A share whose owning item has disappeared is a broken
// referential invariant and reported as an internal inconsistency, distinct
// from not-found.
func (s *ExpenseService) RecomputeShare(ctx context.Context, expenseID, shareID string) (*models.ExpenseItemShare, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	share, err := s.store.GetShare(ctx, shareID)
	if err != nil {
		return nil, err
	}

	item, err := s.store.GetItem(ctx, share.ItemID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.Internal("share %s references missing item %s", shareID, share.ItemID)
	}
	if err != nil {
		return nil, err
	}
	if item.ExpenseID != expenseID {
		return nil, apperr.NotFound("share %s not found in expense %s", shareID, expenseID)
	}

	rates := s.norm.RatesToBase(ctx, expense)
	original, base, err := calculator.AllocateShare(item, share.Value, share.Percent, s.norm, rates)
	if err != nil {
		return nil, err
	}
	share.Value = original
	share.BaseValue = base
	if err := s.store.UpdateShareValues(ctx, shareID, share.Percent, share.Value, share.BaseValue); err != nil {
		return nil, err
	}
	return share, nil
}

// RemoveShare deletes a share from an item.
func (s *ExpenseService) RemoveShare(ctx context.Context, expenseID, itemID, shareID string) error {
	if _, err := s.itemInExpense(ctx, expenseID, itemID); err != nil {
		return err
	}
	if _, err := s.shareInItem(ctx, itemID, shareID); err != nil {
		return err
	}
	return s.store.DeleteShare(ctx, shareID)
}

// AddPayment records a payment toward an expense. Payments start PENDING and
// carry no settlement weight until verified. The amount must be positive.
func (s *ExpenseService) AddPayment(ctx context.Context, expenseID, userID string, amount decimal.Decimal, receiptRef string) (*models.ExpensePayment, error) {
	if _, err := s.store.GetExpense(ctx, expenseID); err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, apperr.BadInput("payment on expense %s: amount %s must be positive", expenseID, amount)
	}
	if receiptRef != "" {
		taken, err := s.store.HasReceipt(ctx, expenseID, receiptRef)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Conflict("expense %s already has a payment with receipt %s", expenseID, receiptRef)
		}
	}

	payment := &models.ExpensePayment{
		ExpenseID:  expenseID,
		UserID:     userID,
		Amount:     amount.Round(2),
		Status:     models.PaymentPending,
		ReceiptRef: receiptRef,
	}
	if err := s.store.CreatePayment(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// SetPaymentStatus moves a payment to the given verification status.
func (s *ExpenseService) SetPaymentStatus(ctx context.Context, expenseID, paymentID string, status models.PaymentStatus) (*models.ExpensePayment, error) {
	if !status.Valid() {
		return nil, apperr.BadInput("unknown payment status %q", status)
	}
	payment, err := s.paymentInExpense(ctx, expenseID, paymentID)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdatePaymentStatus(ctx, paymentID, status); err != nil {
		return nil, err
	}
	payment.Status = status
	slog.Info("payment status changed", "payment_id", paymentID, "expense_id", expenseID, "status", status)
	return payment, nil
}

// AttachReceipt attaches a receipt reference to a payment. A reference may
// appear on at most one payment per expense.
func (s *ExpenseService) AttachReceipt(ctx context.Context, expenseID, paymentID, receiptRef string) error {
	if receiptRef == "" {
		return apperr.BadInput("payment %s: receipt reference must not be empty", paymentID)
	}
	if _, err := s.paymentInExpense(ctx, expenseID, paymentID); err != nil {
		return err
	}
	taken, err := s.store.HasReceipt(ctx, expenseID, receiptRef)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict("expense %s already has a payment with receipt %s", expenseID, receiptRef)
	}
	return s.store.AttachReceipt(ctx, paymentID, receiptRef)
}

// reallocateItemShares recomputes every share of an item from its declared
// input. Idempotent: identical inputs produce identical stored values.
func (s *ExpenseService) reallocateItemShares(ctx context.Context, expense *models.Expense, item *models.ExpenseItem) error {
	shares, err := s.store.ListSharesByItem(ctx, item.ID)
	if err != nil {
		return err
	}
	if len(shares) == 0 {
		return nil
	}

	rates := s.norm.RatesToBase(ctx, expense)
	for _, share := range shares {
		original, base, err := calculator.AllocateShare(item, share.Value, share.Percent, s.norm, rates)
		if err != nil {
			// A stored share with neither input is unset; leave it.
			if errors.Is(err, apperr.ErrBadInput) {
				continue
			}
			return err
		}
		if err := s.store.UpdateShareValues(ctx, share.ID, share.Percent, original, base); err != nil {
			return err
		}
	}
	return nil
}

// itemInExpense loads an item and verifies it belongs to the expense.
func (s *ExpenseService) itemInExpense(ctx context.Context, expenseID, itemID string) (*models.ExpenseItem, error) {
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.ExpenseID != expenseID {
		return nil, apperr.NotFound("item %s not found in expense %s", itemID, expenseID)
	}
	return item, nil
}

// shareInItem loads a share and verifies it belongs to the item.
func (s *ExpenseService) shareInItem(ctx context.Context, itemID, shareID string) (*models.ExpenseItemShare, error) {
	share, err := s.store.GetShare(ctx, shareID)
	if err != nil {
		return nil, err
	}
	if share.ItemID != itemID {
		return nil, apperr.NotFound("share %s not found in item %s", shareID, itemID)
	}
	return share, nil
}

// paymentInExpense loads a payment and verifies it belongs to the expense.
func (s *ExpenseService) paymentInExpense(ctx context.Context, expenseID, paymentID string) (*models.ExpensePayment, error) {
	payment, err := s.store.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.ExpenseID != expenseID {
		return nil, apperr.NotFound("payment %s not found in expense %s", paymentID, expenseID)
	}
	return payment, nil
}
