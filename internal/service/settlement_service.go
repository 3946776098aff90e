package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tallyup/tallyup/internal/calculator"
	"github.com/tallyup/tallyup/internal/models"
	"github.com/tallyup/tallyup/internal/storage"
)

// SettlementService computes per-expense settlements. Everything is derived
// on each call from the stored shares and payments; there is no cached
// settlement state.
type SettlementService struct {
	store storage.Store
}

// NewSettlementService creates a SettlementService.
func NewSettlementService(store storage.Store) *SettlementService {
	return &SettlementService{store: store}
}

// Owed returns the sum of the user's base-currency share values across the
// expense, at 2-decimal money scale. Zero when the user holds no shares.
func (s *SettlementService) Owed(ctx context.Context, expenseID, userID string) (decimal.Decimal, error) {
	shares, _, err := s.loadLedger(ctx, expenseID)
	if err != nil {
		return decimal.Zero, err
	}
	return calculator.Owed(userID, shares), nil
}

// Paid returns the sum of the user's verified payments toward the expense.
func (s *SettlementService) Paid(ctx context.Context, expenseID, userID string) (decimal.Decimal, error) {
	_, payments, err := s.loadLedger(ctx, expenseID)
	if err != nil {
		return decimal.Zero, err
	}
	return calculator.Paid(userID, payments), nil
}

// Settlement returns the (owed, paid, remaining, settled) tuple for one
// user on one expense. A user with no shares and no payments is trivially
// settled with owed=paid=0.
func (s *SettlementService) Settlement(ctx context.Context, expenseID, userID string) (*models.Settlement, error) {
	shares, payments, err := s.loadLedger(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	settlement := calculator.ComputeSettlement(expenseID, userID, shares, payments)
	return &settlement, nil
}

// AllSettlements returns settlements for every participant of the expense:
// the union of share holders and verified payers, ordered by user ID.
func (s *SettlementService) AllSettlements(ctx context.Context, expenseID string) ([]models.Settlement, error) {
	shares, payments, err := s.loadLedger(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	return calculator.BuildSettlements(expenseID, shares, payments), nil
}

// loadLedger verifies the expense exists and loads its shares and payments.
func (s *SettlementService) loadLedger(ctx context.Context, expenseID string) ([]models.ExpenseItemShare, []models.ExpensePayment, error) {
	if _, err := s.store.GetExpense(ctx, expenseID); err != nil {
		return nil, nil, err
	}
	shares, err := s.store.ListSharesByExpense(ctx, expenseID)
	if err != nil {
		return nil, nil, err
	}
	payments, err := s.store.ListPayments(ctx, expenseID)
	if err != nil {
		return nil, nil, err
	}
	return shares, payments, nil
}
