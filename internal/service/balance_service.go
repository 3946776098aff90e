package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tallyup/tallyup/internal/apperr"
	"github.com/tallyup/tallyup/internal/calculator"
	"github.com/tallyup/tallyup/internal/models"
	"github.com/tallyup/tallyup/internal/storage"
)

// BalanceService aggregates settlements across every expense a user
// participates in, independent of group membership, into directional
// balance lines and a two-number summary.
type BalanceService struct {
	store storage.Store
}

// NewBalanceService creates a BalanceService.
func NewBalanceService(store storage.Store) *BalanceService {
	return &BalanceService{store: store}
}

// ListBalances returns every nonzero remaining amount between the user and a
// counterparty, one line per qualifying (expense, counterparty) pair.
func (s *BalanceService) ListBalances(ctx context.Context, userID string) ([]models.BalanceLine, error) {
	ledgers, err := s.loadLedgers(ctx, userID)
	if err != nil {
		return nil, err
	}

	lines := calculator.BuildBalanceLines(userID, ledgers, s.displayNames(ctx, ledgers))
	return lines, nil
}

// Summary folds the user's balance lines into total owed and total owed-to.
// The two totals are independent; they are never netted per counterparty.
func (s *BalanceService) Summary(ctx context.Context, userID string) (*models.BalanceSummary, error) {
	lines, err := s.ListBalances(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := calculator.Summarize(lines)
	return &summary, nil
}

// loadLedgers gathers every expense where the user holds a share or is the
// payer, each with its full share and payment sets.
func (s *BalanceService) loadLedgers(ctx context.Context, userID string) ([]calculator.ExpenseLedger, error) {
	withShare, err := s.store.ListExpensesWithUserShare(ctx, userID)
	if err != nil {
		return nil, err
	}
	asPayer, err := s.store.ListExpensesByPayer(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var ledgers []calculator.ExpenseLedger
	for _, expense := range append(withShare, asPayer...) {
		if seen[expense.ID] {
			continue
		}
		seen[expense.ID] = true

		shares, err := s.store.ListSharesByExpense(ctx, expense.ID)
		if err != nil {
			return nil, err
		}
		payments, err := s.store.ListPayments(ctx, expense.ID)
		if err != nil {
			return nil, err
		}
		ledgers = append(ledgers, calculator.ExpenseLedger{
			Expense:  expense,
			Shares:   shares,
			Payments: payments,
		})
	}
	return ledgers, nil
}

// displayNames resolves user IDs appearing in the ledgers to display names.
// Lookup failures degrade to blank names; balances never fail over identity
// decoration.
func (s *BalanceService) displayNames(ctx context.Context, ledgers []calculator.ExpenseLedger) map[string]string {
	names := make(map[string]string)
	for _, l := range ledgers {
		ids := []string{l.Expense.PayerID}
		for _, sh := range l.Shares {
			ids = append(ids, sh.UserID)
		}
		for _, id := range ids {
			if id == "" {
				continue
			}
			if _, done := names[id]; done {
				continue
			}
			user, err := s.store.GetUser(ctx, id)
			if err != nil {
				if !errors.Is(err, apperr.ErrNotFound) {
					slog.Debug("failed to resolve user name", "user_id", id, "error", err)
				}
				names[id] = ""
				continue
			}
			names[id] = user.Name
		}
	}
	return names
}
