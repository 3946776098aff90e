package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/tallyup/tallyup/internal/models"
)

// Owed sums a user's base-currency share values across the given shares.
// A nil base value contributes zero: the share is unset or in progress,
// not an error. The result is at 2-decimal money scale.
func Owed(userID string, shares []models.ExpenseItemShare) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range shares {
		if s.UserID != userID || s.BaseValue == nil {
			continue
		}
		sum = sum.Add(*s.BaseValue)
	}
	return sum.Round(moneyScale)
}

// Paid sums a user's verified payments. Pending and rejected payments carry
// no settlement weight.
func Paid(userID string, payments []models.ExpensePayment) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range payments {
		if p.UserID != userID || p.Status != models.PaymentVerified {
			continue
		}
		sum = sum.Add(p.Amount)
	}
	return sum.Round(moneyScale)
}

// ComputeSettlement derives the settlement tuple for one (expense, user)
// pair. With no shares and no payments the user is trivially settled with
// owed=paid=0.
func ComputeSettlement(expenseID, userID string, shares []models.ExpenseItemShare, payments []models.ExpensePayment) models.Settlement {
	owed := Owed(userID, shares)
	paid := Paid(userID, payments)

	remaining := owed.Sub(paid)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	return models.Settlement{
		ExpenseID: expenseID,
		UserID:    userID,
		Owed:      owed,
		Paid:      paid,
		Remaining: remaining,
		Settled:   paid.GreaterThanOrEqual(owed),
	}
}

// BuildSettlements computes settlements for every participant of an expense.
//
// The participant universe is the union of share holders and verified payers,
// so a user who overpays without a formal share still appears. Results are
// ordered by user ID ascending for determinism.
func BuildSettlements(expenseID string, shares []models.ExpenseItemShare, payments []models.ExpensePayment) []models.Settlement {
	users := participantUniverse(shares, payments)

	settlements := make([]models.Settlement, 0, len(users))
	for _, u := range users {
		settlements = append(settlements, ComputeSettlement(expenseID, u, shares, payments))
	}
	return settlements
}

// participantUniverse returns the sorted union of share holders and verified
// payers.
func participantUniverse(shares []models.ExpenseItemShare, payments []models.ExpensePayment) []string {
	seen := make(map[string]bool)
	for _, s := range shares {
		seen[s.UserID] = true
	}
	for _, p := range payments {
		if p.Status == models.PaymentVerified {
			seen[p.UserID] = true
		}
	}

	users := make([]string, 0, len(seen))
	for u := range seen {
		users = append(users, u)
	}
	sort.Strings(users)
	return users
}
