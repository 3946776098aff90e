package calculator

import (
	"testing"

	"github.com/tallyup/tallyup/internal/models"
)

// ledger builds an ExpenseLedger for one expense paid by payerID.
func ledger(expenseID, groupID, payerID string, shares []models.ExpenseItemShare, payments []models.ExpensePayment) ExpenseLedger {
	return ExpenseLedger{
		Expense:  models.Expense{ID: expenseID, GroupID: groupID, PayerID: payerID},
		Shares:   shares,
		Payments: payments,
	}
}

func TestBuildBalanceLinesSymmetry(t *testing.T) {
	// Alice paid, Bob holds a 30.00 share with nothing paid back.
	ledgers := []ExpenseLedger{
		ledger("e1", "g1", "alice",
			[]models.ExpenseItemShare{share(t, "bob", "30.00")},
			nil,
		),
	}
	names := map[string]string{"alice": "Alice", "bob": "Bob"}

	bobLines := BuildBalanceLines("bob", ledgers, names)
	if len(bobLines) != 1 {
		t.Fatalf("bob lines = %d, want 1", len(bobLines))
	}
	got := bobLines[0]
	if got.Direction != models.OwedByUser || got.CounterpartyID != "alice" || !got.Amount.Equal(dec(t, "30.00")) {
		t.Errorf("bob line = %+v, want owes alice 30.00", got)
	}
	if got.CounterpartyName != "Alice" || got.GroupID != "g1" || got.ExpenseID != "e1" {
		t.Errorf("bob line context = %+v", got)
	}

	aliceLines := BuildBalanceLines("alice", ledgers, names)
	if len(aliceLines) != 1 {
		t.Fatalf("alice lines = %d, want 1", len(aliceLines))
	}
	got = aliceLines[0]
	if got.Direction != models.OwedToUser || got.CounterpartyID != "bob" || !got.Amount.Equal(dec(t, "30.00")) {
		t.Errorf("alice line = %+v, want owed 30.00 by bob", got)
	}
}

func TestBuildBalanceLinesDropsSettled(t *testing.T) {
	ledgers := []ExpenseLedger{
		ledger("e1", "g1", "alice",
			[]models.ExpenseItemShare{share(t, "bob", "30.00")},
			[]models.ExpensePayment{payment(t, "bob", "30.00", models.PaymentVerified)},
		),
	}

	if lines := BuildBalanceLines("bob", ledgers, nil); len(lines) != 0 {
		t.Errorf("settled debt emitted %d lines, want 0", len(lines))
	}
	if lines := BuildBalanceLines("alice", ledgers, nil); len(lines) != 0 {
		t.Errorf("settled credit emitted %d lines, want 0", len(lines))
	}
}

func TestBuildBalanceLinesPendingPaymentsCarryNoWeight(t *testing.T) {
	ledgers := []ExpenseLedger{
		ledger("e1", "g1", "alice",
			[]models.ExpenseItemShare{share(t, "bob", "30.00")},
			[]models.ExpensePayment{payment(t, "bob", "30.00", models.PaymentPending)},
		),
	}

	lines := BuildBalanceLines("bob", ledgers, nil)
	if len(lines) != 1 || !lines[0].Amount.Equal(dec(t, "30.00")) {
		t.Errorf("pending payment changed the balance: %+v", lines)
	}
}

func TestBuildBalanceLinesSkipsExpensesWithoutPayer(t *testing.T) {
	ledgers := []ExpenseLedger{
		ledger("e1", "g1", "",
			[]models.ExpenseItemShare{share(t, "bob", "30.00")},
			nil,
		),
	}
	if lines := BuildBalanceLines("bob", ledgers, nil); len(lines) != 0 {
		t.Errorf("payerless expense emitted %d lines, want 0", len(lines))
	}
}

func TestSummarizeDoesNotNetPerCounterparty(t *testing.T) {
	// Two expenses between the same pair in opposite directions: the
	// summary reports two separate totals, never one net figure.
	ledgers := []ExpenseLedger{
		ledger("e1", "g1", "alice",
			[]models.ExpenseItemShare{share(t, "bob", "30.00")},
			nil,
		),
		ledger("e2", "g1", "bob",
			[]models.ExpenseItemShare{share(t, "alice", "12.50")},
			nil,
		),
	}

	summary := Summarize(BuildBalanceLines("bob", ledgers, nil))
	if !summary.TotalOwedByUser.Equal(dec(t, "30.00")) {
		t.Errorf("TotalOwedByUser = %s, want 30.00", summary.TotalOwedByUser)
	}
	if !summary.TotalOwedToUser.Equal(dec(t, "12.50")) {
		t.Errorf("TotalOwedToUser = %s, want 12.50", summary.TotalOwedToUser)
	}
}

func TestBuildBalanceLinesMultipleDebtors(t *testing.T) {
	ledgers := []ExpenseLedger{
		ledger("e1", "g1", "alice",
			[]models.ExpenseItemShare{
				share(t, "bob", "10.00"),
				share(t, "carol", "20.00"),
				share(t, "alice", "15.00"), // payer's own share produces no line
			},
			[]models.ExpensePayment{payment(t, "carol", "5.00", models.PaymentVerified)},
		),
	}

	lines := BuildBalanceLines("alice", ledgers, nil)
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	// Debtors come out sorted.
	if lines[0].CounterpartyID != "bob" || !lines[0].Amount.Equal(dec(t, "10.00")) {
		t.Errorf("line[0] = %+v, want bob owing 10.00", lines[0])
	}
	if lines[1].CounterpartyID != "carol" || !lines[1].Amount.Equal(dec(t, "15.00")) {
		t.Errorf("line[1] = %+v, want carol owing 15.00", lines[1])
	}
}
