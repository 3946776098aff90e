package calculator

import (
	"testing"

	"github.com/tallyup/tallyup/internal/models"
)

func share(t *testing.T, userID, base string) models.ExpenseItemShare {
	t.Helper()
	s := models.ExpenseItemShare{UserID: userID}
	if base != "" {
		s.BaseValue = decPtr(t, base)
	}
	return s
}

func payment(t *testing.T, userID, amount string, status models.PaymentStatus) models.ExpensePayment {
	t.Helper()
	return models.ExpensePayment{UserID: userID, Amount: dec(t, amount), Status: status}
}

func TestOwed(t *testing.T) {
	shares := []models.ExpenseItemShare{
		share(t, "alice", "10.00"),
		share(t, "alice", "20.00"),
		share(t, "alice", ""), // unset share folds to zero
		share(t, "bob", "5.00"),
	}

	if got := Owed("alice", shares); !got.Equal(dec(t, "30.00")) {
		t.Errorf("Owed(alice) = %s, want 30.00", got)
	}
	if got := Owed("carol", shares); !got.IsZero() {
		t.Errorf("Owed(carol) = %s, want 0", got)
	}
}

func TestPaidCountsOnlyVerified(t *testing.T) {
	payments := []models.ExpensePayment{
		payment(t, "alice", "10.00", models.PaymentVerified),
		payment(t, "alice", "99.00", models.PaymentPending),
		payment(t, "alice", "99.00", models.PaymentRejected),
		payment(t, "bob", "5.00", models.PaymentVerified),
	}

	if got := Paid("alice", payments); !got.Equal(dec(t, "10.00")) {
		t.Errorf("Paid(alice) = %s, want 10.00", got)
	}
}

func TestComputeSettlement(t *testing.T) {
	tests := []struct {
		name          string
		shares        []models.ExpenseItemShare
		payments      []models.ExpensePayment
		wantOwed      string
		wantPaid      string
		wantRemaining string
		wantSettled   bool
	}{
		{
			name:          "fully paid is settled with zero remaining",
			shares:        []models.ExpenseItemShare{share(t, "u", "50.00")},
			payments:      []models.ExpensePayment{payment(t, "u", "50.00", models.PaymentVerified)},
			wantOwed:      "50.00",
			wantPaid:      "50.00",
			wantRemaining: "0.00",
			wantSettled:   true,
		},
		{
			name:          "partial payment leaves remaining",
			shares:        []models.ExpenseItemShare{share(t, "u", "50.00")},
			payments:      []models.ExpensePayment{payment(t, "u", "20.00", models.PaymentVerified)},
			wantOwed:      "50.00",
			wantPaid:      "20.00",
			wantRemaining: "30.00",
			wantSettled:   false,
		},
		{
			name:          "overpayment clamps remaining at zero",
			shares:        []models.ExpenseItemShare{share(t, "u", "50.00")},
			payments:      []models.ExpensePayment{payment(t, "u", "70.00", models.PaymentVerified)},
			wantOwed:      "50.00",
			wantPaid:      "70.00",
			wantRemaining: "0.00",
			wantSettled:   true,
		},
		{
			name:          "no rows means trivially settled",
			wantOwed:      "0.00",
			wantPaid:      "0.00",
			wantRemaining: "0.00",
			wantSettled:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeSettlement("e1", "u", tt.shares, tt.payments)
			if got.Owed.StringFixed(2) != tt.wantOwed {
				t.Errorf("Owed = %s, want %s", got.Owed, tt.wantOwed)
			}
			if got.Paid.StringFixed(2) != tt.wantPaid {
				t.Errorf("Paid = %s, want %s", got.Paid, tt.wantPaid)
			}
			if got.Remaining.StringFixed(2) != tt.wantRemaining {
				t.Errorf("Remaining = %s, want %s", got.Remaining, tt.wantRemaining)
			}
			if got.Settled != tt.wantSettled {
				t.Errorf("Settled = %v, want %v", got.Settled, tt.wantSettled)
			}
		})
	}
}

func TestBuildSettlementsParticipantUniverse(t *testing.T) {
	shares := []models.ExpenseItemShare{
		share(t, "carol", "10.00"),
		share(t, "alice", "20.00"),
	}
	payments := []models.ExpensePayment{
		// Verified payer without a share still appears.
		payment(t, "bob", "15.00", models.PaymentVerified),
		// Pending payer without a share does not.
		payment(t, "dave", "15.00", models.PaymentPending),
	}

	settlements := BuildSettlements("e1", shares, payments)

	var users []string
	for _, s := range settlements {
		users = append(users, s.UserID)
	}
	want := []string{"alice", "bob", "carol"}
	if len(users) != len(want) {
		t.Fatalf("got participants %v, want %v", users, want)
	}
	for i := range want {
		if users[i] != want[i] {
			t.Fatalf("got participants %v, want %v (ordered by user id)", users, want)
		}
	}

	// Bob overpaid with no share: owed 0, settled, remaining 0.
	bob := settlements[1]
	if !bob.Owed.IsZero() || !bob.Paid.Equal(dec(t, "15.00")) || !bob.Settled {
		t.Errorf("bob settlement = %+v, want owed=0 paid=15.00 settled", bob)
	}
}
