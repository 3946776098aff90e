package calculator

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tallyup/tallyup/internal/apperr"
	"github.com/tallyup/tallyup/internal/currency"
	"github.com/tallyup/tallyup/internal/models"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

func decPtr(t *testing.T, s string) *decimal.Decimal {
	d := dec(t, s)
	return &d
}

func TestAllocateShare(t *testing.T) {
	norm := currency.NewNormalizer("THB", nil)

	tests := []struct {
		name         string
		item         models.ExpenseItem
		value        *decimal.Decimal
		percent      *decimal.Decimal
		rates        map[string]decimal.Decimal
		wantErr      error
		wantOriginal string
		wantBase     string
	}{
		{
			name:         "fifty percent of 100 THB at rate 1",
			item:         models.ExpenseItem{ID: "i1", Amount: dec(t, "100.00"), Currency: "THB"},
			percent:      decPtr(t, "50"),
			rates:        map[string]decimal.Decimal{"THB": dec(t, "1")},
			wantOriginal: "50.00",
			wantBase:     "50.00",
		},
		{
			name:         "explicit USD value converted at 35.50",
			item:         models.ExpenseItem{ID: "i2", Amount: dec(t, "90.00"), Currency: "USD"},
			value:        decPtr(t, "30.00"),
			rates:        map[string]decimal.Decimal{"USD": dec(t, "35.50")},
			wantOriginal: "30.00",
			wantBase:     "1065.00",
		},
		{
			name:         "declared value is rounded half-up to 2 places",
			item:         models.ExpenseItem{ID: "i3", Amount: dec(t, "10.00"), Currency: "THB"},
			value:        decPtr(t, "3.335"),
			rates:        map[string]decimal.Decimal{"THB": dec(t, "1")},
			wantOriginal: "3.34",
			wantBase:     "3.34",
		},
		{
			name:         "percentage rounds half-up on the third decimal",
			item:         models.ExpenseItem{ID: "i4", Amount: dec(t, "10.01"), Currency: "THB"},
			percent:      decPtr(t, "33.5"),
			rates:        map[string]decimal.Decimal{"THB": dec(t, "1")},
			wantOriginal: "3.35", // 10.01 * 0.335 = 3.35335
			wantBase:     "3.35",
		},
		{
			name:         "percent wins when both inputs are supplied",
			item:         models.ExpenseItem{ID: "i5", Amount: dec(t, "40.00"), Currency: "THB"},
			value:        decPtr(t, "99.99"),
			percent:      decPtr(t, "25"),
			rates:        map[string]decimal.Decimal{"THB": dec(t, "1")},
			wantOriginal: "10.00",
			wantBase:     "10.00",
		},
		{
			name:         "currency missing from rate table keeps amount unconverted",
			item:         models.ExpenseItem{ID: "i6", Amount: dec(t, "20.00"), Currency: "XXX"},
			value:        decPtr(t, "20.00"),
			rates:        map[string]decimal.Decimal{"THB": dec(t, "1")},
			wantOriginal: "20.00",
			wantBase:     "20.00",
		},
		{
			name:    "neither value nor percent is an input error",
			item:    models.ExpenseItem{ID: "i7", Amount: dec(t, "10.00"), Currency: "THB"},
			rates:   map[string]decimal.Decimal{"THB": dec(t, "1")},
			wantErr: apperr.ErrBadInput,
		},
		{
			name:    "percent above 100 is an input error",
			item:    models.ExpenseItem{ID: "i8", Amount: dec(t, "10.00"), Currency: "THB"},
			percent: decPtr(t, "100.01"),
			rates:   map[string]decimal.Decimal{"THB": dec(t, "1")},
			wantErr: apperr.ErrBadInput,
		},
		{
			name:    "negative percent is an input error",
			item:    models.ExpenseItem{ID: "i9", Amount: dec(t, "10.00"), Currency: "THB"},
			percent: decPtr(t, "-1"),
			rates:   map[string]decimal.Decimal{"THB": dec(t, "1")},
			wantErr: apperr.ErrBadInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original, base, err := AllocateShare(&tt.item, tt.value, tt.percent, norm, tt.rates)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("AllocateShare() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("AllocateShare() unexpected error: %v", err)
			}
			if got := original.StringFixed(2); got != tt.wantOriginal {
				t.Errorf("original = %s, want %s", got, tt.wantOriginal)
			}
			if got := base.StringFixed(2); got != tt.wantBase {
				t.Errorf("base = %s, want %s", got, tt.wantBase)
			}
		})
	}
}

func TestAllocateShareIdempotent(t *testing.T) {
	norm := currency.NewNormalizer("THB", nil)
	item := models.ExpenseItem{ID: "i1", Amount: dec(t, "33.33"), Currency: "USD"}
	rates := map[string]decimal.Decimal{"USD": dec(t, "35.123456")}
	percent := decPtr(t, "33.33")

	o1, b1, err := AllocateShare(&item, nil, percent, norm, rates)
	if err != nil {
		t.Fatalf("first allocation failed: %v", err)
	}
	o2, b2, err := AllocateShare(&item, nil, percent, norm, rates)
	if err != nil {
		t.Fatalf("second allocation failed: %v", err)
	}

	if o1.String() != o2.String() || b1.String() != b2.String() {
		t.Errorf("recomputation not idempotent: (%s, %s) vs (%s, %s)",
			o1, b1, o2, b2)
	}
}
