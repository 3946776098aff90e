package currency

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tallyup/tallyup/internal/models"
)

type stubSource struct {
	rates map[string]decimal.Decimal
	err   error
}

func (s stubSource) FetchBaseQuotedRates(context.Context) (map[string]decimal.Decimal, error) {
	return s.rates, s.err
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

func TestRatesToBaseFromSnapshot(t *testing.T) {
	norm := NewNormalizer("THB", stubSource{err: errors.New("should not be called")})
	expense := &models.Expense{
		ID:           "e1",
		RateSnapshot: `{"USD": 35.50, "thb": 9.99, "EUR": "38.2"}`,
	}

	rates := norm.RatesToBase(context.Background(), expense)

	if got := rates["USD"]; !got.Equal(dec(t, "35.50")) {
		t.Errorf("USD rate = %s, want 35.50", got)
	}
	if got := rates["EUR"]; !got.Equal(dec(t, "38.2")) {
		t.Errorf("EUR rate = %s, want 38.2", got)
	}
	// The base entry is forced to 1 regardless of what the snapshot stores.
	if got := rates["THB"]; !got.Equal(dec(t, "1")) {
		t.Errorf("THB rate = %s, want 1", got)
	}
}

func TestRatesToBaseMalformedSnapshotFallsThroughToLive(t *testing.T) {
	norm := NewNormalizer("THB", stubSource{
		rates: map[string]decimal.Decimal{"USD": dec(t, "0.025")},
	})
	expense := &models.Expense{ID: "e1", RateSnapshot: `{not json`}

	rates := norm.RatesToBase(context.Background(), expense)

	// Base-quoted 0.025 inverts to 40 to-base.
	if got := rates["USD"]; !got.Equal(dec(t, "40")) {
		t.Errorf("USD rate = %s, want 40", got)
	}
	if got := rates["THB"]; !got.Equal(dec(t, "1")) {
		t.Errorf("THB rate = %s, want 1", got)
	}
}

func TestRatesToBaseLiveSkipsNonPositiveRates(t *testing.T) {
	norm := NewNormalizer("THB", stubSource{
		rates: map[string]decimal.Decimal{
			"USD": dec(t, "0.025"),
			"BAD": dec(t, "0"),
			"NEG": dec(t, "-3"),
		},
	})

	rates := norm.RatesToBase(context.Background(), &models.Expense{ID: "e1"})

	if _, ok := rates["BAD"]; ok {
		t.Error("zero base-quoted rate should not be invertible")
	}
	if _, ok := rates["NEG"]; ok {
		t.Error("negative base-quoted rate should not be invertible")
	}
	if _, ok := rates["USD"]; !ok {
		t.Error("positive rate missing from table")
	}
}

func TestRatesToBaseDeadSourceDegradesToBaseOnly(t *testing.T) {
	norm := NewNormalizer("THB", stubSource{err: errors.New("connection refused")})

	rates := norm.RatesToBase(context.Background(), &models.Expense{ID: "e1"})

	if len(rates) != 1 {
		t.Fatalf("rates = %v, want single base entry", rates)
	}
	if got := rates["THB"]; !got.Equal(dec(t, "1")) {
		t.Errorf("THB rate = %s, want 1", got)
	}
}

func TestRatesToBaseNilSource(t *testing.T) {
	norm := NewNormalizer("THB", nil)

	rates := norm.RatesToBase(context.Background(), &models.Expense{ID: "e1"})
	if len(rates) != 1 || !rates["THB"].Equal(dec(t, "1")) {
		t.Errorf("rates = %v, want {THB: 1}", rates)
	}
}

func TestToBase(t *testing.T) {
	norm := NewNormalizer("THB", nil)
	rates := map[string]decimal.Decimal{
		"THB": dec(t, "1"),
		"USD": dec(t, "35.50"),
	}

	tests := []struct {
		name   string
		code   string
		amount string
		want   string
	}{
		{"base currency is identity", "THB", "50.00", "50"},
		{"foreign currency converts", "USD", "30.00", "1065"},
		{"blank code defaults to base", "", "50.00", "50"},
		{"malformed code defaults to base", "DOLLARS", "50.00", "50"},
		{"lowercase code is normalized", "usd", "2.00", "71"},
		{"unknown 3-letter code gets rate 1", "ZZZ", "7.50", "7.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := dec(t, tt.amount)
			got := norm.ToBase(tt.code, &amount, rates)
			if got == nil {
				t.Fatal("ToBase returned nil for non-nil amount")
			}
			if !got.Equal(dec(t, tt.want)) {
				t.Errorf("ToBase(%s, %s) = %s, want %s", tt.code, tt.amount, got, tt.want)
			}
		})
	}
}

func TestToBaseNilAmountStaysNil(t *testing.T) {
	norm := NewNormalizer("THB", nil)
	if got := norm.ToBase("USD", nil, map[string]decimal.Decimal{}); got != nil {
		t.Errorf("ToBase(nil) = %s, want nil", got)
	}
}

func TestToBaseRoundsToSixPlaces(t *testing.T) {
	norm := NewNormalizer("THB", nil)
	rates := map[string]decimal.Decimal{"USD": dec(t, "35.1234565")}
	amount := dec(t, "1.00")

	got := norm.ToBase("USD", &amount, rates)
	// 35.1234565 rounds half-up on the seventh place.
	if want := dec(t, "35.123457"); !got.Equal(want) {
		t.Errorf("ToBase = %s, want %s", got, want)
	}
}
