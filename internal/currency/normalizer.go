// Package currency resolves exchange-rate tables for expenses and converts
// arbitrary currency amounts into the base currency.
//
// Rate resolution never fails: a malformed frozen snapshot falls through to
// the live source, and a dead live source degrades to a single-entry table
// holding only the base currency at rate 1, so every conversion behaves as
// if the amount were already in base currency.
package currency

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/tallyup/tallyup/internal/models"
)

// invertPrecision is the number of decimal digits kept when inverting a
// base-quoted rate to a to-base rate.
const invertPrecision = 18

// baseScale is the fixed output scale for stored base-currency values.
const baseScale = 6

var one = decimal.NewFromInt(1)

// Normalizer converts amounts into a single base currency.
type Normalizer struct {
	base   string
	source Source
}

// NewNormalizer creates a normalizer for the given base currency code.
// The source is consulted only for expenses without a usable frozen snapshot;
// it may be nil, in which case live resolution always degrades to base-only.
func NewNormalizer(base string, source Source) *Normalizer {
	return &Normalizer{base: normalizeCodeStrict(base), source: source}
}

// Base returns the base currency code.
func (n *Normalizer) Base() string { return n.base }

// RatesToBase resolves the currency->rate-to-base table for an expense.
//
// Resolution order: frozen snapshot, then live source, then the degenerate
// {base: 1} table. The base currency entry is always forced to 1 regardless
// of what a snapshot stores. This method never returns an error.
func (n *Normalizer) RatesToBase(ctx context.Context, expense *models.Expense) map[string]decimal.Decimal {
	if expense != nil && expense.RateSnapshot != "" {
		if rates, ok := n.parseSnapshot(expense.RateSnapshot); ok {
			return rates
		}
		snapshotParseFailures.Inc()
		slog.Debug("rate snapshot unusable, falling through to live rates",
			"expense_id", expense.ID)
	}
	return n.liveRates(ctx)
}

// ToBase converts an amount in the given currency into base currency.
//
// A nil amount stays nil. Blank or malformed currency codes default to the
// base currency; codes missing from the rate table get rate 1. The result
// is rounded half-up to 6 decimal places.
func (n *Normalizer) ToBase(code string, amount *decimal.Decimal, rates map[string]decimal.Decimal) *decimal.Decimal {
	if amount == nil {
		return nil
	}
	code = n.ResolveCode(code)
	rate, ok := rates[code]
	if !ok {
		rate = one
	}
	v := amount.Mul(rate).Round(baseScale)
	return &v
}

// ResolveCode normalizes a currency code, substituting the base currency for
// blank or non-3-letter codes.
func (n *Normalizer) ResolveCode(code string) string {
	if c := normalizeCodeStrict(code); c != "" {
		return c
	}
	return n.base
}

func (n *Normalizer) parseSnapshot(snapshot string) (map[string]decimal.Decimal, bool) {
	var raw map[string]decimal.Decimal
	if err := json.Unmarshal([]byte(snapshot), &raw); err != nil {
		return nil, false
	}
	rates := make(map[string]decimal.Decimal, len(raw)+1)
	for code, rate := range raw {
		if c := normalizeCodeStrict(code); c != "" {
			rates[c] = rate
		}
	}
	// The base converts to itself at 1, whatever the snapshot says.
	rates[n.base] = one
	return rates, true
}

func (n *Normalizer) liveRates(ctx context.Context) map[string]decimal.Decimal {
	degenerate := map[string]decimal.Decimal{n.base: one}
	if n.source == nil {
		return degenerate
	}

	quoted, err := n.source.FetchBaseQuotedRates(ctx)
	if err != nil {
		liveFetchTotal.WithLabelValues("fallback").Inc()
		slog.Warn("live rate fetch failed, using base-only rates", "error", err)
		return degenerate
	}
	liveFetchTotal.WithLabelValues("ok").Inc()

	// The source quotes base->foreign; invert to foreign->base.
	// Only positive rates are invertible.
	rates := make(map[string]decimal.Decimal, len(quoted)+1)
	for code, rate := range quoted {
		c := normalizeCodeStrict(code)
		if c == "" || !rate.IsPositive() {
			continue
		}
		rates[c] = one.DivRound(rate, invertPrecision)
	}
	rates[n.base] = one
	return rates
}

// normalizeCodeStrict upper-cases a 3-letter code, returning "" for anything
// that is not exactly three ASCII letters.
func normalizeCodeStrict(code string) string {
	if len(code) != 3 {
		return ""
	}
	out := make([]byte, 3)
	for i := 0; i < 3; i++ {
		c := code[i]
		switch {
		case c >= 'a' && c <= 'z':
			out[i] = c - ('a' - 'A')
		case c >= 'A' && c <= 'Z':
			out[i] = c
		default:
			return ""
		}
	}
	return string(out)
}
