// Package calculator holds the settlement math: share allocation, per-expense
// settlement, and cross-expense balance aggregation. Everything here is a
// pure function over models; storage and rate resolution live elsewhere.
package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/tallyup/tallyup/internal/apperr"
	"github.com/tallyup/tallyup/internal/currency"
	"github.com/tallyup/tallyup/internal/models"
)

// moneyScale is the scale money amounts are summed and compared at.
const moneyScale = 2

var hundred = decimal.NewFromInt(100)

// AllocateShare turns a declared share input into its derived values: the
// original-currency amount (2 decimal places, half-up) and its base-currency
// equivalent from the given rate table.
//
// Exactly one of value or percent is required on creation. When both are
// given, percent wins: it is the authoritative recomputation trigger.
func AllocateShare(item *models.ExpenseItem, value, percent *decimal.Decimal, norm *currency.Normalizer, rates map[string]decimal.Decimal) (original, base *decimal.Decimal, err error) {
	if value == nil && percent == nil {
		return nil, nil, apperr.BadInput("share on item %s: either a value or a percentage is required", item.ID)
	}

	var v decimal.Decimal
	switch {
	case percent != nil:
		if percent.IsNegative() || percent.GreaterThan(hundred) {
			return nil, nil, apperr.BadInput("share on item %s: percentage %s outside [0,100]", item.ID, percent)
		}
		v = item.Amount.Mul(*percent).Div(hundred).Round(moneyScale)
	default:
		v = value.Round(moneyScale)
	}

	return &v, norm.ToBase(item.Currency, &v, rates), nil
}
