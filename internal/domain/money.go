package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

// String renders the amount with two decimals followed by the ISO code, e.g. "12.50 EUR".
func (m Money) String() string {
	return m.Amount.StringFixed(2) + " " + m.Currency.String()
}
