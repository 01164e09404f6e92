// README: Common money value object used across modules.
package types

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// CurrencyBRL is the only currency fares are quoted in.
const CurrencyBRL = "BRL"

// Money is a fixed-point amount with two fraction digits.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

// NewMoney rounds v half-up to cents. The float is first taken at its
// shortest decimal representation, so 2.675 becomes 2.68 rather than the
// 2.67 that binary rounding gives.
func NewMoney(v float64, currency string) Money {
	return Money{Amount: decimal.NewFromFloat(v).Round(2), Currency: currency}
}

// MoneyFromCents builds a Money from an integer number of cents.
func MoneyFromCents(cents int64, currency string) Money {
	return Money{Amount: decimal.New(cents, -2), Currency: currency}
}

// Cents returns the amount as an integer number of cents.
func (m Money) Cents() int64 {
	return m.Amount.Shift(2).Round(0).IntPart()
}

func (m Money) String() string {
	return m.Amount.StringFixed(2) + " " + m.Currency
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   json.Number `json:"amount"`
		Currency string      `json:"currency"`
	}{
		Amount:   json.Number(m.Amount.StringFixed(2)),
		Currency: m.Currency,
	})
}
