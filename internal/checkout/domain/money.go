package domain

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Money is an exact amount in a single currency. Amounts are decimals,
// never floats, so totals can be compared for equality.
type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func NewMoney(amount decimal.Decimal, unit currency.Unit) Money {
	return Money{Amount: amount, Currency: unit}
}

// ZeroMoney returns a zero amount in the given currency.
func ZeroMoney(unit currency.Unit) Money {
	return Money{Amount: decimal.Zero, Currency: unit}
}

// ParseMoney builds Money from a decimal string and an ISO 4217 code.
func ParseMoney(amount, code string) (Money, error) {
	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}

	unit, err := currency.ParseISO(code)
	if err != nil {
		return Money{}, fmt.Errorf("currency %q is not valid: %w", code, err)
	}

	return Money{Amount: dec, Currency: unit}, nil
}

// MulInt returns the amount multiplied by a unitless quantity.
func (m Money) MulInt(n int64) Money {
	return Money{
		Amount:   m.Amount.Mul(decimal.NewFromInt(n)),
		Currency: m.Currency,
	}
}

// Add sums two amounts. Mixing currencies is a programming error surfaced
// as ErrCurrencyMismatch rather than a silent wrong total.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// Equal reports whether both amount and currency match.
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.String(), m.Currency.String())
}

type moneyJSON struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// MarshalJSON encodes the currency as its ISO code; currency.Unit itself
// has no exported fields.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.Amount, Currency: m.Currency.String()})
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	unit, err := currency.ParseISO(raw.Currency)
	if err != nil {
		return fmt.Errorf("currency %q is not valid: %w", raw.Currency, err)
	}

	m.Amount = raw.Amount
	m.Currency = unit
	return nil
}
